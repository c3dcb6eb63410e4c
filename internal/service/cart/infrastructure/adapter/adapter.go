package adapter

import (
	"time"

	"github.com/pkg/errors"

	"cartview/internal/pkg/httpclient"
	"cartview/internal/pkg/metrics"
	"cartview/internal/service/cart/domain"
)

// observe 统一记录一次上游调用的耗时与结果，并把传输层错误翻译成领域错误。
// 重试、超时等策略属于传输层配置，这里不做。
func observe(upstream string, start time.Time, err error) error {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, httpclient.ErrStatusNotFound):
		outcome = "not_found"
	default:
		outcome = "upstream_error"
	}
	metrics.UpstreamRequestDuration.WithLabelValues(upstream, outcome).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		return nil
	case errors.Is(err, httpclient.ErrStatusNotFound):
		return domain.ErrNotFound
	default:
		return errors.Wrapf(domain.ErrUpstream, "%s: %v", upstream, err)
	}
}
