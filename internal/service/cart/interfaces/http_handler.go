package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"cartview/internal/pkg/logger"
	"cartview/internal/service/cart/application"
	"cartview/internal/service/cart/domain"
)

// CartHandler 封装了聚合服务的 HTTP 处理器。
type CartHandler struct {
	service *application.CartService
}

// NewCartHandler 创建一个新的 HTTP 处理器实例。
func NewCartHandler(service *application.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *CartHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/cartDetails/{userId}", h.handleCartDetails)
}

func (h *CartHandler) handleCartDetails(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx = logger.WithRequestID(ctx, uuid.NewString())

	userID := r.PathValue("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	details, err := h.service.GetCartDetails(ctx, userID)
	if err != nil {
		// 聚合是全有或全无：按错误类型映射状态码，绝不返回部分结果
		var statusCode int
		switch {
		case errors.Is(err, domain.ErrNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, domain.ErrUpstream):
			statusCode = http.StatusBadGateway
		default:
			statusCode = http.StatusInternalServerError
		}
		logger.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("cart aggregation failed")
		http.Error(w, err.Error(), statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}
