package interfaces

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"cartview/internal/pkg/logger"
	"cartview/internal/service/catalog/application"
)

// CatalogHandler 封装了商品 feed 相关的 HTTP 处理器。
type CatalogHandler struct {
	service *application.CatalogService
}

func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/products", h.handleListProducts)
	mux.HandleFunc("POST /api/v1/products/sync", h.handleSyncProducts)
}

func (h *CatalogHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to list feed products")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

func (h *CatalogHandler) handleSyncProducts(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	products, err := h.service.SyncProducts(ctx)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("feed sync failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}
