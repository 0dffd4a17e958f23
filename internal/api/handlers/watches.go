package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/apple-stock-notifier/internal/state"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// WatchLister lists the configured watches.
type WatchLister interface {
	Watches(ctx context.Context) ([]domain.WatchEntry, error)
}

// WatchHandler serves the read-only watchlist view.
type WatchHandler struct {
	watches WatchLister
}

// NewWatchHandler creates a new WatchHandler.
func NewWatchHandler(w WatchLister) *WatchHandler {
	return &WatchHandler{watches: w}
}

// WatchView is one watch as rendered by the API.
type WatchView struct {
	Key        string `json:"key"         example:"256GB Xanh | Shibuya" doc:"Watch key"`
	Product    string `json:"product"     example:"256GB Xanh"           doc:"Product display name"`
	Store      string `json:"store"       example:"Shibuya"              doc:"Store name"`
	PartNumber string `json:"part_number" example:"MFYA4J/A"             doc:"Probed part number"`
}

// ListWatchesOutput is the response for GET /api/v1/watches.
type ListWatchesOutput struct {
	Body []WatchView
}

// List returns every watch sorted by key.
func (h *WatchHandler) List(ctx context.Context, _ *struct{}) (*ListWatchesOutput, error) {
	entries, err := h.watches.Watches(ctx)
	if err != nil {
		if errors.Is(err, state.ErrStopped) {
			return nil, huma.Error503ServiceUnavailable("watch state is shutting down")
		}
		return nil, huma.Error500InternalServerError("listing watches failed")
	}

	out := make([]WatchView, 0, len(entries))
	for _, e := range entries {
		out = append(out, WatchView{
			Key:        e.Key.String(),
			Product:    e.Key.Product,
			Store:      e.Key.Store,
			PartNumber: e.PartNumber,
		})
	}
	return &ListWatchesOutput{Body: out}, nil
}

// RegisterWatchRoutes registers the watchlist route on the Huma API.
func RegisterWatchRoutes(api huma.API, h *WatchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-watches",
		Method:      http.MethodGet,
		Path:        "/api/v1/watches",
		Summary:     "List watches",
		Description: "Returns every monitored (product, store) pair and its part number.",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusInternalServerError, http.StatusServiceUnavailable},
	}, h.List)
}
