package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

// SnapshotSource exposes the availability records of the last sweep.
type SnapshotSource interface {
	Snapshot() []domain.AvailabilityRecord
}

// AvailabilityHandler serves GET /api/v1/availability.
type AvailabilityHandler struct {
	source SnapshotSource
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(s SnapshotSource) *AvailabilityHandler {
	return &AvailabilityHandler{source: s}
}

// AvailabilityOutput is the response for GET /api/v1/availability.
type AvailabilityOutput struct {
	Body []domain.AvailabilityRecord
}

// List returns the availability record of every watch as of the last
// completed sweep. Watches added since then are absent.
func (h *AvailabilityHandler) List(_ context.Context, _ *struct{}) (*AvailabilityOutput, error) {
	return &AvailabilityOutput{Body: h.source.Snapshot()}, nil
}

// RegisterAvailabilityRoutes registers the availability route on the Huma API.
func RegisterAvailabilityRoutes(api huma.API, h *AvailabilityHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-availability",
		Method:      http.MethodGet,
		Path:        "/api/v1/availability",
		Summary:     "List availability",
		Description: "Returns the last known stock state of each watch.",
		Tags:        []string{"availability"},
	}, h.List)
}
