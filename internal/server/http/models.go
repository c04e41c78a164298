package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/digitd/internal/model"
	"github.com/ekisa-team/digitd/internal/service"
)

type (
	// ModelsResponseDTO is the response body for the ListModels operation.
	ModelsResponseDTO struct {
		Models []*model.ModelInstance `json:"models"`
	}
)

type (
	// ModelsOutput is the huma output for the ListModels operation.
	ModelsOutput struct {
		Body ModelsResponseDTO
	}

	// HealthOutput is the huma output for the Health operation.
	HealthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
)

// ModelsHandler handles HTTP requests for model introspection.
type ModelsHandler struct {
	service *service.Classify
}

// NewModelsHandler creates a new ModelsHandler instance.
func NewModelsHandler(api huma.API, service *service.Classify) *ModelsHandler {
	h := &ModelsHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID:   "list-models",
		Method:        "GET",
		Path:          "/models",
		Summary:       "List registered models and their status",
		Tags:          []string{"models"},
		DefaultStatus: http.StatusOK,
	}, h.handleListModels)

	huma.Register(api, huma.Operation{
		OperationID:   "health",
		Method:        "GET",
		Path:          "/health",
		Summary:       "Health check",
		Tags:          []string{"meta"},
		DefaultStatus: http.StatusOK,
	}, h.handleHealth)

	return h
}

// handleListModels handles the list-models operation.
func (h *ModelsHandler) handleListModels(ctx context.Context, input *struct{}) (*ModelsOutput, error) {
	return &ModelsOutput{
		Body: ModelsResponseDTO{
			Models: h.service.Models(ctx),
		},
	}, nil
}

// handleHealth handles the health operation.
func (h *ModelsHandler) handleHealth(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "healthy"
	return out, nil
}
