package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/digitd/internal/model"
	"github.com/ekisa-team/digitd/internal/service"
	"github.com/ekisa-team/digitd/internal/ximg"
)

type (
	// ClassifyResponseDTO is the response body for the Classify operation.
	ClassifyResponseDTO struct {
		// Digit is the predicted class 0-9, or -1 when no class matched.
		Digit int `json:"digit"`

		// Scores holds the raw per-class score vector.
		Scores []float32 `json:"scores"`

		// ElapsedNS is the inference wall time in nanoseconds.
		ElapsedNS int64 `json:"elapsed_ns"`
	}
)

type (
	// ClassifyInput is the huma input for the Classify operation.
	ClassifyInput struct {
		RawBody huma.MultipartFormFiles[struct {
			ImageFile huma.FormFile `form:"image" contentType:"image/png,image/jpeg,application/octet-stream" required:"true"`
			ModelID   string        `form:"model_id" minLength:"1" required:"true"`
		}]
	}

	// ClassifyOutput is the huma output for the Classify operation.
	ClassifyOutput struct {
		Body ClassifyResponseDTO
	}
)

// ClassifyHandler handles HTTP requests for digit classification.
type ClassifyHandler struct {
	service *service.Classify
}

// NewClassifyHandler creates a new ClassifyHandler instance.
func NewClassifyHandler(api huma.API, service *service.Classify) *ClassifyHandler {
	h := &ClassifyHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID:   "classify",
		Method:        "POST",
		Path:          "/classify",
		Summary:       "Identify the digit drawn on an uploaded bitmap",
		Tags:          []string{"classify"},
		DefaultStatus: http.StatusOK,
	}, h.handleClassify)

	return h
}

// handleClassify handles the classify operation.
func (h *ClassifyHandler) handleClassify(ctx context.Context, input *ClassifyInput) (*ClassifyOutput, error) {
	data := input.RawBody.Data()

	img, err := ximg.Decode(data.ImageFile)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("could not decode image", err)
	}

	// Uploads come in at arbitrary sizes; the classifier itself only accepts
	// the model's 28x28 input.
	img = ximg.Fit(img)

	result, err := h.service.Classify(ctx, data.ModelID, img)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return nil, huma.Error404NotFound("model not found", err)
		case errors.Is(err, model.ErrNotReady):
			return nil, huma.Error503ServiceUnavailable("model engine is not available", err)
		default:
			return nil, huma.Error500InternalServerError("failed to classify", err)
		}
	}

	return &ClassifyOutput{
		Body: ClassifyResponseDTO{
			Digit:     result.Digit,
			Scores:    result.Scores[:],
			ElapsedNS: result.Elapsed.Nanoseconds(),
		},
	}, nil
}
