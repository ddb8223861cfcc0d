// Package http provides HTTP handlers for classifying and masking text.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prateekro/trayme-guard/internal/classifier/http/dto"
	classifierService "github.com/prateekro/trayme-guard/internal/classifier/service"
	"github.com/prateekro/trayme-guard/internal/httputil"
	customValidation "github.com/prateekro/trayme-guard/internal/validation"
)

// ClassifierHandler exposes the pattern classifier over HTTP.
type ClassifierHandler struct {
	classifier classifierService.Classifier
	logger     *slog.Logger
}

// NewClassifierHandler creates a new classifier handler.
func NewClassifierHandler(classifier classifierService.Classifier, logger *slog.Logger) *ClassifierHandler {
	return &ClassifierHandler{
		classifier: classifier,
		logger:     logger,
	}
}

// ClassifyHandler reports which categories of sensitive content a text contains.
// POST /v1/classify
func (h *ClassifierHandler) ClassifyHandler(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	primary, detected := h.classifier.Detect(req.Text)
	highest, _ := h.classifier.HighestSeverity(req.Text)
	all := h.classifier.DetectAll(req.Text)

	c.JSON(http.StatusOK, dto.MapClassification(primary, all, highest, detected))
}

// MaskHandler returns the text with every sensitive span masked.
// POST /v1/mask
func (h *ClassifierHandler) MaskHandler(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	masked := h.classifier.Mask(req.Text)
	c.JSON(http.StatusOK, dto.MaskResponse{
		Masked:  masked,
		Changed: masked != req.Text,
	})
}

func (h *ClassifierHandler) bind(c *gin.Context) (*dto.TextRequest, bool) {
	var req dto.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}
	return &req, true
}
