// Package http provides HTTP handlers for self-destructing items.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
	"github.com/prateekro/trayme-guard/internal/httputil"
	"github.com/prateekro/trayme-guard/internal/secrets/http/dto"
	secretsUseCase "github.com/prateekro/trayme-guard/internal/secrets/usecase"
	customValidation "github.com/prateekro/trayme-guard/internal/validation"
)

// ItemHandler handles HTTP requests for self-destructing items.
type ItemHandler struct {
	store  secretsUseCase.SecretStore
	logger *slog.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(store secretsUseCase.SecretStore, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		store:  store,
		logger: logger,
	}
}

// StoreHandler encrypts and stores an item.
// POST /v1/items - Returns 201 Created with the item id only.
func (h *ItemHandler) StoreHandler(c *gin.Context) {
	var req dto.StoreItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	payload, err := req.Payload()
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid base64 value: %w", err), h.logger)
		return
	}
	defer cryptoDomain.Zero(payload)

	id, err := h.store.Store(c.Request.Context(), payload, req.Kind, req.TTL())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.StoreItemResponse{ID: id.String()})
}

// GetHandler authenticates through the gate and discloses an item.
// GET /v1/items/:id - Returns 200 OK, or 404 when the item is unavailable.
func (h *ItemHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	plaintext, err := h.store.Retrieve(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(plaintext)

	c.JSON(http.StatusOK, dto.MapItemToResponse(id, plaintext))
}

// DeleteHandler destroys an item. Unknown ids succeed.
// DELETE /v1/items/:id - Returns 204 No Content.
func (h *ItemHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// PurgeHandler deletes every expired item.
// POST /v1/items/purge?dry_run=true - Returns 200 OK with the purge report.
func (h *ItemHandler) PurgeHandler(c *gin.Context) {
	dryRun := false
	if raw := c.Query("dry_run"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid dry_run parameter: must be a boolean"), h.logger)
			return
		}
		dryRun = parsed
	}

	report, err := h.store.PurgeExpired(c.Request.Context(), dryRun)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPurgeReportToResponse(report))
}

func (h *ItemHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid item id format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
