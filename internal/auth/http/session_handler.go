// Package http provides HTTP handlers for the security session and access log.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/auth/http/dto"
	authUseCase "github.com/prateekro/trayme-guard/internal/auth/usecase"
	"github.com/prateekro/trayme-guard/internal/httputil"
	customValidation "github.com/prateekro/trayme-guard/internal/validation"
)

const settingsReason = "Authenticate to change security settings"

// SessionHandler handles HTTP requests that observe or drive the access gate.
type SessionHandler struct {
	gate   authUseCase.AccessGate
	logger *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(gate authUseCase.AccessGate, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		gate:   gate,
		logger: logger,
	}
}

// GetHandler returns the current session.
// GET /v1/session - Returns 200 OK.
func (h *SessionHandler) GetHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MapSessionToResponse(h.gate.Session()))
}

// LockHandler locks the session manually.
// POST /v1/session/lock - Returns 200 OK with the locked session.
func (h *SessionHandler) LockHandler(c *gin.Context) {
	h.gate.Lock(c.Request.Context(), authDomain.LockReasonManual)
	c.JSON(http.StatusOK, dto.MapSessionToResponse(h.gate.Session()))
}

// UnlockHandler prompts the device owner and unlocks on success.
// POST /v1/session/unlock - Returns 200 OK, 401 when declined, 423 when throttled.
func (h *SessionHandler) UnlockHandler(c *gin.Context) {
	var req dto.UnlockRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ok, err := h.gate.Authenticate(c.Request.Context(), req.PromptReason())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !ok {
		h.logger.Debug("unlock declined", slog.String("reason", h.gate.LastAuthError()))
		httputil.HandleErrorGin(c, authDomain.ErrAuthenticationDeclined, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(h.gate.Session()))
}

// ActivityHandler records user activity. It never unlocks.
// POST /v1/session/activity - Returns 204 No Content.
func (h *SessionHandler) ActivityHandler(c *gin.Context) {
	h.gate.UpdateActivity()
	c.Status(http.StatusNoContent)
}

// EventHandler applies an OS lifecycle event.
// POST /v1/session/events - Returns 200 OK with the locked session.
func (h *SessionHandler) EventHandler(c *gin.Context) {
	var req dto.SystemEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	event, err := authDomain.ParseSystemEvent(req.Event)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if err := h.gate.HandleSystemEvent(c.Request.Context(), event); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(h.gate.Session()))
}

// SettingsHandler changes the auto-lock threshold or the sensitive-content
// policy. The owner must authenticate first.
// PUT /v1/session/settings - Returns 200 OK, 401 when declined.
func (h *SessionHandler) SettingsHandler(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ok, err := h.gate.Authenticate(c.Request.Context(), settingsReason)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrAuthenticationDeclined, h.logger)
		return
	}

	if req.AutoLockMinutes != nil {
		if err := h.gate.SetAutoLockMinutes(*req.AutoLockMinutes); err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
	}
	if req.RequireAuthForSensitive != nil {
		h.gate.SetRequireAuthForSensitive(*req.RequireAuthForSensitive)
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(h.gate.Session()))
}

// AccessLogHandler lists the access log.
// GET /v1/access-log?offset=0&limit=50 - Returns 200 OK, newest first.
func (h *SessionHandler) AccessLogHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.gate.ListAccessLog(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccessLogToListResponse(entries))
}
