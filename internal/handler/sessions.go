package handler

import (
	"net/http"

	"tillbook/internal/apierror"
	"tillbook/internal/dto"
	"tillbook/internal/middleware"
	"tillbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionsHandler struct{ svc service.SessionService }

func NewSessionsHandler(svc service.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// Open godoc
// @Summary Opens a session on a register
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Param body body dto.OpenSessionRequest true "Opening declaration"
// @Success 201 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError "Register already has an open session"
// @Failure 422 {object} apierror.APIError "Override missing or too short"
// @Router /v1/registers/{id}/open [post]
func (h *SessionsHandler) Open(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid register id"))
		return
	}
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid user id"))
		return
	}

	resp, err := h.svc.Open(c.Request.Context(), registerID, userID, claims.IsManager(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Closes an open session with a counted balance
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body dto.CloseSessionRequest true "Closing declaration"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError "Session is not open"
// @Router /v1/sessions/{id}/close [post]
func (h *SessionsHandler) Close(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), sessionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordPayment godoc
// @Summary Records a sale payment against an open session
// @Tags sessions
// @Accept json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body dto.RecordPaymentRequest true "Payment"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/sessions/{id}/payments [post]
func (h *SessionsHandler) RecordPayment(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RecordPayment(c.Request.Context(), sessionID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get returns a single session by id.
func (h *SessionsHandler) Get(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
