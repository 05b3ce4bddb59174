package handler

import (
	"net/http"
	"strconv"

	"tillbook/internal/apierror"
	"tillbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LedgerHandler struct{ svc service.LedgerService }

func NewLedgerHandler(svc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// Ledger godoc
// @Summary Returns a register's open/close event history
// @Description Flat chronological feed by default; ?grouped=1 pairs each
// @Description closing with its opening and paginates over whole sessions.
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Param grouped query bool false "Group entries into sessions"
// @Param page query int false "Page (grouped only)"
// @Param size query int false "Page size (grouped only)"
// @Success 200 {object} dto.GroupedLedgerResponse
// @Router /v1/registers/{id}/ledger [get]
func (h *LedgerHandler) Ledger(c *gin.Context) {
	registerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid register id"))
		return
	}

	if c.Query("grouped") != "1" && c.Query("grouped") != "true" {
		resp, err := h.svc.Entries(c.Request.Context(), registerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": resp})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	resp, err := h.svc.Grouped(c.Request.Context(), registerID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Breakdown godoc
// @Summary Returns the per-session reconciliation breakdown
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.BreakdownResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/sessions/{id}/breakdown [get]
func (h *LedgerHandler) Breakdown(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	resp, err := h.svc.Breakdown(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
