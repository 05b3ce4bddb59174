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

type RegistersHandler struct{ svc service.RegisterService }

func NewRegistersHandler(svc service.RegisterService) *RegistersHandler {
	return &RegistersHandler{svc: svc}
}

// List godoc
// @Summary Lists the branch's cash registers
// @Tags registers
// @Produce json
// @Security BearerAuth
// @Param X-Branch-ID header int true "Branch scope"
// @Success 200 {array} dto.RegisterResponse
// @Router /v1/registers [get]
func (h *RegistersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), middleware.GetBranchID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Creates a cash register in the branch
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateRegisterRequest true "Register data"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/registers [post]
func (h *RegistersHandler) Create(c *gin.Context) {
	var req dto.CreateRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetBranchID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary Updates a register's name, code, or assignment
// @Tags registers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Param body body dto.UpdateRegisterRequest true "Fields to update"
// @Success 200 {object} dto.RegisterResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/registers/{id} [put]
func (h *RegistersHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary Deactivates a register
// @Tags registers
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Success 204
// @Router /v1/registers/{id} [delete]
func (h *RegistersHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Activate godoc
// @Summary Reactivates a register
// @Tags registers
// @Security BearerAuth
// @Param id path string true "Register ID"
// @Success 204
// @Router /v1/registers/{id}/activate [post]
func (h *RegistersHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Activate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
