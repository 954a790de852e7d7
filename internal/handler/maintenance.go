package handler

import (
	"net/http"

	"github.com/asif1001/wareopes1-sub002/internal/apierror"
	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/middleware"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct{ svc service.MaintenanceService }

func NewMaintenanceHandler(svc service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc}
}

func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req dto.MaintenanceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Create(c.Request.Context(), auth.UserID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MaintenanceHandler) List(c *gin.Context) {
	var filter dto.MaintenanceFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to list maintenance records"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaintenanceHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.MaintenanceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaintenanceHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
