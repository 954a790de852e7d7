package handler

import (
	"net/http"
	"strconv"

	"github.com/asif1001/wareopes1-sub002/internal/apierror"
	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type LicensesHandler struct{ svc service.LicenseService }

func NewLicensesHandler(svc service.LicenseService) *LicensesHandler {
	return &LicensesHandler{svc: svc}
}

func (h *LicensesHandler) Create(c *gin.Context) {
	var req dto.LicenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LicensesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to list licenses"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Expiring lists licenses expiring within ?days (default 30).
func (h *LicensesHandler) Expiring(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest,
				apierror.WithCode(apierror.CodeMissingParams, "days must be a positive integer"))
			return
		}
		days = parsed
	}
	resp, err := h.svc.ListExpiring(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to list expiring licenses"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LicensesHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.LicenseRequest
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

func (h *LicensesHandler) Delete(c *gin.Context) {
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
