package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/apierror"
	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/middleware"
	"github.com/asif1001/wareopes1-sub002/internal/repository"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductionHandler struct{ svc service.ProductionService }

func NewProductionHandler(svc service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// RecordEntries godoc
// @Summary      Record a batch of sorting/packing entries
// @Description  Validates the whole batch, then consumes each sorting entry from its case ledger in an independent transaction. Entries already committed stay committed if a later case fails.
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        body body dto.RecordEntriesRequest true "Entry batch"
// @Success      201  {object} dto.RecordEntriesResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/production/entries [post]
func (h *ProductionHandler) RecordEntries(c *gin.Context) {
	var req dto.RecordEntriesRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.RecordEntries(c.Request.Context(), req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// writeLedgerError maps ledger failures onto the published error codes.
func writeLedgerError(c *gin.Context, err error) {
	var exceeds *repository.ExceedsRemainingError
	switch {
	case errors.Is(err, service.ErrInvalidEntry):
		c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeInvalidEntry, err.Error()))
	case errors.Is(err, repository.ErrCaseNotFound):
		c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeCaseNotFound, err.Error()))
	case errors.As(err, &exceeds):
		c.JSON(http.StatusBadRequest, apierror.ExceedsRemaining(err.Error(), exceeds.Remaining))
	default:
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to record entries"))
	}
}

// CaseStatus godoc
// @Summary Consumption status of one production case
// @Tags    production
// @Produce json
// @Param   shipmentId query string true "Shipment UUID"
// @Param   caseNumber query string true "Case number within the shipment"
// @Success 200 {object} dto.CaseStatusResponse
// @Failure 404 {object} apierror.APIError
// @Router  /v1/production/cases [get]
func (h *ProductionHandler) CaseStatus(c *gin.Context) {
	shipmentID := c.Query("shipmentId")
	caseNumber := c.Query("caseNumber")
	if shipmentID == "" || caseNumber == "" {
		c.JSON(http.StatusBadRequest,
			apierror.WithCode(apierror.CodeMissingParams, "shipmentId and caseNumber are required"))
		return
	}

	resp, err := h.svc.GetCaseStatus(c.Request.Context(), shipmentID, caseNumber)
	if err != nil {
		if errors.Is(err, repository.ErrCaseNotFound) {
			c.JSON(http.StatusNotFound, apierror.WithCode(apierror.CodeCaseNotFound, err.Error()))
			return
		}
		if errors.Is(err, service.ErrInvalidEntry) {
			c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeInvalidEntry, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to load case"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EntryLog pages through the audit trail of recorded entries.
// Non-admins only see their own entries.
func (h *ProductionHandler) EntryLog(c *gin.Context) {
	var filter dto.EntryLogFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}

	auth := middleware.GetAuth(c)
	if !auth.IsAdmin() {
		filter.UserID = auth.UserID.String()
	}

	resp, err := h.svc.ListEntries(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEntry) {
			c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeInvalidEntry, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to list entries"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summaries returns per-day productivity aggregates for a user.
// Non-admins may only query their own summaries.
func (h *ProductionHandler) Summaries(c *gin.Context) {
	auth := middleware.GetAuth(c)

	userID := auth.UserID
	if raw := c.Query("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeMissingParams, "invalid userId"))
			return
		}
		if parsed != auth.UserID && !auth.IsAdmin() {
			c.JSON(http.StatusForbidden,
				apierror.WithCode(apierror.CodeForbidden, "cannot view another user's summaries"))
			return
		}
		userID = parsed
	}

	to := time.Now()
	from := to.AddDate(0, 0, -7)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeMissingParams, "from must be YYYY-MM-DD"))
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeMissingParams, "to must be YYYY-MM-DD"))
			return
		}
		to = parsed
	}

	resp, err := h.svc.ListSummaries(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to list summaries"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
