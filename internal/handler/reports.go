package handler

import (
	"net/http"

	"github.com/asif1001/wareopes1-sub002/internal/apierror"
	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/middleware"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Request godoc
// @Summary      Request an AI-assisted operations report
// @Description  Persists the report and queues generation on the worker pool. Poll GET /v1/reports/{id} for status; download the PDF once status is done.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateReportRequest true "Report parameters"
// @Success      202  {object} dto.ReportResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reports [post]
func (h *ReportsHandler) Request(c *gin.Context) {
	var req dto.CreateReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	auth := middleware.GetAuth(c)
	resp, err := h.svc.Request(c.Request.Context(), auth.UserID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

func (h *ReportsHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("report not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) ListMine(c *gin.Context) {
	auth := middleware.GetAuth(c)
	resp, err := h.svc.ListMine(c.Request.Context(), auth.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError,
			apierror.WithCode(apierror.CodeServerError, "failed to list reports"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Download streams the finished PDF.
func (h *ReportsHandler) Download(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("report PDF not available"))
		return
	}
	c.FileAttachment(path, "report_"+id.String()+".pdf")
}
