package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/handler"
	"github.com/asif1001/wareopes1-sub002/internal/middleware"
	"github.com/asif1001/wareopes1-sub002/internal/repository"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductionSvc struct {
	recordErr  error
	statusErr  error
	lastReq    *dto.RecordEntriesRequest
	statusResp *dto.CaseStatusResponse
}

var _ service.ProductionService = (*stubProductionSvc)(nil)

func (s *stubProductionSvc) RecordEntries(_ context.Context, req dto.RecordEntriesRequest) (*dto.RecordEntriesResponse, error) {
	s.lastReq = &req
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	return &dto.RecordEntriesResponse{
		OK: true,
		Summary: dto.EntriesSummary{
			SortingCases: len(req.SortingEntries),
			SortingLines: sumLines(req.SortingEntries),
		},
		ClientRef: req.ClientRef,
	}, nil
}

func (s *stubProductionSvc) GetCaseStatus(context.Context, string, string) (*dto.CaseStatusResponse, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return s.statusResp, nil
}

func (s *stubProductionSvc) ListSummaries(context.Context, uuid.UUID, time.Time, time.Time) ([]dto.DailySummaryResponse, error) {
	return nil, nil
}

func (s *stubProductionSvc) ListEntries(_ context.Context, filter dto.EntryLogFilter) (*dto.EntryLogResponse, error) {
	return &dto.EntryLogResponse{Page: filter.Page, Limit: filter.Limit}, nil
}

func sumLines(entries []dto.SortingEntryRequest) int {
	total := 0
	for _, e := range entries {
		total += e.TotalLines
	}
	return total
}

func newProductionRouter(svc service.ProductionService, auth *service.AuthContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewProductionHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if auth != nil {
			c.Set(middleware.AuthKey, auth)
		}
	})
	r.POST("/v1/production/entries", h.RecordEntries)
	r.GET("/v1/production/cases", h.CaseStatus)
	r.GET("/v1/production/summaries", h.Summaries)
	return r
}

func validEntriesBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(dto.RecordEntriesRequest{
		Date:   "2026-08-30",
		UserID: uuid.NewString(),
		SortingEntries: []dto.SortingEntryRequest{
			{ShipmentID: uuid.NewString(), CaseNumber: "C-001", TotalLines: 40},
		},
		ClientRef: "batch-9",
	})
	require.NoError(t, err)
	return body
}

func postEntries(r *gin.Engine, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/production/entries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordEntries_Created(t *testing.T) {
	svc := &stubProductionSvc{}
	r := newProductionRouter(svc, nil)

	w := postEntries(r, validEntriesBody(t))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.RecordEntriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "batch-9", resp.ClientRef)
	assert.Equal(t, 40, resp.Summary.SortingLines)
}

func TestRecordEntries_MalformedJSON(t *testing.T) {
	r := newProductionRouter(&stubProductionSvc{}, nil)

	w := postEntries(r, []byte(`{"date": `))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_ENTRY", body["code"])
}

func TestRecordEntries_ExceedsRemainingCarriesRemaining(t *testing.T) {
	svc := &stubProductionSvc{recordErr: &repository.ExceedsRemainingError{Remaining: 15, Requested: 40}}
	r := newProductionRouter(svc, nil)

	w := postEntries(r, validEntriesBody(t))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Code      string `json:"code"`
		Detail    string `json:"detail"`
		Remaining *int   `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "EXCEEDS_REMAINING", body.Code)
	require.NotNil(t, body.Remaining)
	assert.Equal(t, 15, *body.Remaining)
	assert.Contains(t, body.Detail, "15 remaining")
}

func TestRecordEntries_ErrorCodes(t *testing.T) {
	cases := map[string]struct {
		err      error
		status   int
		wantCode string
	}{
		"case not found": {repository.ErrCaseNotFound, http.StatusBadRequest, "CASE_NOT_FOUND"},
		"invalid entry":  {fmt.Errorf("%w: no entries", service.ErrInvalidEntry), http.StatusBadRequest, "INVALID_ENTRY"},
		"storage":        {fmt.Errorf("pq: connection refused"), http.StatusInternalServerError, "SERVER_ERROR"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := newProductionRouter(&stubProductionSvc{recordErr: tc.err}, nil)
			w := postEntries(r, validEntriesBody(t))

			require.Equal(t, tc.status, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body["code"])
		})
	}
}

func TestCaseStatus_RequiresBothParams(t *testing.T) {
	r := newProductionRouter(&stubProductionSvc{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/production/cases?shipmentId="+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MISSING_PARAMS", body["code"])
}

func TestCaseStatus_NotFoundIs404(t *testing.T) {
	svc := &stubProductionSvc{statusErr: repository.ErrCaseNotFound}
	r := newProductionRouter(svc, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/production/cases?shipmentId="+uuid.NewString()+"&caseNumber=C-404", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CASE_NOT_FOUND", body["code"])
}

func TestSummaries_NonAdminCannotQueryOtherUser(t *testing.T) {
	me := uuid.New()
	auth := &service.AuthContext{UserID: me, Role: "Sorter"}
	r := newProductionRouter(&stubProductionSvc{}, auth)

	req := httptest.NewRequest(http.MethodGet, "/v1/production/summaries?userId="+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestSummaries_AdminMayQueryAnyUser(t *testing.T) {
	auth := &service.AuthContext{UserID: uuid.New(), Role: "Admin"}
	r := newProductionRouter(&stubProductionSvc{}, auth)

	req := httptest.NewRequest(http.MethodGet, "/v1/production/summaries?userId="+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
