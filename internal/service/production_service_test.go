package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubCaseRepo is an in-memory CaseRepository. Allocate holds the repo mutex
// across the check and the increment, mirroring the row-locked transaction of
// the real implementation.
type stubCaseRepo struct {
	mu    sync.Mutex
	cases map[string]*model.ProductionCase
}

func newStubCaseRepo() *stubCaseRepo {
	return &stubCaseRepo{cases: make(map[string]*model.ProductionCase)}
}

func caseKey(shipmentID uuid.UUID, caseNumber string) string {
	return shipmentID.String() + "/" + caseNumber
}

func (r *stubCaseRepo) seed(shipmentID uuid.UUID, caseNumber string, total, consumed int) {
	r.cases[caseKey(shipmentID, caseNumber)] = &model.ProductionCase{
		ID:            uuid.New(),
		ShipmentID:    shipmentID,
		CaseNumber:    caseNumber,
		TotalLines:    total,
		ConsumedLines: consumed,
	}
}

func (r *stubCaseRepo) CreateBatch(_ context.Context, cases []model.ProductionCase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range cases {
		c := cases[i]
		r.cases[caseKey(c.ShipmentID, c.CaseNumber)] = &c
	}
	return nil
}

func (r *stubCaseRepo) FindByShipmentCase(_ context.Context, shipmentID uuid.UUID, caseNumber string) (*model.ProductionCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[caseKey(shipmentID, caseNumber)]
	if !ok {
		return nil, repository.ErrCaseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCaseRepo) ListByShipment(_ context.Context, shipmentID uuid.UUID) ([]model.ProductionCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ProductionCase
	for _, c := range r.cases {
		if c.ShipmentID == shipmentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCaseRepo) Allocate(_ context.Context, shipmentID uuid.UUID, caseNumber string, lines int, by uuid.UUID) (*model.ProductionCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[caseKey(shipmentID, caseNumber)]
	if !ok {
		return nil, repository.ErrCaseNotFound
	}
	remaining := c.TotalLines - c.ConsumedLines
	if lines > remaining {
		return nil, &repository.ExceedsRemainingError{Remaining: remaining, Requested: lines}
	}
	c.ConsumedLines += lines
	now := time.Now()
	c.LastAllocatedAt = &now
	c.LastAllocatedBy = &by
	cp := *c
	return &cp, nil
}

func (r *stubCaseRepo) CountFullySortedSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.cases {
		if c.FullySorted() && c.LastAllocatedAt != nil && c.LastAllocatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

var _ repository.CaseRepository = (*stubCaseRepo)(nil)

// stubAllocationRepo captures audit entries for assertion.
type stubAllocationRepo struct {
	mu      sync.Mutex
	entries []model.AllocationEntry
}

func (r *stubAllocationRepo) CreateBatch(_ context.Context, entries []model.AllocationEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *stubAllocationRepo) List(_ context.Context, _ repository.AllocationFilter) ([]model.AllocationEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, int64(len(r.entries)), nil
}

var _ repository.AllocationRepository = (*stubAllocationRepo)(nil)

// stubSummaryRepo accumulates per-user/day deltas like the SQL upsert does.
type stubSummaryRepo struct {
	mu   sync.Mutex
	rows map[string]*model.DailySummary
}

func newStubSummaryRepo() *stubSummaryRepo {
	return &stubSummaryRepo{rows: make(map[string]*model.DailySummary)}
}

func (r *stubSummaryRepo) Upsert(_ context.Context, userID uuid.UUID, date time.Time, delta repository.SummaryDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID.String() + "/" + date.Format("2006-01-02")
	row, ok := r.rows[key]
	if !ok {
		row = &model.DailySummary{ID: uuid.New(), UserID: userID, Date: date}
		r.rows[key] = row
	}
	row.SortingCases += delta.SortingCases
	row.SortingLines += delta.SortingLines
	row.PackingCases += delta.PackingCases
	row.PackingLines += delta.PackingLines
	return nil
}

func (r *stubSummaryRepo) ListByUser(_ context.Context, userID uuid.UUID, from, to time.Time) ([]model.DailySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DailySummary
	for _, row := range r.rows {
		if row.UserID == userID && !row.Date.Before(from) && !row.Date.After(to) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *stubSummaryRepo) TotalsForDate(_ context.Context, date time.Time) (*repository.SummaryDelta, error) {
	return r.TotalsForRange(context.Background(), date, date)
}

func (r *stubSummaryRepo) TotalsForRange(_ context.Context, from, to time.Time) (*repository.SummaryDelta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := &repository.SummaryDelta{}
	for _, row := range r.rows {
		if !row.Date.Before(from) && !row.Date.After(to) {
			totals.SortingCases += row.SortingCases
			totals.SortingLines += row.SortingLines
			totals.PackingCases += row.PackingCases
			totals.PackingLines += row.PackingLines
		}
	}
	return totals, nil
}

var _ repository.SummaryRepository = (*stubSummaryRepo)(nil)

func buildProductionSvc() (service.ProductionService, *stubCaseRepo, *stubAllocationRepo, *stubSummaryRepo) {
	cases := newStubCaseRepo()
	allocations := &stubAllocationRepo{}
	summaries := newStubSummaryRepo()
	return service.NewProductionService(cases, allocations, summaries), cases, allocations, summaries
}

func sortingEntry(shipmentID uuid.UUID, caseNumber string, lines int) dto.SortingEntryRequest {
	return dto.SortingEntryRequest{
		ShipmentID: shipmentID.String(),
		CaseNumber: caseNumber,
		TotalLines: lines,
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRecordEntries_ConsumesCapacity(t *testing.T) {
	svc, cases, _, _ := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 0)

	resp, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
		Date:           "2026-09-01",
		UserID:         uuid.New().String(),
		SortingEntries: []dto.SortingEntryRequest{sortingEntry(shipmentID, "C-001", 40)},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 1, resp.Summary.SortingCases)
	assert.Equal(t, 40, resp.Summary.SortingLines)

	c, err := cases.FindByShipmentCase(context.Background(), shipmentID, "C-001")
	require.NoError(t, err)
	assert.Equal(t, 40, c.ConsumedLines)
	assert.Equal(t, 60, c.RemainingLines())
	assert.False(t, c.FullySorted())
}

func TestRecordEntries_ExceedsRemaining(t *testing.T) {
	svc, cases, allocations, _ := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 40)

	_, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
		Date:           "2026-09-01",
		UserID:         uuid.New().String(),
		SortingEntries: []dto.SortingEntryRequest{sortingEntry(shipmentID, "C-001", 61)},
	})

	var exceeds *repository.ExceedsRemainingError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, 60, exceeds.Remaining)
	assert.Equal(t, 61, exceeds.Requested)

	// Rejected allocation leaves the case untouched and writes no audit rows.
	c, _ := cases.FindByShipmentCase(context.Background(), shipmentID, "C-001")
	assert.Equal(t, 40, c.ConsumedLines)
	assert.Empty(t, allocations.entries)
}

func TestRecordEntries_ExactFill(t *testing.T) {
	svc, cases, _, _ := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 40)

	_, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
		Date:           "2026-09-01",
		UserID:         uuid.New().String(),
		SortingEntries: []dto.SortingEntryRequest{sortingEntry(shipmentID, "C-001", 60)},
	})
	require.NoError(t, err)

	c, _ := cases.FindByShipmentCase(context.Background(), shipmentID, "C-001")
	assert.Equal(t, 100, c.ConsumedLines)
	assert.Equal(t, 0, c.RemainingLines())
	assert.True(t, c.FullySorted())
}

func TestRecordEntries_CaseNotFound(t *testing.T) {
	svc, cases, _, _ := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 0)

	_, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
		Date:           "2026-09-01",
		UserID:         uuid.New().String(),
		SortingEntries: []dto.SortingEntryRequest{sortingEntry(shipmentID, "C-999", 10)},
	})
	assert.ErrorIs(t, err, repository.ErrCaseNotFound)
}

func TestRecordEntries_ConcurrentAllocationsExclusive(t *testing.T) {
	svc, cases, _, _ := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 0)

	// Two concurrent 60-line entries against 100 remaining: exactly one can
	// commit, the other must see EXCEEDS_REMAINING.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
				Date:           "2026-09-01",
				UserID:         uuid.New().String(),
				SortingEntries: []dto.SortingEntryRequest{sortingEntry(shipmentID, "C-001", 60)},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var exceeds *repository.ExceedsRemainingError
			assert.ErrorAs(t, err, &exceeds)
		}
	}
	assert.Equal(t, 1, succeeded)

	c, _ := cases.FindByShipmentCase(context.Background(), shipmentID, "C-001")
	assert.Equal(t, 60, c.ConsumedLines)
}

func TestRecordEntries_ValidationBeforeAnyAllocation(t *testing.T) {
	svc, cases, _, _ := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 0)

	// Second entry is malformed: nothing at all may be consumed.
	_, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
		Date:   "2026-09-01",
		UserID: uuid.New().String(),
		SortingEntries: []dto.SortingEntryRequest{
			sortingEntry(shipmentID, "C-001", 40),
			sortingEntry(shipmentID, "", 10),
		},
	})
	assert.ErrorIs(t, err, service.ErrInvalidEntry)

	c, _ := cases.FindByShipmentCase(context.Background(), shipmentID, "C-001")
	assert.Equal(t, 0, c.ConsumedLines)
}

func TestRecordEntries_InvalidRequests(t *testing.T) {
	svc, _, _, _ := buildProductionSvc()
	userID := uuid.New().String()

	for name, req := range map[string]dto.RecordEntriesRequest{
		"bad date":      {Date: "01/09/2026", UserID: userID, PackingEntries: []dto.PackingEntryRequest{{LocationNo: "L1", NewCaseNo: "N1", LinesPacked: 5}}},
		"bad user id":   {Date: "2026-09-01", UserID: "not-a-uuid", PackingEntries: []dto.PackingEntryRequest{{LocationNo: "L1", NewCaseNo: "N1", LinesPacked: 5}}},
		"empty batch":   {Date: "2026-09-01", UserID: userID},
		"zero lines":    {Date: "2026-09-01", UserID: userID, SortingEntries: []dto.SortingEntryRequest{sortingEntry(uuid.New(), "C-1", 0)}},
		"bad shipment":  {Date: "2026-09-01", UserID: userID, SortingEntries: []dto.SortingEntryRequest{{ShipmentID: "nope", CaseNumber: "C-1", TotalLines: 5}}},
		"empty packing": {Date: "2026-09-01", UserID: userID, PackingEntries: []dto.PackingEntryRequest{{LocationNo: "", NewCaseNo: "N1", LinesPacked: 5}}},
	} {
		_, err := svc.RecordEntries(context.Background(), req)
		assert.ErrorIs(t, err, service.ErrInvalidEntry, name)
	}
}

func TestRecordEntries_PartialFailureKeepsEarlierCommits(t *testing.T) {
	svc, cases, allocations, summaries := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 0)
	cases.seed(shipmentID, "C-002", 10, 10) // already full

	userID := uuid.New()
	_, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
		Date:   "2026-09-01",
		UserID: userID.String(),
		SortingEntries: []dto.SortingEntryRequest{
			sortingEntry(shipmentID, "C-001", 30),
			sortingEntry(shipmentID, "C-002", 5),
		},
	})
	var exceeds *repository.ExceedsRemainingError
	require.ErrorAs(t, err, &exceeds)

	// The first case's allocation stays committed.
	c1, _ := cases.FindByShipmentCase(context.Background(), shipmentID, "C-001")
	assert.Equal(t, 30, c1.ConsumedLines)

	// Audit entries and the daily summary are only written on full success.
	assert.Empty(t, allocations.entries)
	assert.Empty(t, summaries.rows)
}

func TestRecordEntries_MixedBatchWritesAuditAndSummary(t *testing.T) {
	svc, cases, allocations, summaries := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 0)
	cases.seed(shipmentID, "C-002", 50, 0)

	userID := uuid.New()
	resp, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
		Date:   "2026-09-01",
		UserID: userID.String(),
		SortingEntries: []dto.SortingEntryRequest{
			sortingEntry(shipmentID, "C-001", 40),
			sortingEntry(shipmentID, "C-002", 25),
		},
		PackingEntries: []dto.PackingEntryRequest{
			{LocationNo: "A-12", NewCaseNo: "N-100", LinesPacked: 30},
		},
		ClientRef: "batch-7",
	})
	require.NoError(t, err)
	assert.Equal(t, dto.EntriesSummary{
		SortingCases: 2, SortingLines: 65,
		PackingCases: 1, PackingLines: 30,
	}, resp.Summary)
	assert.Equal(t, "batch-7", resp.ClientRef)

	require.Len(t, allocations.entries, 3)
	assert.Equal(t, model.AllocationSorting, allocations.entries[0].Type)
	assert.Equal(t, model.AllocationPacking, allocations.entries[2].Type)

	totals, err := summaries.TotalsForDate(context.Background(), mustDate(t, "2026-09-01"))
	require.NoError(t, err)
	assert.Equal(t, 65, totals.SortingLines)
	assert.Equal(t, 30, totals.PackingLines)
}

func TestRecordEntries_SummariesAccumulateAcrossBatches(t *testing.T) {
	svc, cases, _, _ := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 0)
	userID := uuid.New()

	for _, lines := range []int{20, 30} {
		_, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
			Date:           "2026-09-01",
			UserID:         userID.String(),
			SortingEntries: []dto.SortingEntryRequest{sortingEntry(shipmentID, "C-001", lines)},
		})
		require.NoError(t, err)
	}

	day := mustDate(t, "2026-09-01")
	resp, err := svc.ListSummaries(context.Background(), userID, day, day)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, 2, resp[0].SortingCases)
	assert.Equal(t, 50, resp[0].SortingLines)
}

func TestGetCaseStatus(t *testing.T) {
	svc, cases, _, _ := buildProductionSvc()
	shipmentID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 100)

	resp, err := svc.GetCaseStatus(context.Background(), shipmentID.String(), "C-001")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.RemainingLines)
	assert.True(t, resp.FullySorted)

	_, err = svc.GetCaseStatus(context.Background(), shipmentID.String(), "C-404")
	assert.ErrorIs(t, err, repository.ErrCaseNotFound)

	_, err = svc.GetCaseStatus(context.Background(), "not-a-uuid", "C-001")
	assert.ErrorIs(t, err, service.ErrInvalidEntry)
}

func TestListEntries_ReturnsRecordedBatch(t *testing.T) {
	svc, cases, _, _ := buildProductionSvc()
	shipmentID := uuid.New()
	userID := uuid.New()
	cases.seed(shipmentID, "C-001", 100, 0)

	_, err := svc.RecordEntries(context.Background(), dto.RecordEntriesRequest{
		Date:           "2026-09-01",
		UserID:         userID.String(),
		SortingEntries: []dto.SortingEntryRequest{sortingEntry(shipmentID, "C-001", 40)},
		PackingEntries: []dto.PackingEntryRequest{
			{LocationNo: "L-12", NewCaseNo: "NC-7", LinesPacked: 18},
		},
	})
	require.NoError(t, err)

	resp, err := svc.ListEntries(context.Background(), dto.EntryLogFilter{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Data, 2)

	byType := map[string]dto.EntryLogItem{}
	for _, item := range resp.Data {
		byType[item.Type] = item
	}
	sorting := byType[model.AllocationSorting]
	assert.Equal(t, userID.String(), sorting.UserID)
	assert.Equal(t, "2026-09-01", sorting.Date)
	require.NotNil(t, sorting.ShipmentID)
	assert.Equal(t, shipmentID.String(), *sorting.ShipmentID)
	require.NotNil(t, sorting.CaseNumber)
	assert.Equal(t, "C-001", *sorting.CaseNumber)
	assert.Equal(t, 40, sorting.TotalLines)

	packing := byType[model.AllocationPacking]
	require.NotNil(t, packing.LocationNo)
	assert.Equal(t, "L-12", *packing.LocationNo)
	require.NotNil(t, packing.NewCaseNo)
	assert.Equal(t, "NC-7", *packing.NewCaseNo)
	assert.Equal(t, 18, packing.LinesPacked)
	assert.Nil(t, packing.ShipmentID)

	_, err = svc.ListEntries(context.Background(), dto.EntryLogFilter{UserID: "nope", Page: 1, Limit: 100})
	assert.ErrorIs(t, err, service.ErrInvalidEntry)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
