package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/google/uuid"
)

// ErrInvalidEntry rejects malformed production entries before any case
// transaction is attempted.
var ErrInvalidEntry = errors.New("invalid entry")

type ProductionService interface {
	// RecordEntries validates the whole batch up front, then allocates each
	// sorting entry against its case in an independent transaction. A later
	// case failing does NOT roll back earlier committed allocations; the
	// audit entries and the daily summary are only written once every case
	// has committed.
	RecordEntries(ctx context.Context, req dto.RecordEntriesRequest) (*dto.RecordEntriesResponse, error)
	GetCaseStatus(ctx context.Context, shipmentID, caseNumber string) (*dto.CaseStatusResponse, error)
	ListSummaries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]dto.DailySummaryResponse, error)
	// ListEntries pages through the append-only audit log.
	ListEntries(ctx context.Context, filter dto.EntryLogFilter) (*dto.EntryLogResponse, error)
}

type productionService struct {
	cases       repository.CaseRepository
	allocations repository.AllocationRepository
	summaries   repository.SummaryRepository
}

func NewProductionService(
	cases repository.CaseRepository,
	allocations repository.AllocationRepository,
	summaries repository.SummaryRepository,
) ProductionService {
	return &productionService{cases: cases, allocations: allocations, summaries: summaries}
}

func (s *productionService) RecordEntries(ctx context.Context, req dto.RecordEntriesRequest) (*dto.RecordEntriesResponse, error) {
	// 1. Validate everything before touching any case.
	entryDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidEntry)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: userId must be a UUID", ErrInvalidEntry)
	}
	if len(req.SortingEntries) == 0 && len(req.PackingEntries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidEntry)
	}

	shipmentIDs := make([]uuid.UUID, len(req.SortingEntries))
	for i, e := range req.SortingEntries {
		if e.CaseNumber == "" || e.TotalLines <= 0 {
			return nil, fmt.Errorf("%w: sorting entry %d needs caseNumber and totalLines > 0", ErrInvalidEntry, i)
		}
		sid, err := uuid.Parse(e.ShipmentID)
		if err != nil {
			return nil, fmt.Errorf("%w: sorting entry %d has a bad shipmentId", ErrInvalidEntry, i)
		}
		shipmentIDs[i] = sid
	}
	for i, e := range req.PackingEntries {
		if e.LocationNo == "" || e.NewCaseNo == "" || e.LinesPacked <= 0 {
			return nil, fmt.Errorf("%w: packing entry %d needs locationNo, newCaseNo and linesPacked > 0", ErrInvalidEntry, i)
		}
	}

	// 2. Consume capacity, one row-locked transaction per case. Sequential:
	// a failure stops the batch but leaves earlier allocations committed.
	for i, e := range req.SortingEntries {
		if _, err := s.cases.Allocate(ctx, shipmentIDs[i], e.CaseNumber, e.TotalLines, userID); err != nil {
			return nil, err
		}
	}

	// 3. Audit trail: written only after all capacity updates committed.
	entries := make([]model.AllocationEntry, 0, len(req.SortingEntries)+len(req.PackingEntries))
	summary := dto.EntriesSummary{}
	for i, e := range req.SortingEntries {
		sid := shipmentIDs[i]
		cn := e.CaseNumber
		entries = append(entries, model.AllocationEntry{
			Type:        model.AllocationSorting,
			UserID:      userID,
			EntryDate:   entryDate,
			ShipmentID:  &sid,
			CaseNumber:  &cn,
			TotalLines:  e.TotalLines,
			EkcDomestic: e.EkcDomestic,
			EkmBulk:     e.EkmBulk,
		})
		summary.SortingCases++
		summary.SortingLines += e.TotalLines
	}
	for _, e := range req.PackingEntries {
		loc := e.LocationNo
		nc := e.NewCaseNo
		entries = append(entries, model.AllocationEntry{
			Type:        model.AllocationPacking,
			UserID:      userID,
			EntryDate:   entryDate,
			LocationNo:  &loc,
			NewCaseNo:   &nc,
			LinesPacked: e.LinesPacked,
		})
		summary.PackingCases++
		summary.PackingLines += e.LinesPacked
	}
	if err := s.allocations.CreateBatch(ctx, entries); err != nil {
		return nil, err
	}

	// 4. Daily aggregate.
	delta := repository.SummaryDelta{
		SortingCases: summary.SortingCases,
		SortingLines: summary.SortingLines,
		PackingCases: summary.PackingCases,
		PackingLines: summary.PackingLines,
	}
	if err := s.summaries.Upsert(ctx, userID, entryDate, delta); err != nil {
		return nil, err
	}

	return &dto.RecordEntriesResponse{OK: true, Summary: summary, ClientRef: req.ClientRef}, nil
}

func (s *productionService) GetCaseStatus(ctx context.Context, shipmentID, caseNumber string) (*dto.CaseStatusResponse, error) {
	sid, err := uuid.Parse(shipmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: shipmentId must be a UUID", ErrInvalidEntry)
	}
	if caseNumber == "" {
		return nil, fmt.Errorf("%w: caseNumber is required", ErrInvalidEntry)
	}

	c, err := s.cases.FindByShipmentCase(ctx, sid, caseNumber)
	if err != nil {
		return nil, err
	}

	resp := &dto.CaseStatusResponse{
		ShipmentID:     c.ShipmentID.String(),
		CaseNumber:     c.CaseNumber,
		TotalLines:     c.TotalLines,
		ConsumedLines:  c.ConsumedLines,
		RemainingLines: c.RemainingLines(),
		FullySorted:    c.FullySorted(),
	}
	if c.LastAllocatedAt != nil {
		t := c.LastAllocatedAt.Format(time.RFC3339)
		resp.LastAllocatedAt = &t
	}
	if c.LastAllocatedBy != nil {
		b := c.LastAllocatedBy.String()
		resp.LastAllocatedBy = &b
	}
	return resp, nil
}

func (s *productionService) ListEntries(ctx context.Context, filter dto.EntryLogFilter) (*dto.EntryLogResponse, error) {
	repoFilter := repository.AllocationFilter{
		Type:  filter.Type,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.UserID != "" {
		uid, err := uuid.Parse(filter.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: userId must be a UUID", ErrInvalidEntry)
		}
		repoFilter.UserID = &uid
	}
	if filter.From != "" {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return nil, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidEntry)
		}
		repoFilter.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return nil, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidEntry)
		}
		repoFilter.To = &to
	}

	entries, total, err := s.allocations.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EntryLogItem, len(entries))
	for i := range entries {
		data[i] = entryToLogItem(&entries[i])
	}
	return &dto.EntryLogResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func entryToLogItem(e *model.AllocationEntry) dto.EntryLogItem {
	item := dto.EntryLogItem{
		ID:          e.ID.String(),
		Type:        e.Type,
		UserID:      e.UserID.String(),
		Date:        e.EntryDate.Format("2006-01-02"),
		TotalLines:  e.TotalLines,
		EkcDomestic: e.EkcDomestic,
		EkmBulk:     e.EkmBulk,
		LocationNo:  e.LocationNo,
		NewCaseNo:   e.NewCaseNo,
		LinesPacked: e.LinesPacked,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.ShipmentID != nil {
		sid := e.ShipmentID.String()
		item.ShipmentID = &sid
	}
	item.CaseNumber = e.CaseNumber
	return item
}

func (s *productionService) ListSummaries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]dto.DailySummaryResponse, error) {
	summaries, err := s.summaries.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DailySummaryResponse, len(summaries))
	for i, sum := range summaries {
		resp[i] = dto.DailySummaryResponse{
			Date:         sum.Date.Format("2006-01-02"),
			SortingCases: sum.SortingCases,
			SortingLines: sum.SortingLines,
			PackingCases: sum.PackingCases,
			PackingLines: sum.PackingLines,
		}
	}
	return resp, nil
}
