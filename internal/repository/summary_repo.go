package repository

import (
	"context"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SummaryDelta is the increment applied to a user's daily aggregate when an
// entry batch is accepted.
type SummaryDelta struct {
	SortingCases int
	SortingLines int
	PackingCases int
	PackingLines int
}

type SummaryRepository interface {
	Upsert(ctx context.Context, userID uuid.UUID, date time.Time, delta SummaryDelta) error
	ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.DailySummary, error)
	TotalsForDate(ctx context.Context, date time.Time) (*SummaryDelta, error)
	TotalsForRange(ctx context.Context, from, to time.Time) (*SummaryDelta, error)
}

type summaryRepo struct{ db *gorm.DB }

func NewSummaryRepository(db *gorm.DB) SummaryRepository { return &summaryRepo{db: db} }

func (r *summaryRepo) Upsert(ctx context.Context, userID uuid.UUID, date time.Time, delta SummaryDelta) error {
	// Incremental upsert: counters accumulate across batches within a day.
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO daily_summaries (user_id, date, sorting_cases, sorting_lines, packing_cases, packing_lines, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, now())
		ON CONFLICT (user_id, date) DO UPDATE
		SET sorting_cases = daily_summaries.sorting_cases + EXCLUDED.sorting_cases,
		    sorting_lines = daily_summaries.sorting_lines + EXCLUDED.sorting_lines,
		    packing_cases = daily_summaries.packing_cases + EXCLUDED.packing_cases,
		    packing_lines = daily_summaries.packing_lines + EXCLUDED.packing_lines,
		    updated_at = now()
	`, userID, date, delta.SortingCases, delta.SortingLines, delta.PackingCases, delta.PackingLines).Error
}

func (r *summaryRepo) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.DailySummary, error) {
	var summaries []model.DailySummary
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date").
		Find(&summaries).Error
	return summaries, err
}

func (r *summaryRepo) TotalsForDate(ctx context.Context, date time.Time) (*SummaryDelta, error) {
	return r.totals(ctx, "date = ?", date)
}

func (r *summaryRepo) TotalsForRange(ctx context.Context, from, to time.Time) (*SummaryDelta, error) {
	return r.totals(ctx, "date >= ? AND date <= ?", from, to)
}

func (r *summaryRepo) totals(ctx context.Context, cond string, args ...interface{}) (*SummaryDelta, error) {
	var totals SummaryDelta
	err := r.db.WithContext(ctx).Model(&model.DailySummary{}).
		Select("COALESCE(SUM(sorting_cases),0) AS sorting_cases, COALESCE(SUM(sorting_lines),0) AS sorting_lines, COALESCE(SUM(packing_cases),0) AS packing_cases, COALESCE(SUM(packing_lines),0) AS packing_lines").
		Where(cond, args...).
		Scan(&totals).Error
	return &totals, err
}
