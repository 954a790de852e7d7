package infra

import (
	"fmt"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies idempotent SQL patches that AutoMigrate cannot express
// (partial indexes, composite uniqueness reconciliation).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates all tables and applies the SQL patches.
// Also used by integration tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.Shipment{},
		&model.ProductionCase{},
		&model.AllocationEntry{},
		&model.DailySummary{},
		&model.Task{},
		&model.MaintenanceRecord{},
		&model.DriverLicense{},
		&model.Report{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully
// handle. Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index for the report retry cron query.
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'reports')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_reports_pending_retry') THEN
		    CREATE INDEX idx_reports_pending_retry
		        ON reports (next_retry_at)
		        WHERE status = 'pending' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
		// Capacity guard at the storage level. The row-locked transaction is
		// the authoritative check; this constraint catches writes that bypass it.
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'production_cases')
		    AND NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cases_consumed_bounds') THEN
		    ALTER TABLE production_cases
		      ADD CONSTRAINT chk_cases_consumed_bounds
		      CHECK (consumed_lines >= 0 AND consumed_lines <= total_lines);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
