package repository

import (
	"context"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LicenseRepository interface {
	Create(ctx context.Context, l *model.DriverLicense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DriverLicense, error)
	List(ctx context.Context) ([]model.DriverLicense, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.DriverLicense, error)
	Update(ctx context.Context, l *model.DriverLicense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type licenseRepo struct{ db *gorm.DB }

func NewLicenseRepository(db *gorm.DB) LicenseRepository { return &licenseRepo{db: db} }

func (r *licenseRepo) Create(ctx context.Context, l *model.DriverLicense) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *licenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DriverLicense, error) {
	var l model.DriverLicense
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *licenseRepo) List(ctx context.Context) ([]model.DriverLicense, error) {
	var licenses []model.DriverLicense
	err := r.db.WithContext(ctx).Order("expires_at").Find(&licenses).Error
	return licenses, err
}

func (r *licenseRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.DriverLicense, error) {
	var licenses []model.DriverLicense
	err := r.db.WithContext(ctx).
		Where("expires_at <= ?", cutoff).
		Order("expires_at").
		Find(&licenses).Error
	return licenses, err
}

func (r *licenseRepo) Update(ctx context.Context, l *model.DriverLicense) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *licenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DriverLicense{}, id).Error
}
