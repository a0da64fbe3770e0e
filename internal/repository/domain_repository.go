package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/billingstack/namesilo/internal/models"
	"github.com/billingstack/namesilo/internal/tracing"
	"github.com/billingstack/namesilo/internal/utils"
)

type DomainRepository interface {
	Create(ctx context.Context, record *models.DomainRecord) error
	Update(ctx context.Context, record *models.DomainRecord) error
	GetByID(ctx context.Context, id string) (*models.DomainRecord, error)
	GetByOrderID(ctx context.Context, orderID int64) (*models.DomainRecord, error)
	GetExpiringBefore(ctx context.Context, deadline time.Time) ([]models.DomainRecord, error)
	CountByOrderID(ctx context.Context, orderID int64) (int64, error)
}

type domainRepository struct {
	db *gorm.DB
}

func NewDomainRepository(db *gorm.DB) DomainRepository {
	return &domainRepository{
		db: db,
	}
}

func (r *domainRepository) Create(ctx context.Context, record *models.DomainRecord) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagOrder(span, record.OrderID)
	span.LogKV("domain", record.Domain)

	now := utils.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return err
	}

	return nil
}

func (r *domainRepository) Update(ctx context.Context, record *models.DomainRecord) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.Update")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, record.ID)

	record.UpdatedAt = utils.Now()

	err := r.db.WithContext(ctx).Save(record).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return err
	}

	return nil
}

func (r *domainRepository) GetByID(ctx context.Context, id string) (*models.DomainRecord, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	var record models.DomainRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.LogFields(tracingLog.Bool("result.found", false))
			return nil, nil
		}
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	return &record, nil
}

func (r *domainRepository) GetByOrderID(ctx context.Context, orderID int64) (*models.DomainRecord, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.GetByOrderID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagOrder(span, orderID)

	var record models.DomainRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.LogFields(tracingLog.Bool("result.found", false))
			return nil, nil
		}
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	return &record, nil
}

func (r *domainRepository) GetExpiringBefore(ctx context.Context, deadline time.Time) ([]models.DomainRecord, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.GetExpiringBefore")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.LogKV("deadline", deadline)

	var records []models.DomainRecord
	err := r.db.WithContext(ctx).
		Where("expires_at IS NULL OR expires_at < ?", deadline).
		Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	return records, nil
}

func (r *domainRepository) CountByOrderID(ctx context.Context, orderID int64) (int64, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRepository.CountByOrderID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagOrder(span, orderID)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DomainRecord{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return 0, err
	}

	return count, nil
}
