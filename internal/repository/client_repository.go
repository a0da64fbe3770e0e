package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/billingstack/namesilo/internal/models"
	"github.com/billingstack/namesilo/internal/tracing"
)

// ClientRepository reads client profiles from the billing database. The
// clients table is owned by the billing framework and consumed read-only.
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Client, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{
		db: db,
	}
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "ClientRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagClient(span, id)

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.LogFields(tracingLog.Bool("result.found", false))
			return nil, nil
		}
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	return &client, nil
}
