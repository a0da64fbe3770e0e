package services

import (
	"github.com/billingstack/namesilo/config"
	"github.com/billingstack/namesilo/interfaces"
	"github.com/billingstack/namesilo/internal/logger"
	"github.com/billingstack/namesilo/internal/repository"
	"github.com/billingstack/namesilo/services/domain"
	"github.com/billingstack/namesilo/services/events"
	"github.com/billingstack/namesilo/services/namesilo"
	"github.com/billingstack/namesilo/services/product"
)

type Services struct {
	EventsPublisher interfaces.EventsPublisher
	NamesiloService interfaces.NamesiloService
	ProductAdapter  interfaces.ProductAdapter
	DomainService   interfaces.DomainService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	publisher, err := events.NewEventsPublisher(cfg.AppConfig.RabbitMQURL, log)
	if err != nil {
		return nil, err
	}

	namesiloService := namesilo.NewNamesiloService(cfg.NamesiloConfig, log)
	productAdapter := product.NewProductAdapter(namesiloService, log)

	services := Services{
		EventsPublisher: publisher,
		NamesiloService: namesiloService,
		ProductAdapter:  productAdapter,
		DomainService:   domain.NewDomainService(repos, namesiloService, productAdapter, publisher, cfg.DefaultContactConfig, log),
	}

	return &services, nil
}
