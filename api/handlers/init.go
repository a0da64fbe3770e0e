package handlers

import "github.com/billingstack/namesilo/services"

type APIHandlers struct {
	Domains  *DomainsHandler
	Products *ProductsHandler
}

func InitHandlers(s *services.Services) *APIHandlers {
	return &APIHandlers{
		Domains:  NewDomainsHandler(s),
		Products: NewProductsHandler(s),
	}
}
