package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/billingstack/namesilo/config"
	"github.com/billingstack/namesilo/dto"
	"github.com/billingstack/namesilo/interfaces"
	er "github.com/billingstack/namesilo/internal/errors"
	"github.com/billingstack/namesilo/internal/logger"
	"github.com/billingstack/namesilo/internal/models"
	"github.com/billingstack/namesilo/internal/repository"
	"github.com/billingstack/namesilo/internal/tracing"
	"github.com/billingstack/namesilo/internal/utils"
	"github.com/billingstack/namesilo/services/product"
)

// registrar getDomainInfo date layout
const registrarDateLayout = "2006-01-02"

// how far ahead the expiry sync job refreshes records from the registrar
const expirySyncHorizon = 45 * 24 * time.Hour

type domainService struct {
	postgres       *repository.Repositories
	namesilo       interfaces.NamesiloService
	products       interfaces.ProductAdapter
	events         interfaces.EventsPublisher
	defaultContact *config.DefaultContactConfig
	log            logger.Logger
}

func NewDomainService(
	postgres *repository.Repositories,
	namesilo interfaces.NamesiloService,
	products interfaces.ProductAdapter,
	events interfaces.EventsPublisher,
	defaultContact *config.DefaultContactConfig,
	log logger.Logger,
) interfaces.DomainService {
	return &domainService{
		postgres:       postgres,
		namesilo:       namesilo,
		products:       products,
		events:         events,
		defaultContact: defaultContact,
		log:            log,
	}
}

// Register validates the order, resolves the registrant contact, performs
// the billable registration and persists the local record. No record is
// written when the registrar call fails.
func (s *domainService) Register(ctx context.Context, order models.Order, prod models.Product, data map[string]string) (*models.DomainRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.Register")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagOrder(span, order.ID)
	tracing.TagClient(span, order.ClientID)

	if err := s.products.ValidateOrder(prod, data); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain registration failed")
	}

	if err := s.ensureOrderUnprovisioned(ctx, order.ID); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain registration failed")
	}

	sld := strings.ToLower(data["domain_sld"])
	tld := strings.ToLower(data["domain_tld"])
	domain := sld + "." + tld
	span.LogKV("domain", domain)

	features := s.products.ProductDetails(prod).Features
	years, err := parseYears(data, features.MinYears, features.MaxYears)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain registration failed")
	}

	contact, err := s.resolveContact(ctx, order.ClientID, data)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain registration failed")
	}

	registration, err := s.namesilo.RegisterDomain(ctx, domain, years, contact)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain registration failed")
	}

	now := utils.Now()
	record := &models.DomainRecord{
		ClientID:        order.ClientID,
		ProductID:       prod.ID,
		OrderID:         order.ID,
		Sld:             sld,
		Tld:             tld,
		Domain:          domain,
		NamesiloOrderID: registration.OrderID,
		// calendar-year arithmetic, not a fixed day count
		ExpiresAt: utils.TimePtr(now.AddDate(years, 0, 0)),
	}

	if err = s.postgres.DomainRepository.Create(ctx, record); err != nil {
		// The registrar charge already happened; the record is gone.
		// Rolling the registration back is an open product decision, so
		// the failure is surfaced as-is.
		tracing.TraceErr(span, errors.Wrap(err, "failed to store domain record after registration"))
		return nil, errors.Wrap(err, "domain registered but local record persistence failed")
	}

	s.publishEvent(ctx, dto.DomainRegistered, record)

	return record, nil
}

// Transfer initiates a registrar transfer. The registrar does not report an
// expiry for transfers, so the record is stored without one; the renew path
// populates it later.
func (s *domainService) Transfer(ctx context.Context, order models.Order, prod models.Product, data map[string]string) (*models.DomainRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.Transfer")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagOrder(span, order.ID)
	tracing.TagClient(span, order.ClientID)

	if err := s.products.ValidateOrder(prod, data); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain transfer failed")
	}

	if err := s.ensureOrderUnprovisioned(ctx, order.ID); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain transfer failed")
	}

	authCode := data["domain_transfer_auth_code"]
	if authCode == "" {
		err := er.NewValidationError("domain_transfer_auth_code", "authorization code is required for domain transfer")
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain transfer failed")
	}

	sld := strings.ToLower(data["domain_sld"])
	tld := strings.ToLower(data["domain_tld"])
	domain := sld + "." + tld
	span.LogKV("domain", domain)

	transfer, err := s.namesilo.TransferDomain(ctx, domain, authCode)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain transfer failed")
	}

	record := &models.DomainRecord{
		ClientID:        order.ClientID,
		ProductID:       prod.ID,
		OrderID:         order.ID,
		Sld:             sld,
		Tld:             tld,
		Domain:          domain,
		NamesiloOrderID: transfer.OrderID,
	}

	if err = s.postgres.DomainRepository.Create(ctx, record); err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to store domain record after transfer"))
		return nil, errors.Wrap(err, "domain transfer accepted but local record persistence failed")
	}

	s.publishEvent(ctx, dto.DomainTransferred, record)

	return record, nil
}

// Renew renews the domain behind an existing billing order. The new expiry
// is always now + years, never the stored expiry + years.
func (s *domainService) Renew(ctx context.Context, order models.Order, data map[string]string) (*models.DomainRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.Renew")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagOrder(span, order.ID)

	record, err := s.postgres.DomainRepository.GetByOrderID(ctx, order.ID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain renewal failed")
	}
	if record == nil {
		err = errors.Wrap(er.ErrDomainNotFound, "domain renewal failed")
		tracing.TraceErr(span, err)
		return nil, err
	}
	span.LogKV("domain", record.Domain)

	years, err := parseYears(data, 1, 10)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain renewal failed")
	}

	renewal, err := s.namesilo.RenewDomain(ctx, record.Domain, years)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain renewal failed")
	}
	span.LogFields(tracingLog.String("result.registrarOrderId", renewal.OrderID))

	record.ExpiresAt = utils.TimePtr(utils.Now().AddDate(years, 0, 0))
	if err = s.postgres.DomainRepository.Update(ctx, record); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain renewed but local record update failed")
	}

	s.publishEvent(ctx, dto.DomainRenewed, record)

	return record, nil
}

// GetDomainInfo merges live registrar info over the stored record. Live
// fields win on collision.
func (s *domainService) GetDomainInfo(ctx context.Context, recordID string) (*interfaces.DomainDetails, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.GetDomainInfo")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, recordID)

	record, err := s.postgres.DomainRepository.GetByID(ctx, recordID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to get domain info")
	}
	if record == nil {
		err = errors.Wrap(er.ErrDomainNotFound, "failed to get domain info")
		tracing.TraceErr(span, err)
		return nil, err
	}

	info, err := s.namesilo.GetDomainInfo(ctx, record.Domain)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to get domain info")
	}

	details := interfaces.DomainDetails{
		DomainRecord:     *record,
		Status:           info.Status,
		Nameservers:      info.Nameservers,
		Locked:           info.Locked,
		AutoRenew:        info.AutoRenew,
		RegistrarCreated: info.Created,
		RegistrarExpires: info.Expires,
	}
	if expires, parseErr := time.Parse(registrarDateLayout, info.Expires); parseErr == nil {
		details.ExpiresAt = utils.TimePtr(expires)
	}

	return &details, nil
}

func (s *domainService) UpdateNameservers(ctx context.Context, recordID string, nameservers []string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.UpdateNameservers")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, recordID)

	record, err := s.postgres.DomainRepository.GetByID(ctx, recordID)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to update nameservers")
	}
	if record == nil {
		err = errors.Wrap(er.ErrDomainNotFound, "failed to update nameservers")
		tracing.TraceErr(span, err)
		return err
	}

	if err = s.namesilo.UpdateNameservers(ctx, record.Domain, nameservers); err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to update nameservers")
	}

	return nil
}

func (s *domainService) CheckAvailability(ctx context.Context, domain string) (*interfaces.DomainAvailability, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.CheckAvailability")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogKV("domain", domain)

	if !product.IsValidDomainName(domain) {
		err := er.NewValidationError("domain", "invalid domain name format")
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain availability check failed")
	}

	availability, err := s.namesilo.CheckAvailability(ctx, domain)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "domain availability check failed")
	}

	return availability, nil
}

func (s *domainService) GetPricing(ctx context.Context, tld string) (map[string]interfaces.TldPricing, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.GetPricing")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.LogKV("tld", tld)

	pricing, err := s.namesilo.GetPricing(ctx, tld)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to get pricing")
	}

	return pricing, nil
}

// SyncDomainExpiry refreshes expiry timestamps from the registrar for
// records whose expiry is unset or inside the sync horizon. Failures for
// one record are logged and skipped so the scan continues.
func (s *domainService) SyncDomainExpiry(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.SyncDomainExpiry")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	deadline := utils.Now().Add(expirySyncHorizon)
	records, err := s.postgres.DomainRepository.GetExpiringBefore(ctx, deadline)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "expiry sync failed")
	}
	span.LogFields(tracingLog.Int("records", len(records)))

	for i := range records {
		record := &records[i]

		info, err := s.namesilo.GetDomainInfo(ctx, record.Domain)
		if err != nil {
			tracing.TraceErr(span, err)
			s.log.Warnf("expiry sync: skipping %s: %v", record.Domain, err)
			continue
		}

		expires, err := time.Parse(registrarDateLayout, info.Expires)
		if err != nil {
			s.log.Warnf("expiry sync: unparsable expiry %q for %s", info.Expires, record.Domain)
			continue
		}

		record.ExpiresAt = utils.TimePtr(expires)
		if err = s.postgres.DomainRepository.Update(ctx, record); err != nil {
			tracing.TraceErr(span, err)
			s.log.Errorf("expiry sync: failed to update %s: %v", record.Domain, err)
		}
	}

	return nil
}

// ensureOrderUnprovisioned guards against charging the registrar twice for
// one billing order.
func (s *domainService) ensureOrderUnprovisioned(ctx context.Context, orderID int64) error {
	count, err := s.postgres.DomainRepository.CountByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if count > 0 {
		return er.NewValidationError("order", "order already has a provisioned domain")
	}
	return nil
}

// resolveContact builds the registrant contact for one call. Explicit order
// fields override the stored client profile; with no client at all the
// configured default contact applies.
func (s *domainService) resolveContact(ctx context.Context, clientID int64, data map[string]string) (interfaces.Contact, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DomainService.resolveContact")
	defer span.Finish()
	tracing.TagClient(span, clientID)

	client := &models.Client{}
	if clientID != 0 {
		stored, err := s.postgres.ClientRepository.GetByID(ctx, clientID)
		if err != nil {
			tracing.TraceErr(span, err)
			return interfaces.Contact{}, err
		}
		if stored != nil {
			client = stored
		}
	}

	fallback := s.defaultContact

	return interfaces.Contact{
		FirstName: utils.FirstNonEmpty(data["first_name"], client.FirstName, fallback.FirstName),
		LastName:  utils.FirstNonEmpty(data["last_name"], client.LastName, fallback.LastName),
		Address1:  utils.FirstNonEmpty(data["address_1"], client.Address1, fallback.Address1),
		City:      utils.FirstNonEmpty(data["city"], client.City, fallback.City),
		State:     utils.FirstNonEmpty(data["state"], client.State, fallback.State),
		Postcode:  utils.FirstNonEmpty(data["postcode"], client.Postcode, fallback.Postcode),
		Country:   utils.FirstNonEmpty(data["country"], client.Country, fallback.Country),
		Email:     utils.FirstNonEmpty(data["email"], client.Email, fallback.Email),
		Phone:     FormatPhone(utils.FirstNonEmpty(data["phone"], client.Phone, fallback.Phone)),
	}, nil
}

func (s *domainService) publishEvent(ctx context.Context, event string, record *models.DomainRecord) {
	if s.events == nil {
		return
	}
	s.events.PublishDomainEvent(ctx, dto.DomainEvent{
		Event:           event,
		RecordID:        record.ID,
		Domain:          record.Domain,
		OrderID:         record.OrderID,
		ClientID:        record.ClientID,
		NamesiloOrderID: record.NamesiloOrderID,
		ExpiresAt:       record.ExpiresAt,
		OccurredAt:      utils.Now(),
	})
}

// FormatPhone normalizes a free-form phone string into the registrar's
// accepted format: digits only, optionally prefixed with "+", country code
// required. A number without a country code gets the US/Canada "1" prefix.
// Unusable input passes through empty and surfaces as a registrar
// rejection instead of being masked with a placeholder.
func FormatPhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if cleaned == "" || cleaned == "+" {
		return ""
	}
	if !strings.HasPrefix(cleaned, "+") && !strings.HasPrefix(cleaned, "1") {
		cleaned = "1" + cleaned
	}
	return cleaned
}

// parseYears reads the requested term from order data, defaulting to one
// year and enforcing the product's min/max range.
func parseYears(data map[string]string, minYears, maxYears int) (int, error) {
	raw := data["domain_years"]
	if raw == "" {
		return 1, nil
	}

	years, err := strconv.Atoi(raw)
	if err != nil {
		return 0, er.NewValidationError("domain_years", "must be a number")
	}
	if years < minYears || years > maxYears {
		return 0, er.NewValidationError("domain_years", "must be between "+strconv.Itoa(minYears)+" and "+strconv.Itoa(maxYears))
	}
	return years, nil
}
