package namesilo

import (
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/billingstack/namesilo/config"
	"github.com/billingstack/namesilo/interfaces"
	er "github.com/billingstack/namesilo/internal/errors"
	"github.com/billingstack/namesilo/internal/logger"
	"github.com/billingstack/namesilo/internal/tracing"
)

// NameSilo API reference: https://www.namesilo.com/api-reference
// Every call is a GET against <base>/<operation> with version=1, type=xml
// and the API key as query parameters. The reply carries its own numeric
// code; 300, 301 and 302 are the success set.
type namesiloService struct {
	cfg        *config.NamesiloConfig
	log        logger.Logger
	httpClient *http.Client
}

var successCodes = map[int]bool{300: true, 301: true, 302: true}

func NewNamesiloService(cfg *config.NamesiloConfig, log logger.Logger) interfaces.NamesiloService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &namesiloService{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				// certificate validation stays on; the registrar runs valid TLS
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
	}
}

func (s *namesiloService) baseUrl() string {
	if s.cfg.Sandbox {
		return s.cfg.SandboxUrl
	}
	return s.cfg.Url
}

// makeRequest performs one registrar round trip and returns the raw body.
// Transport-level failures (network error, non-200 status) surface as
// TransportError; decoding and reply-code classification belong to the
// operation methods.
func (s *namesiloService) makeRequest(ctx context.Context, operation string, params url.Values) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "NamesiloService.makeRequest")
	defer span.Finish()
	tracing.TagComponentRegistrarClient(span)
	span.LogKV("operation", operation)

	if s.cfg.ApiKey == "" {
		return nil, er.ErrApiKeyMissing
	}

	params.Set("version", "1")
	params.Set("type", "xml")
	params.Set("key", s.cfg.ApiKey)

	requestUrl := s.baseUrl() + operation + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to build NameSilo request"))
		return nil, er.NewTransportError(0, err)
	}
	req.Header.Set("User-Agent", "billingstack-namesilo-module")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to call NameSilo API"))
		return nil, er.NewTransportError(0, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to read NameSilo response"))
		return nil, er.NewTransportError(0, err)
	}
	span.LogFields(tracingLog.String("responseBody", string(responseBody)))

	if resp.StatusCode != http.StatusOK {
		err := er.NewTransportError(resp.StatusCode, nil)
		tracing.TraceErr(span, err)
		return nil, err
	}

	return responseBody, nil
}

// replyError classifies the registrar's own reply code. Any code outside
// the success set becomes a RegistrarError carrying the detail verbatim.
func replyError(code int, detail string) error {
	if successCodes[code] {
		return nil
	}
	return er.NewRegistrarError(code, detail)
}

func decode(body []byte, out any) error {
	if err := xml.Unmarshal(body, out); err != nil {
		return er.NewTransportError(0, errors.Wrap(err, "invalid XML response from NameSilo API"))
	}
	return nil
}

// CheckAvailability asks the registrar whether the domain can be registered.
// A non-success reply code is not an error here: it maps to unavailable with
// the registrar detail attached.
func (s *namesiloService) CheckAvailability(ctx context.Context, domain string) (*interfaces.DomainAvailability, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "NamesiloService.CheckAvailability")
	defer span.Finish()
	tracing.TagComponentRegistrarClient(span)
	span.LogKV("domain", domain)

	params := url.Values{}
	params.Set("domains", domain)

	body, err := s.makeRequest(ctx, "checkRegisterAvailability", params)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	type availabilityResponse struct {
		XMLName xml.Name `xml:"namesilo"`
		Reply   struct {
			Code      int    `xml:"code"`
			Detail    string `xml:"detail"`
			Available []struct {
				Domain string `xml:"domain,attr"`
				Price  string `xml:"price,attr"`
				Value  string `xml:",chardata"`
			} `xml:"available"`
		} `xml:"reply"`
	}
	var result availabilityResponse

	if err = decode(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	availability := interfaces.DomainAvailability{Domain: domain}

	if !successCodes[result.Reply.Code] {
		availability.Detail = result.Reply.Detail
		span.LogFields(tracingLog.Bool("result.available", false))
		return &availability, nil
	}

	for _, node := range result.Reply.Available {
		if node.Domain == domain {
			availability.Available = node.Value == "yes"
			availability.Price = node.Price
			break
		}
	}
	if !availability.Available && availability.Detail == "" {
		availability.Detail = "Domain not available"
	}

	span.LogFields(tracingLog.Bool("result.available", availability.Available))
	return &availability, nil
}

// RegisterDomain performs a billable registration. WHOIS privacy is always
// requested and registrar auto-renew stays off, renewals are owned by the
// billing system.
func (s *namesiloService) RegisterDomain(ctx context.Context, domain string, years int, contact interfaces.Contact) (*interfaces.DomainRegistration, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "NamesiloService.RegisterDomain")
	defer span.Finish()
	tracing.TagComponentRegistrarClient(span)
	span.LogKV("domain", domain, "years", years)

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("years", strconv.Itoa(years))
	params.Set("private", "1")
	params.Set("auto_renew", "0")
	addContactParams(params, contact)

	body, err := s.makeRequest(ctx, "registerDomain", params)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	type registerResponse struct {
		XMLName xml.Name `xml:"namesilo"`
		Reply   struct {
			Code        int    `xml:"code"`
			Detail      string `xml:"detail"`
			OrderID     string `xml:"order_id"`
			TotalAmount string `xml:"total_amount"`
		} `xml:"reply"`
	}
	var result registerResponse

	if err = decode(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if err = replyError(result.Reply.Code, result.Reply.Detail); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	span.LogFields(
		tracingLog.String("result.orderID", result.Reply.OrderID),
		tracingLog.String("result.amount", result.Reply.TotalAmount),
	)

	return &interfaces.DomainRegistration{
		OrderID: result.Reply.OrderID,
		Domain:  domain,
		Amount:  result.Reply.TotalAmount,
	}, nil
}

func (s *namesiloService) TransferDomain(ctx context.Context, domain, authCode string) (*interfaces.DomainTransfer, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "NamesiloService.TransferDomain")
	defer span.Finish()
	tracing.TagComponentRegistrarClient(span)
	span.LogKV("domain", domain)

	// checked before any network call
	if authCode == "" {
		err := er.NewValidationError("auth", "authorization code is required for domain transfer")
		tracing.TraceErr(span, err)
		return nil, err
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("auth", authCode)

	body, err := s.makeRequest(ctx, "transferDomain", params)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	type transferResponse struct {
		XMLName xml.Name `xml:"namesilo"`
		Reply   struct {
			Code    int    `xml:"code"`
			Detail  string `xml:"detail"`
			OrderID string `xml:"order_id"`
			Amount  string `xml:"amount"`
		} `xml:"reply"`
	}
	var result transferResponse

	if err = decode(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if err = replyError(result.Reply.Code, result.Reply.Detail); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &interfaces.DomainTransfer{
		OrderID: result.Reply.OrderID,
		Domain:  domain,
		Amount:  result.Reply.Amount,
	}, nil
}

func (s *namesiloService) RenewDomain(ctx context.Context, domain string, years int) (*interfaces.DomainRenewal, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "NamesiloService.RenewDomain")
	defer span.Finish()
	tracing.TagComponentRegistrarClient(span)
	span.LogKV("domain", domain, "years", years)

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("years", strconv.Itoa(years))

	body, err := s.makeRequest(ctx, "renewDomain", params)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	type renewResponse struct {
		XMLName xml.Name `xml:"namesilo"`
		Reply   struct {
			Code    int    `xml:"code"`
			Detail  string `xml:"detail"`
			OrderID string `xml:"order_id"`
			Amount  string `xml:"amount"`
		} `xml:"reply"`
	}
	var result renewResponse

	if err = decode(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if err = replyError(result.Reply.Code, result.Reply.Detail); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &interfaces.DomainRenewal{
		OrderID: result.Reply.OrderID,
		Amount:  result.Reply.Amount,
	}, nil
}

func (s *namesiloService) GetDomainInfo(ctx context.Context, domain string) (*interfaces.NamesiloDomainInfo, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "NamesiloService.GetDomainInfo")
	defer span.Finish()
	tracing.TagComponentRegistrarClient(span)
	span.LogKV("domain", domain)

	params := url.Values{}
	params.Set("domain", domain)

	body, err := s.makeRequest(ctx, "getDomainInfo", params)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	type domainInfoResponse struct {
		XMLName xml.Name `xml:"namesilo"`
		Reply   struct {
			Code        int    `xml:"code"`
			Detail      string `xml:"detail"`
			Created     string `xml:"created"`
			Expires     string `xml:"expires"`
			Status      string `xml:"status"`
			Locked      string `xml:"locked"`
			AutoRenew   string `xml:"auto_renew"`
			Nameservers struct {
				Nameserver []string `xml:"nameserver"`
			} `xml:"nameservers"`
		} `xml:"reply"`
	}
	var result domainInfoResponse

	if err = decode(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if err = replyError(result.Reply.Code, result.Reply.Detail); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	info := interfaces.NamesiloDomainInfo{
		Status:      result.Reply.Status,
		Created:     result.Reply.Created,
		Expires:     result.Reply.Expires,
		Nameservers: result.Reply.Nameservers.Nameserver,
		Locked:      result.Reply.Locked == "Yes",
		AutoRenew:   result.Reply.AutoRenew == "Yes",
	}
	tracing.LogObjectAsJson(span, "result.domainInfo", info)

	return &info, nil
}

// UpdateNameservers replaces the domain's nameserver set. NameSilo accepts
// at most 5 entries and requires at least 2; short input is padded with the
// registrar default nameservers so the call never fails registrar-side
// validation.
func (s *namesiloService) UpdateNameservers(ctx context.Context, domain string, nameservers []string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "NamesiloService.UpdateNameservers")
	defer span.Finish()
	tracing.TagComponentRegistrarClient(span)
	span.LogKV("domain", domain)
	tracing.LogObjectAsJson(span, "request.nameservers", nameservers)

	params := url.Values{}
	params.Set("domain", domain)

	i := 1
	for _, ns := range nameservers {
		if ns == "" {
			continue
		}
		if i > 5 {
			break
		}
		params.Set("ns"+strconv.Itoa(i), ns)
		i++
	}
	if i <= 1 {
		params.Set("ns1", s.cfg.DefaultNameserver1)
		i = 2
	}
	if i <= 2 {
		params.Set("ns2", s.cfg.DefaultNameserver2)
	}

	body, err := s.makeRequest(ctx, "changeNameServers", params)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	type changeNameserversResponse struct {
		XMLName xml.Name `xml:"namesilo"`
		Reply   struct {
			Code   int    `xml:"code"`
			Detail string `xml:"detail"`
		} `xml:"reply"`
	}
	var result changeNameserversResponse

	if err = decode(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	if err = replyError(result.Reply.Code, result.Reply.Detail); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

// GetPricing fetches the registrar price list. With a tld given the result
// holds that single entry; otherwise the full list is returned.
func (s *namesiloService) GetPricing(ctx context.Context, tld string) (map[string]interfaces.TldPricing, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "NamesiloService.GetPricing")
	defer span.Finish()
	tracing.TagComponentRegistrarClient(span)
	span.LogKV("tld", tld)

	body, err := s.makeRequest(ctx, "getPrices", url.Values{})
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	type pricingResponse struct {
		XMLName xml.Name `xml:"namesilo"`
		Reply   struct {
			Code   int    `xml:"code"`
			Detail string `xml:"detail"`
			Price  []struct {
				Tld          string `xml:"tld,attr"`
				Registration string `xml:"registration"`
				Renew        string `xml:"renew"`
				Transfer     string `xml:"transfer"`
			} `xml:"price"`
		} `xml:"reply"`
	}
	var result pricingResponse

	if err = decode(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if err = replyError(result.Reply.Code, result.Reply.Detail); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	pricing := make(map[string]interfaces.TldPricing, len(result.Reply.Price))
	for _, price := range result.Reply.Price {
		pricing[price.Tld] = interfaces.TldPricing{
			Registration: price.Registration,
			Renewal:      price.Renew,
			Transfer:     price.Transfer,
		}
	}

	if tld != "" {
		entry, ok := pricing[tld]
		if !ok {
			err := errors.Wrap(er.ErrTldNotFound, fmt.Sprintf("tld %q", tld))
			tracing.TraceErr(span, err)
			return nil, err
		}
		return map[string]interfaces.TldPricing{tld: entry}, nil
	}

	return pricing, nil
}

// addContactParams maps the registrant contact onto NameSilo's compact
// field codes.
func addContactParams(params url.Values, contact interfaces.Contact) {
	set := func(code, value string) {
		if value != "" {
			params.Set(code, value)
		}
	}
	set("fn", contact.FirstName)
	set("ln", contact.LastName)
	set("ad", contact.Address1)
	set("cy", contact.City)
	set("st", contact.State)
	set("zp", contact.Postcode)
	set("ct", contact.Country)
	set("em", contact.Email)
	set("ph", contact.Phone)
}
