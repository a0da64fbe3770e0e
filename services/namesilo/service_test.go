package namesilo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billingstack/namesilo/config"
	"github.com/billingstack/namesilo/interfaces"
	er "github.com/billingstack/namesilo/internal/errors"
	"github.com/billingstack/namesilo/internal/logger"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func newTestService(t *testing.T, handler http.HandlerFunc) (interfaces.NamesiloService, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.NamesiloConfig{
		ApiKey:             "test-key",
		Url:                server.URL + "/api/",
		TimeoutSeconds:     5,
		DefaultNameserver1: "ns1.namesilo.com",
		DefaultNameserver2: "ns2.namesilo.com",
	}
	return NewNamesiloService(cfg, getLogger()), server
}

func TestCheckAvailability_Available(t *testing.T) {
	var captured url.Values
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		assert.Equal(t, "/api/checkRegisterAvailability", r.URL.Path)
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<available domain="example.com" price="9.99">yes</available>
	</reply>
</namesilo>`))
	})

	availability, err := svc.CheckAvailability(context.Background(), "example.com")

	require.NoError(t, err)
	assert.True(t, availability.Available)
	assert.Equal(t, "example.com", availability.Domain)
	assert.Equal(t, "9.99", availability.Price)

	assert.Equal(t, "1", captured.Get("version"))
	assert.Equal(t, "xml", captured.Get("type"))
	assert.Equal(t, "test-key", captured.Get("key"))
	assert.Equal(t, "example.com", captured.Get("domains"))
}

func TestCheckAvailability_Unavailable(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<available domain="example.com">no</available>
	</reply>
</namesilo>`))
	})

	availability, err := svc.CheckAvailability(context.Background(), "example.com")

	require.NoError(t, err)
	assert.False(t, availability.Available)
	assert.Equal(t, "Domain not available", availability.Detail)
}

func TestCheckAvailability_IgnoresOtherDomains(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<available domain="other.com" price="9.99">yes</available>
	</reply>
</namesilo>`))
	})

	availability, err := svc.CheckAvailability(context.Background(), "example.com")

	require.NoError(t, err)
	assert.False(t, availability.Available)
	assert.Empty(t, availability.Price)
}

func TestCheckAvailability_ErrorReplyIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>280</code>
		<detail>invalid domain syntax</detail>
	</reply>
</namesilo>`))
	})

	availability, err := svc.CheckAvailability(context.Background(), "bad domain")

	require.NoError(t, err)
	assert.False(t, availability.Available)
	assert.Equal(t, "invalid domain syntax", availability.Detail)
}

func TestRegisterDomain_Success(t *testing.T) {
	var captured url.Values
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		assert.Equal(t, "/api/registerDomain", r.URL.Path)
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<message>Your domain registration was successfully processed.</message>
		<order_id>abc123</order_id>
		<total_amount>12.99</total_amount>
	</reply>
</namesilo>`))
	})

	contact := interfaces.Contact{
		FirstName: "John",
		LastName:  "Doe",
		Address1:  "1 Main St",
		City:      "Springfield",
		State:     "IL",
		Postcode:  "62704",
		Country:   "US",
		Email:     "john@example.com",
		Phone:     "15551234567",
	}

	registration, err := svc.RegisterDomain(context.Background(), "example.com", 2, contact)

	require.NoError(t, err)
	assert.Equal(t, "abc123", registration.OrderID)
	assert.Equal(t, "example.com", registration.Domain)
	assert.Equal(t, "12.99", registration.Amount)

	assert.Equal(t, "example.com", captured.Get("domain"))
	assert.Equal(t, "2", captured.Get("years"))
	assert.Equal(t, "1", captured.Get("private"))
	assert.Equal(t, "0", captured.Get("auto_renew"))
	assert.Equal(t, "John", captured.Get("fn"))
	assert.Equal(t, "Doe", captured.Get("ln"))
	assert.Equal(t, "1 Main St", captured.Get("ad"))
	assert.Equal(t, "US", captured.Get("ct"))
	assert.Equal(t, "john@example.com", captured.Get("em"))
	assert.Equal(t, "15551234567", captured.Get("ph"))
}

func TestRegisterDomain_RegistrarRejection(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>261</code>
		<detail>domain already registered</detail>
	</reply>
</namesilo>`))
	})

	registration, err := svc.RegisterDomain(context.Background(), "example.com", 1, interfaces.Contact{})

	require.Error(t, err)
	assert.Nil(t, registration)
	assert.True(t, er.IsRegistrarError(err))

	var registrarErr *er.RegistrarError
	require.ErrorAs(t, err, &registrarErr)
	assert.Equal(t, 261, registrarErr.Code)
	assert.Equal(t, "domain already registered", registrarErr.Detail)
}

func TestRegisterDomain_HttpError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.RegisterDomain(context.Background(), "example.com", 1, interfaces.Contact{})

	require.Error(t, err)
	assert.True(t, er.IsTransportError(err))
}

func TestRegisterDomain_InvalidXml(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not xml at all`))
	})

	_, err := svc.RegisterDomain(context.Background(), "example.com", 1, interfaces.Contact{})

	require.Error(t, err)
	assert.True(t, er.IsTransportError(err))
}

func TestRegisterDomain_MissingApiKey(t *testing.T) {
	cfg := &config.NamesiloConfig{Url: "http://localhost/api/"}
	svc := NewNamesiloService(cfg, getLogger())

	_, err := svc.RegisterDomain(context.Background(), "example.com", 1, interfaces.Contact{})

	assert.ErrorIs(t, err, er.ErrApiKeyMissing)
}

func TestTransferDomain_RequiresAuthCode(t *testing.T) {
	called := false
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	transfer, err := svc.TransferDomain(context.Background(), "example.com", "")

	require.Error(t, err)
	assert.Nil(t, transfer)
	assert.True(t, er.IsValidationError(err))
	assert.False(t, called, "no registrar call should happen without an auth code")
}

func TestTransferDomain_Success(t *testing.T) {
	var captured url.Values
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		assert.Equal(t, "/api/transferDomain", r.URL.Path)
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<order_id>tr-77</order_id>
		<amount>8.99</amount>
	</reply>
</namesilo>`))
	})

	transfer, err := svc.TransferDomain(context.Background(), "example.com", "EPP-CODE")

	require.NoError(t, err)
	assert.Equal(t, "tr-77", transfer.OrderID)
	assert.Equal(t, "8.99", transfer.Amount)
	assert.Equal(t, "EPP-CODE", captured.Get("auth"))
}

func TestRenewDomain_Success(t *testing.T) {
	var captured url.Values
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		assert.Equal(t, "/api/renewDomain", r.URL.Path)
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<order_id>rn-42</order_id>
		<amount>10.50</amount>
	</reply>
</namesilo>`))
	})

	renewal, err := svc.RenewDomain(context.Background(), "example.com", 3)

	require.NoError(t, err)
	assert.Equal(t, "rn-42", renewal.OrderID)
	assert.Equal(t, "10.50", renewal.Amount)
	assert.Equal(t, "3", captured.Get("years"))
}

func TestGetDomainInfo_Success(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getDomainInfo", r.URL.Path)
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<created>2024-01-10</created>
		<expires>2026-01-10</expires>
		<status>Active</status>
		<locked>Yes</locked>
		<auto_renew>No</auto_renew>
		<nameservers>
			<nameserver position="1">ns1.namesilo.com</nameserver>
			<nameserver position="2">ns2.namesilo.com</nameserver>
		</nameservers>
	</reply>
</namesilo>`))
	})

	info, err := svc.GetDomainInfo(context.Background(), "example.com")

	require.NoError(t, err)
	assert.Equal(t, "Active", info.Status)
	assert.Equal(t, "2024-01-10", info.Created)
	assert.Equal(t, "2026-01-10", info.Expires)
	assert.True(t, info.Locked)
	assert.False(t, info.AutoRenew)
	assert.Equal(t, []string{"ns1.namesilo.com", "ns2.namesilo.com"}, info.Nameservers)
}

func TestUpdateNameservers_PadsToMinimum(t *testing.T) {
	var captured url.Values
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
	</reply>
</namesilo>`))
	})

	err := svc.UpdateNameservers(context.Background(), "example.com", []string{"ns1.custom.net"})

	require.NoError(t, err)
	assert.Equal(t, "ns1.custom.net", captured.Get("ns1"))
	assert.Equal(t, "ns2.namesilo.com", captured.Get("ns2"))
}

func TestUpdateNameservers_DefaultsWhenEmpty(t *testing.T) {
	var captured url.Values
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
	</reply>
</namesilo>`))
	})

	err := svc.UpdateNameservers(context.Background(), "example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, "ns1.namesilo.com", captured.Get("ns1"))
	assert.Equal(t, "ns2.namesilo.com", captured.Get("ns2"))
}

func TestUpdateNameservers_TruncatesAtFive(t *testing.T) {
	var captured url.Values
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
	</reply>
</namesilo>`))
	})

	nameservers := []string{"a.net", "b.net", "", "c.net", "d.net", "e.net", "f.net"}
	err := svc.UpdateNameservers(context.Background(), "example.com", nameservers)

	require.NoError(t, err)
	assert.Equal(t, "a.net", captured.Get("ns1"))
	assert.Equal(t, "b.net", captured.Get("ns2"))
	assert.Equal(t, "c.net", captured.Get("ns3"))
	assert.Equal(t, "d.net", captured.Get("ns4"))
	assert.Equal(t, "e.net", captured.Get("ns5"))
	assert.Empty(t, captured.Get("ns6"))
}

func TestGetPricing_FullList(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getPrices", r.URL.Path)
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<price tld="com">
			<registration>9.99</registration>
			<renew>10.99</renew>
			<transfer>8.99</transfer>
		</price>
		<price tld="net">
			<registration>11.49</registration>
			<renew>12.49</renew>
			<transfer>10.49</transfer>
		</price>
	</reply>
</namesilo>`))
	})

	pricing, err := svc.GetPricing(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, pricing, 2)
	assert.Equal(t, "9.99", pricing["com"].Registration)
	assert.Equal(t, "10.99", pricing["com"].Renewal)
	assert.Equal(t, "8.99", pricing["com"].Transfer)
	assert.Equal(t, "11.49", pricing["net"].Registration)
}

func TestGetPricing_SingleTld(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<price tld="com">
			<registration>9.99</registration>
			<renew>10.99</renew>
			<transfer>8.99</transfer>
		</price>
		<price tld="net">
			<registration>11.49</registration>
			<renew>12.49</renew>
			<transfer>10.49</transfer>
		</price>
	</reply>
</namesilo>`))
	})

	pricing, err := svc.GetPricing(context.Background(), "com")

	require.NoError(t, err)
	require.Len(t, pricing, 1)
	assert.Equal(t, "9.99", pricing["com"].Registration)
}

func TestGetPricing_UnknownTld(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
		<price tld="com">
			<registration>9.99</registration>
			<renew>10.99</renew>
			<transfer>8.99</transfer>
		</price>
	</reply>
</namesilo>`))
	})

	_, err := svc.GetPricing(context.Background(), "xyz")

	assert.ErrorIs(t, err, er.ErrTldNotFound)
}

func TestSandboxUrlSelection(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`<?xml version="1.0"?>
<namesilo>
	<reply>
		<code>300</code>
		<detail>success</detail>
	</reply>
</namesilo>`))
	}))
	t.Cleanup(server.Close)

	cfg := &config.NamesiloConfig{
		ApiKey:     "test-key",
		Sandbox:    true,
		Url:        "http://unused.invalid/api/",
		SandboxUrl: server.URL + "/sandbox/",
	}
	svc := NewNamesiloService(cfg, getLogger())

	_, err := svc.CheckAvailability(context.Background(), "example.com")

	require.NoError(t, err)
	assert.Equal(t, "/sandbox/checkRegisterAvailability", path)
}
