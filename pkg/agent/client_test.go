package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	t.Parallel()

	want := CompanyCore{
		CompanyName:  "Acme Widgets Ltd",
		Postcode:     "LS1 4AP",
		Website:      "https://acmewidgets.co.uk",
		Email:        "info@acmewidgets.co.uk",
		PhoneNumbers: []string{"+441134960000"},
		GovUKURL:     "https://find-and-update.company-information.service.gov.uk/company/01234567",
		SourceURL:    "https://acmewidgets.co.uk/contact",
		Confidence:   0.92,
		Notes:        "matched via register",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/lookup", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "4 Mill St, Leeds", req.Address)
		assert.Equal(t, "LS1 4AP", req.Postcode)
		assert.Equal(t, "Acme Widgets", req.SeedCompany)
		assert.Equal(t, 120, req.MaxSteps)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(want) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.Lookup(context.Background(), LookupRequest{
		Address:     "4 Mill St, Leeds",
		Postcode:    "LS1 4AP",
		SeedCompany: "Acme Widgets",
	})

	require.NoError(t, err)
	assert.Equal(t, want.CompanyName, got.CompanyName)
	assert.Equal(t, want.PhoneNumbers, got.PhoneNumbers)
	assert.Equal(t, want.GovUKURL, got.GovUKURL)
	assert.InDelta(t, want.Confidence, got.Confidence, 1e-9)
}

func TestLookup_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit exceeded"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Lookup(context.Background(), LookupRequest{Address: "4 Mill St"})

	require.Error(t, err)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.True(t, se.Transient())
}

func TestLookup_PermanentStatusNotTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"bad request"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Lookup(context.Background(), LookupRequest{Address: "4 Mill St"})

	require.Error(t, err)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.False(t, se.Transient())
}

func TestLookup_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not json`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Lookup(context.Background(), LookupRequest{Address: "4 Mill St"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestLookup_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Lookup(ctx, LookupRequest{Address: "4 Mill St"})

	require.Error(t, err)
}

func TestLookup_SingleAttempt(t *testing.T) {
	t.Parallel()

	// The client never retries; the row driver owns the retry budget.
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Lookup(context.Background(), LookupRequest{Address: "4 Mill St"})

	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestContacts_Success(t *testing.T) {
	t.Parallel()

	want := ContactsResult{
		Contacts: []Contact{
			{Name: "Jane Smith", Title: "Director", LinkedIn: "https://linkedin.com/in/janesmith", Email: "jane@acme.co.uk"},
			{Name: "Sam Patel", Title: "Company Secretary"},
		},
		SourceURL:  "https://acme.co.uk/team",
		Confidence: 0.8,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/contacts", r.URL.Path)

		var req ContactsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme Widgets Ltd", req.CompanyName)
		assert.Equal(t, 3, req.TargetContacts)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(want) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.Contacts(context.Background(), ContactsRequest{
		CompanyName:    "Acme Widgets Ltd",
		TargetContacts: 3,
	})

	require.NoError(t, err)
	require.Len(t, got.Contacts, 2)
	assert.Equal(t, "Jane Smith", got.Contacts[0].Name)
	assert.Equal(t, "https://acme.co.uk/team", got.SourceURL)
}

func TestContacts_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream gone`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Contacts(context.Background(), ContactsRequest{CompanyName: "Acme"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient("my-key")
	hc := c.(*httpClient)
	assert.Equal(t, "my-key", hc.apiKey)
	assert.Equal(t, "https://agent.sells-group.internal", hc.baseURL)
	assert.Equal(t, 120, hc.maxSteps)
	assert.Nil(t, hc.limiter)
	assert.NotNil(t, hc.http)
	assert.Equal(t, 2*time.Minute, hc.http.Timeout)
}

func TestNewClient_Options(t *testing.T) {
	t.Parallel()

	customClient := &http.Client{}
	c := NewClient("k",
		WithBaseURL("https://agent.example.com"),
		WithHTTPClient(customClient),
		WithMaxSteps(40),
		WithRateLimit(2),
	)
	hc := c.(*httpClient)
	assert.Equal(t, "https://agent.example.com", hc.baseURL)
	assert.Equal(t, customClient, hc.http)
	assert.Equal(t, 40, hc.maxSteps)
	assert.NotNil(t, hc.limiter)
}

func TestLookup_MaxStepsOverridePerRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req LookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 15, req.MaxSteps)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CompanyCore{}) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithMaxSteps(40))
	_, err := client.Lookup(context.Background(), LookupRequest{Address: "x", MaxSteps: 15})
	require.NoError(t, err)
}
