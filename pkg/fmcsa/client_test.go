package fmcsa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProviders(t *testing.T, failInspections bool) (*httptest.Server, *httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32

	qc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "test-webkey", r.URL.Query().Get("webKey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":{"carrier":{
			"legalName":"ACME HAULING LLC","dotNumber":1234567,
			"statusCode":"A","commonAuthorityStatus":"A",
			"safetyRating":"S","mcs150Outdated":"N",
			"bipdInsuranceOnFile":"1000"}}}`))
	}))
	t.Cleanup(qc.Close)

	safer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "test-apikey", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v1/carriers/1234567/inspections":
			if failInspections {
				http.Error(w, "upstream broke", http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"vehicle_oos_rate":22.5,"driver_oos_rate":3.1,
				"vehicle_oos_rate_national_average":20.7,
				"driver_oos_rate_national_average":5.5,
				"total_inspections":14}`))
		case r.URL.Path == "/v1/carriers/1234567/crashes":
			_, _ = w.Write([]byte(`[
				{"report_number":"TX-001","fatalities":1,"injuries":0},
				{"report_number":"TX-001","fatalities":0,"injuries":2}]`))
		case r.URL.Path == "/v1/carriers/1234567/violations":
			_, _ = w.Write([]byte(`[
				{"report_number":"R1","basic":"Vehicle Maintenance","violation_code":"393.75"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(safer.Close)

	return qc, safer, &calls
}

func testClient(qc, safer *httptest.Server) *Client {
	return NewClient(Options{
		QCMobileBaseURL: qc.URL,
		SaferBaseURL:    safer.URL,
		WebKey:          "test-webkey",
		APIKey:          "test-apikey",
	})
}

func TestFetchAll(t *testing.T) {
	qc, safer, calls := fakeProviders(t, false)
	c := testClient(qc, safer)

	id, err := ParseIdentifier("1234567", "")
	require.NoError(t, err)

	rec, err := c.FetchAll(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, rec.Snapshot)
	require.NotNil(t, rec.Inspections)

	assert.Equal(t, "ACME HAULING LLC", rec.Snapshot.Content.Carrier.LegalName)
	assert.Equal(t, 22.5, rec.Inspections.VehicleOOSRate)
	assert.Len(t, rec.Crashes, 2)
	assert.Len(t, rec.Violations, 1)
	assert.Equal(t, int32(4), calls.Load(), "all four fetches issued")
}

func TestFetchAll_AnyFailureFailsWhole(t *testing.T) {
	qc, safer, _ := fakeProviders(t, true)
	c := testClient(qc, safer)

	id, err := ParseIdentifier("1234567", "")
	require.NoError(t, err)

	rec, err := c.FetchAll(context.Background(), id)
	assert.Nil(t, rec, "no partial results")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGetSnapshot_MCDocketPath(t *testing.T) {
	var gotPath string
	qc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"content":{"carrier":{"legalName":"X"}}}`))
	}))
	defer qc.Close()

	c := NewClient(Options{QCMobileBaseURL: qc.URL, WebKey: "k"})
	id := Identifier{Kind: IdentifierMC, Value: "654321"}

	_, err := c.GetSnapshot(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "/carriers/docket-number/654321", gotPath)
}

func TestGetJSON_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Options{SaferBaseURL: srv.URL, APIKey: "k"})
	_, err := c.GetInspections(context.Background(), Identifier{Kind: IdentifierUSDOT, Value: "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}
