package forecastclient

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	timeutils "github.com/cepro/copplanner/time_utils"
)

// newTestServer serves a token endpoint and the given forecast body, checking
// that requests arrive with the issued bearer token.
func newTestServer(t *testing.T, path, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token-form":
			fmt.Fprint(w, `{"access_token": "test-token"}`)
		case path:
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
				t.Errorf("Got authorization header %q, expected the issued bearer token", auth)
			}
			if r.URL.Query().Get("start") == "" || r.URL.Query().Get("end") == "" {
				t.Errorf("Expected start and end query parameters, got %q", r.URL.RawQuery)
			}
			fmt.Fprint(w, body)
		default:
			t.Errorf("Unexpected request path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestPriceForecast(t *testing.T) {

	server := newTestServer(t, "/resources/BESS_WEST_100MW/price-forecast", `[
		{"hour_ending": "2025-08-12T01:00:00-05:00", "price": 22.5},
		{"hour_ending": "2025-08-12T02:00:00-05:00", "price": 95.0}
	]`)
	defer server.Close()

	client := New(http.Client{}, server.URL, "user", "pass")

	period := timeutils.Period{
		Start: mustParseTime("2025-08-12T00:00:00-05:00"),
		End:   mustParseTime("2025-08-12T02:00:00-05:00"),
	}
	prices, err := client.PriceForecast("BESS_WEST_100MW", period)
	if err != nil {
		t.Fatalf("PriceForecast failed: %v", err)
	}

	if len(prices) != 2 {
		t.Fatalf("Got %d prices, expected 2", len(prices))
	}
	if price := prices[mustParseTime("2025-08-12T02:00:00-05:00").UTC()]; price != 95.0 {
		t.Errorf("Got price %v, expected 95.0", price)
	}
}

func TestCommitments(t *testing.T) {

	server := newTestServer(t, "/resources/BESS_WEST_100MW/as-awards", `[
		{"hour_ending": "2025-08-12T18:00:00-05:00", "regulation_mw": 0, "rrs_mw": 30, "ecrs_mw": 0}
	]`)
	defer server.Close()

	client := New(http.Client{}, server.URL, "user", "pass")

	period := timeutils.Period{
		Start: mustParseTime("2025-08-12T00:00:00-05:00"),
		End:   mustParseTime("2025-08-13T00:00:00-05:00"),
	}
	commitments, err := client.Commitments("BESS_WEST_100MW", period)
	if err != nil {
		t.Fatalf("Commitments failed: %v", err)
	}

	commitment, ok := commitments[mustParseTime("2025-08-12T18:00:00-05:00").UTC()]
	if !ok {
		t.Fatalf("Expected a commitment for 18:00, got %v", commitments)
	}
	if commitment.RRSMW != 30 {
		t.Errorf("Got RRS %v, expected 30", commitment.RRSMW)
	}
}

func TestPriceForecastErrorStatus(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token-form" {
			fmt.Fprint(w, `{"access_token": "test-token"}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(http.Client{}, server.URL, "user", "pass")

	_, err := client.PriceForecast("BESS_WEST_100MW", timeutils.Period{})
	if err == nil {
		t.Fatalf("Expected an error for a 502 response, got nil")
	}
}

// mustParseTime returns the time.Time associated with the given string or panics.
func mustParseTime(str string) time.Time {
	time, err := time.Parse(time.RFC3339, str)
	if err != nil {
		panic(err)
	}
	return time
}
