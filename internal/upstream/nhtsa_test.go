package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNHTSA_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/GetVehicleTypesForMake/") {
			t.Errorf("path = %q, want GetVehicleTypesForMake", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q, want test-agent", got)
		}
		w.Write([]byte(`{"Count":1,"Results":[{"MakeName":"HONDA","VehicleTypeName":"Passenger Car"}]}`))
	}))
	defer srv.Close()

	client := NewNHTSAClient(srv.URL, "test-agent", 2*time.Second)

	data, err := client.GetVehicleTypesForMake(context.Background(), "Honda")
	if err != nil {
		t.Fatalf("GetVehicleTypesForMake: %v", err)
	}
	if !strings.Contains(string(data), "Passenger Car") {
		t.Errorf("data = %s, want types payload", data)
	}
}

func TestNHTSA_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream maintenance window"))
	}))
	defer srv.Close()

	client := NewNHTSAClient(srv.URL, "test-agent", 2*time.Second)

	_, err := client.GetVehicleTypesForMake(context.Background(), "Honda")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", statusErr.StatusCode)
	}
	if statusErr.BodySnippet != "upstream maintenance window" {
		t.Errorf("BodySnippet = %q, want upstream body", statusErr.BodySnippet)
	}
}

func TestNHTSA_SnippetTruncated(t *testing.T) {
	big := strings.Repeat("x", 5000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(big))
	}))
	defer srv.Close()

	client := NewNHTSAClient(srv.URL, "test-agent", 2*time.Second)

	_, err := client.GetVehicleTypesForMake(context.Background(), "Honda")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if len(statusErr.BodySnippet) != maxSnippetBytes {
		t.Errorf("snippet length = %d, want %d", len(statusErr.BodySnippet), maxSnippetBytes)
	}
}

func TestNHTSA_TimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewNHTSAClient(srv.URL, "test-agent", 50*time.Millisecond)

	_, err := client.GetVehicleTypesForMake(context.Background(), "Honda")
	if err == nil {
		t.Fatal("want timeout error, got nil")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("timeout surfaced as StatusError %v, want transport error", statusErr)
	}
}

func TestNHTSA_MalformedBodyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := NewNHTSAClient(srv.URL, "test-agent", 2*time.Second)

	data, err := client.GetVehicleTypesForMake(context.Background(), "Honda")
	if err != nil {
		t.Fatalf("malformed body must not be an error, got %v", err)
	}
	if data != nil {
		t.Errorf("data = %s, want nil for unparseable body", data)
	}
}
