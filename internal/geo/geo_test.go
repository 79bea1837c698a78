package geo

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolvePrivateAndLoopback(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	r := New([]string{srv.URL + "/"}, time.Second)

	for _, ip := range []string{"127.0.0.1", "10.1.2.3", "192.168.0.5", "172.16.9.1", "::1", "0.0.0.0"} {
		if got := r.Resolve(ip); got != Local {
			t.Errorf("Resolve(%s) = %+v, want Local", ip, got)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("private IPs must not trigger outbound lookups, got %d calls", calls.Load())
	}
}

func TestResolveInvalidIP(t *testing.T) {
	r := New(nil, time.Second)
	if got := r.Resolve("not-an-ip"); got != Unknown {
		t.Errorf("Resolve(invalid) = %+v, want Unknown", got)
	}
}

func TestResolveFirstProviderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","country":"Germany","countryCode":"DE","city":"Berlin","regionName":"Berlin","lat":52.52,"lon":13.4}`))
	}))
	defer srv.Close()

	r := New([]string{srv.URL + "/"}, time.Second)
	got := r.Resolve("93.184.216.34")
	if got.Country != "Germany" || got.CountryCode != "DE" || got.City != "Berlin" {
		t.Errorf("Resolve = %+v", got)
	}
	if got.Latitude != 52.52 || got.Longitude != 13.4 {
		t.Errorf("coords = %v,%v", got.Latitude, got.Longitude)
	}
}

func TestResolveFallsThroughToSecondProvider(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer failing.Close()

	// ipapi.co shape
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"country_name":"France","country_code":"fr","city":"Paris","region":"IDF","latitude":48.85,"longitude":2.35}`))
	}))
	defer ok.Close()

	r := New([]string{failing.URL + "/", ok.URL + "/"}, time.Second)
	got := r.Resolve("93.184.216.34")
	if got.Country != "France" || got.CountryCode != "FR" || got.Region != "IDF" {
		t.Errorf("Resolve = %+v", got)
	}
}

func TestResolveAllProvidersFail(t *testing.T) {
	erroring := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer erroring.Close()

	r := New([]string{erroring.URL + "/", "http://127.0.0.1:1/"}, 200*time.Millisecond)
	if got := r.Resolve("93.184.216.34"); got != Unknown {
		t.Errorf("Resolve = %+v, want Unknown", got)
	}
}
