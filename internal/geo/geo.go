// Package geo resolves a visitor IP to a best-effort location using a
// chain of public lookup services. Resolution never returns an error:
// the zero-information Unknown location stands in for every failure mode.
package geo

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// Location is the resolved geolocation for a session.
type Location struct {
	Country     string
	CountryCode string
	City        string
	Region      string
	Latitude    float64
	Longitude   float64
}

// Unknown is returned when no provider could resolve the IP.
var Unknown = Location{Country: "Unknown", City: "Unknown", Region: "Unknown"}

// Local is returned for private and loopback addresses without any
// outbound call.
var Local = Location{Country: "Local", CountryCode: "LO", City: "Localhost", Region: "Local"}

// Resolver queries providers in order and takes the first success.
type Resolver struct {
	providers []string
	client    *http.Client
}

// New creates a resolver. Each provider URL gets the IP appended and must
// answer JSON; timeout bounds each individual lookup.
func New(providers []string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 2500 * time.Millisecond
	}
	return &Resolver{
		providers: providers,
		client:    &http.Client{Timeout: timeout},
	}
}

// Resolve looks up ip. Private, loopback and unparseable addresses short
// circuit to Local/Unknown without touching the network.
func (r *Resolver) Resolve(ip string) Location {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Unknown
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return Local
	}

	for _, base := range r.providers {
		loc, ok := r.query(base, ip)
		if ok {
			return loc
		}
	}
	return Unknown
}

// providerResponse is a superset of the fields the supported services
// return (ip-api.com, ipapi.co, ipwho.is). Only the fields present in a
// given response are populated.
type providerResponse struct {
	Status      string   `json:"status"`       // ip-api: "success"/"fail"
	Success     *bool    `json:"success"`      // ipwho.is
	Error       *bool    `json:"error"`        // ipapi.co
	Country     string   `json:"country"`
	CountryName string   `json:"country_name"` // ipapi.co
	CountryCode string   `json:"countryCode"`
	CountryISO  string   `json:"country_code"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	RegionName  string   `json:"regionName"` // ip-api
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}

func (r *Resolver) query(base, ip string) (Location, bool) {
	url := base + ip
	resp, err := r.client.Get(url)
	if err != nil {
		log.Printf("geo: %s: %v", base, err)
		return Location{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("geo: %s: status %d", base, resp.StatusCode)
		return Location{}, false
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		log.Printf("geo: %s: decode: %v", base, err)
		return Location{}, false
	}

	if pr.Status == "fail" || (pr.Success != nil && !*pr.Success) || (pr.Error != nil && *pr.Error) {
		return Location{}, false
	}

	loc := Location{
		Country:     firstNonEmpty(pr.Country, pr.CountryName),
		CountryCode: strings.ToUpper(firstNonEmpty(pr.CountryCode, pr.CountryISO)),
		City:        pr.City,
		Region:      firstNonEmpty(pr.RegionName, pr.Region),
		Latitude:    pickCoord(pr.Lat, pr.Latitude),
		Longitude:   pickCoord(pr.Lon, pr.Longitude),
	}
	if loc.Country == "" {
		return Location{}, false
	}
	if loc.City == "" {
		loc.City = "Unknown"
	}
	if loc.Region == "" {
		loc.Region = "Unknown"
	}
	return loc, true
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func pickCoord(a, b float64) float64 {
	if a != 0 {
		return a
	}
	return b
}
