package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
)

const (
	// DefaultURL is the public OpenStreetMap reverse geocoding endpoint
	DefaultURL = "https://nominatim.openstreetmap.org/reverse"

	userAgent   = "TrakiiDeviceMonitor/1.0"
	unavailable = "address unavailable"
)

// Nominatim reverse-geocodes coordinates with an OSM Nominatim server
// This implements the ports.Geocoder interface
type Nominatim struct {
	endpoint string
	language string
	http     *http.Client
}

// NewNominatim creates a client for endpoint; language sets Accept-Language
func NewNominatim(endpoint, language string, timeout time.Duration) *Nominatim {
	return &Nominatim{
		endpoint: endpoint,
		language: language,
		http:     &http.Client{Timeout: timeout},
	}
}

type reverseResponse struct {
	Address *struct {
		Road          string `json:"road"`
		HouseNumber   string `json:"house_number"`
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
		City          string `json:"city"`
		Town          string `json:"town"`
		State         string `json:"state"`
		Postcode      string `json:"postcode"`
		Country       string `json:"country"`
	} `json:"address"`
}

// Reverse looks up the address at lat, lon
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (domain.Address, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if n.language != "" {
		req.Header.Set("Accept-Language", n.language)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return domain.Address{}, fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Address{}, fmt.Errorf("reverse geocode: unexpected status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Address{}, fmt.Errorf("decode reverse geocode: %w", err)
	}

	var addr domain.Address
	if a := body.Address; a != nil {
		addr = domain.Address{
			Road:          a.Road,
			HouseNumber:   a.HouseNumber,
			Neighbourhood: a.Neighbourhood,
			Suburb:        a.Suburb,
			City:          a.City,
			Town:          a.Town,
			State:         a.State,
			Postcode:      a.Postcode,
			Country:       a.Country,
		}
	}
	addr.Formatted = FormatAddress(addr)
	return addr, nil
}

// FormatAddress renders up to four lines: street, neighbourhood,
// locality with state and postcode, country
func FormatAddress(a domain.Address) string {
	var lines []string

	if a.Road != "" {
		line := a.Road
		if a.HouseNumber != "" {
			line += " " + a.HouseNumber
		}
		lines = append(lines, line)
	}

	if hood := firstNonEmpty(a.Neighbourhood, a.Suburb); hood != "" {
		lines = append(lines, "Col. "+hood)
	}

	locality := firstNonEmpty(a.City, a.Town)
	switch {
	case locality != "":
		line := locality
		if a.State != "" {
			line += ", " + a.State
		}
		if a.Postcode != "" {
			line += " C.P. " + a.Postcode
		}
		lines = append(lines, line)
	case a.State != "":
		line := a.State
		if a.Postcode != "" {
			line += " C.P. " + a.Postcode
		}
		lines = append(lines, line)
	}

	if a.Country != "" {
		lines = append(lines, a.Country)
	}

	if len(lines) == 0 {
		return unavailable
	}
	return strings.Join(lines, "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
