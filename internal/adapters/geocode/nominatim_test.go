package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
)

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name string
		addr domain.Address
		want string
	}{
		{
			name: "empty",
			want: "address unavailable",
		},
		{
			name: "full",
			addr: domain.Address{
				Road: "Avenida Juárez", HouseNumber: "14", Suburb: "Centro",
				City: "Ciudad de México", State: "CDMX", Postcode: "06000", Country: "México",
			},
			want: "Avenida Juárez 14\nCol. Centro\nCiudad de México, CDMX C.P. 06000\nMéxico",
		},
		{
			name: "neighbourhood wins over suburb",
			addr: domain.Address{Neighbourhood: "Roma Norte", Suburb: "Cuauhtémoc"},
			want: "Col. Roma Norte",
		},
		{
			name: "town without state",
			addr: domain.Address{Town: "Tepoztlán", Country: "México"},
			want: "Tepoztlán\nMéxico",
		},
		{
			name: "state only",
			addr: domain.Address{State: "Morelos", Postcode: "62520"},
			want: "Morelos C.P. 62520",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAddress(tt.addr))
		})
	}
}

func TestNominatim_Reverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "19.432600", q.Get("lat"))
		assert.Equal(t, "-99.133200", q.Get("lon"))
		assert.Equal(t, "18", q.Get("zoom"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.Equal(t, "es", r.Header.Get("Accept-Language"))
		assert.Equal(t, "TrakiiDeviceMonitor/1.0", r.Header.Get("User-Agent"))

		w.Write([]byte(`{"address": {"road": "Plaza de la Constitución", "city": "Ciudad de México", "country": "México"}}`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "es", time.Second)
	addr, err := n.Reverse(context.Background(), 19.4326, -99.1332)
	require.NoError(t, err)
	assert.Equal(t, "Plaza de la Constitución", addr.Road)
	assert.Equal(t, "Plaza de la Constitución\nCiudad de México\nMéxico", addr.Formatted)
}

func TestNominatim_NoAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer srv.Close()

	addr, err := NewNominatim(srv.URL, "", time.Second).Reverse(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "address unavailable", addr.Formatted)
}

func TestNominatim_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewNominatim(srv.URL, "", time.Second).Reverse(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
