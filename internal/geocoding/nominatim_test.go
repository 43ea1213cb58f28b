package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

func TestAddress_Query(t *testing.T) {
	a := Address{Street: "1234 Main St", City: "Napa", State: "CA"}
	assert.Equal(t, "1234 Main St, Napa, CA", a.Query())

	a.Zip = "94559"
	assert.Equal(t, "1234 Main St, Napa, CA, 94559", a.Query())
}

func TestNominatimClient_Geocode(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "us", r.URL.Query().Get("countrycodes"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"38.2975","lon":"-122.2869","display_name":"Napa, California"}]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(srv.URL+"/search", "PickMyFruit/1.0 (test)", time.Second)
	res, err := c.Geocode(context.Background(), Address{Street: "1 First St", City: "Napa", State: "CA", Zip: "94559"})
	require.NoError(t, err)

	assert.Equal(t, "1 First St, Napa, CA, 94559", gotQuery)
	assert.Equal(t, "PickMyFruit/1.0 (test)", gotUA)
	assert.InDelta(t, 38.2975, res.Point.Lat, 1e-9)
	assert.InDelta(t, -122.2869, res.Point.Lng, 1e-9)
	assert.Equal(t, "Napa, California", res.DisplayName)

	want, err := spatial.PointToCell(res.Point, spatial.Storage)
	require.NoError(t, err)
	assert.Equal(t, want, res.Cell)
}

func TestNominatimClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(srv.URL, "test", time.Second)
	_, err := c.Geocode(context.Background(), Address{Street: "nowhere"})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestNominatimClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewNominatimClient(srv.URL, "test", time.Second)
	_, err := c.Geocode(context.Background(), Address{Street: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAddressNotFound)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestNominatimClient_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"north","lon":"-122","display_name":"?"}]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(srv.URL, "test", time.Second)
	_, err := c.Geocode(context.Background(), Address{Street: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNominatimClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewNominatimClient(srv.URL, "test", time.Second)
	_, err := c.Geocode(context.Background(), Address{Street: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
