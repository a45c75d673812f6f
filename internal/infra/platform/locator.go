package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoFix lokasi tidak bisa ditentukan
var ErrNoFix = errors.New("geolocation: no position fix")

// StaticLocator koordinat tetap dari config (mis. kantor proyek)
type StaticLocator struct {
	Lat, Lon float64
}

func (s StaticLocator) Locate(context.Context) (float64, float64, error) {
	return s.Lat, s.Lon, nil
}

// HTTPLocator lookup posisi ke layanan geolocation berbasis HTTP yang
// membalas JSON {"lat":..,"lon":..} (atau latitude/longitude)
type HTTPLocator struct {
	URL    string
	Client *http.Client
}

type fix struct {
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (h HTTPLocator) Locate(ctx context.Context) (float64, float64, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("geolocation request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geolocation lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: status %d", ErrNoFix, resp.StatusCode)
	}

	var f fix
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrNoFix, err)
	}
	switch {
	case f.Lat != nil && f.Lon != nil:
		return *f.Lat, *f.Lon, nil
	case f.Latitude != nil && f.Longitude != nil:
		return *f.Latitude, *f.Longitude, nil
	}
	return 0, 0, ErrNoFix
}
