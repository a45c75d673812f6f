package reports

import (
	"fmt"
	"regexp"
)

var coordPattern = regexp.MustCompile(`Lat:\s*(-?[\d.]+),\s*Long:\s*(-?[\d.]+)`)

// FormatCoordinates format lokasi dari geolocation, 5 desimal
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("Lat: %.5f, Long: %.5f", lat, lon)
}

// MapsLink link Google Maps kalau lokasi berbentuk koordinat
func MapsLink(location string) (string, bool) {
	m := coordPattern.FindStringSubmatch(location)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("https://maps.google.com/?q=%s,%s", m[1], m[2]), true
}
