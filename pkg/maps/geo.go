package maps

import (
	"fmt"
	"math"
	"net/url"
)

const earthRadiusMeters = 6371000.0

// DistanceMeters is the great-circle distance between a and b.
func DistanceMeters(a, b LatLng) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// FormatKilometers renders meters as "1.2 km".
func FormatKilometers(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}

// DirectionsURL links to Google Maps directions from origin to the destination address.
func DirectionsURL(origin, destination, placeID string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", origin)
	q.Set("destination", destination)
	if placeID != "" {
		q.Set("destination_place_id", placeID)
	}
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
