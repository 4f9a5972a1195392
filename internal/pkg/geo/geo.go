// Package geo implements the great-circle distance used by the proximity scan.
package geo

import "math"

// EarthRadiusKm is the mean earth radius of the spherical-earth approximation.
const EarthRadiusKm = 6371.0

// Distance returns the Haversine distance in kilometers between two
// lat/lng points given in degrees. Out-of-range coordinates are not
// rejected; they just produce nonsensical distances.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dlat := radians(lat2 - lat1)
	dlng := radians(lng2 - lng1)

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Pow(math.Sin(dlng/2), 2)

	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
