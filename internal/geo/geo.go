package geo

import (
	"math"

	"routeopt/internal/model"
)

const EarthRadiusKM = 6371.0

// Distance returns the haversine great-circle distance between a and b in km.
func Distance(a, b model.GeoPoint) float64 {
	return DistanceKM(a.Lat, a.Lng, b.Lat, b.Lng)
}

func DistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
