package utils

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const earthRadiusMeters = orb.EarthRadius

// HaversineDistance returns the great-circle distance in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
}

// BearingBetweenPoints calculates the bearing in degrees from point1 to point2
func BearingBetweenPoints(lat1, lon1, lat2, lon2 float64) float64 {
	b := geo.Bearing(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
	return math.Mod(b+360, 360)
}

// BearingToCompass converts a bearing (0-360°) to 8-point compass direction
func BearingToCompass(bearing float64) string {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	index := int((bearing+22.5)/45.0) % 8
	return directions[index]
}

// CompassDirection calculates compass direction from lat1,lon1 to lat2,lon2
func CompassDirection(lat1, lon1, lat2, lon2 float64) string {
	return BearingToCompass(BearingBetweenPoints(lat1, lon1, lat2, lon2))
}

// BoundingBox returns the latitude/longitude box enclosing a circle of
// radius meters around lat,lon.
func BoundingBox(lat, lon, radius float64) (minLat, minLon, maxLat, maxLon float64) {
	bound := geo.NewBoundAroundPoint(orb.Point{lon, lat}, radius)
	return bound.Min.Lat(), bound.Min.Lon(), bound.Max.Lat(), bound.Max.Lon()
}
