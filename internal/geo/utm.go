// Package geo converts WGS84 coordinates to UTM grid references for
// human-readable display in alerts.
package geo

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid constants.
const (
	equatorialRadius = 6378137.0
	eccentricitySq   = 0.00669438
	scaleFactor      = 0.9996
	falseEasting     = 500000.0
	falseNorthing    = 10000000.0
)

const bandLetters = "CDEFGHJKLMNPQRSTUVWXX"

// GridRefNotAvailable is returned for coordinates outside UTM coverage.
const GridRefNotAvailable = "N/A"

// UTM holds a converted coordinate.
type UTM struct {
	ZoneNumber int
	ZoneLetter byte
	Easting    float64
	Northing   float64
}

// ToUTM converts a latitude/longitude pair to UTM. Latitudes outside the
// UTM band range [-80, 84] are rejected.
func ToUTM(lat, lon float64) (UTM, error) {
	if lat < -80 || lat > 84 {
		return UTM{}, fmt.Errorf("latitude %.4f outside UTM range [-80, 84]", lat)
	}
	if lon < -180 || lon > 180 {
		return UTM{}, fmt.Errorf("longitude %.4f outside range [-180, 180]", lon)
	}

	zone := int((lon+180)/6) + 1
	if lon == 180 {
		zone = 60
	}
	band := bandLetters[int(lat+80)/8]

	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	centralMeridian := float64((zone-1)*6-180+3) * math.Pi / 180

	e2 := eccentricitySq
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := math.Tan(latRad)

	n := equatorialRadius / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := cosLat * (lonRad - centralMeridian)

	m := equatorialRadius * ((1-e2/4-3*e4/64-5*e6/256)*latRad -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*latRad) +
		(15*e4/256+45*e6/1024)*math.Sin(4*latRad) -
		(35*e6/3072)*math.Sin(6*latRad))

	easting := scaleFactor*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + falseEasting

	northing := scaleFactor * (m + n*tanLat*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))
	if lat < 0 {
		northing += falseNorthing
	}

	return UTM{
		ZoneNumber: zone,
		ZoneLetter: band,
		Easting:    easting,
		Northing:   northing,
	}, nil
}

// GridRef formats a coordinate as "47P 543210 E 1567890 N" with easting and
// northing rounded to whole metres. Coordinates outside UTM coverage yield
// GridRefNotAvailable.
func GridRef(lat, lon float64) string {
	u, err := ToUTM(lat, lon)
	if err != nil {
		return GridRefNotAvailable
	}
	return fmt.Sprintf("%d%c %.0f E %.0f N", u.ZoneNumber, u.ZoneLetter, u.Easting, u.Northing)
}
