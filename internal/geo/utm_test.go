package geo

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUTMKanchanaburi(t *testing.T) {
	// Reference point inside the monitored province.
	u, err := ToUTM(14.10, 99.50)
	require.NoError(t, err)

	assert.Equal(t, 47, u.ZoneNumber)
	assert.Equal(t, byte('P'), u.ZoneLetter)
	// 0.5 degrees east of the zone 47 central meridian (99E).
	assert.InDelta(t, 553980, u.Easting, 1500)
	assert.InDelta(t, 1558900, u.Northing, 1500)
}

func TestToUTMSouthernHemisphereOffset(t *testing.T) {
	north, err := ToUTM(5.0, 99.0)
	require.NoError(t, err)
	south, err := ToUTM(-5.0, 99.0)
	require.NoError(t, err)

	// Southern hemisphere northing carries the 10,000 km false northing.
	assert.Greater(t, south.Northing, north.Northing)
	assert.InDelta(t, falseNorthing, south.Northing+north.Northing, 2000)
}

func TestToUTMRejectsPolarLatitudes(t *testing.T) {
	_, err := ToUTM(85.0, 0.0)
	require.Error(t, err)

	_, err = ToUTM(-81.0, 0.0)
	require.Error(t, err)
}

func TestGridRefFormat(t *testing.T) {
	ref := GridRef(14.10, 99.50)
	assert.Regexp(t, regexp.MustCompile(`^47P \d{6} E \d{7} N$`), ref)
}

func TestGridRefOutOfRange(t *testing.T) {
	assert.Equal(t, GridRefNotAvailable, GridRef(89.0, 0.0))
	assert.Equal(t, GridRefNotAvailable, GridRef(14.0, 300.0))
}

func TestZoneBoundaries(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		zone int
	}{
		{"west_edge_of_zone_47", 96.0, 47},
		{"east_edge_of_zone_47", 101.99, 47},
		{"start_of_zone_48", 102.0, 48},
		{"antimeridian", 180.0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ToUTM(14.0, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, tt.zone, u.ZoneNumber)
		})
	}
}
