package firms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viirsCSV = `latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,instrument,confidence,version,bright_ti5,frp,daynight
14.10000,99.50000,335.2,0.39,0.36,2024-03-15,0630,N,VIIRS,n,2.0NRT,295.1,7.43,D
14.38300,99.11700,341.8,0.41,0.37,2024-03-15,0631,N,VIIRS,h,2.0NRT,300.4,12.10,D`

func TestParseCSVTypedFields(t *testing.T) {
	records := ParseCSV(viirsCSV)
	require.Len(t, records, 2)

	r := records[0]
	assert.InDelta(t, 14.10, r.Latitude, 1e-9)
	assert.InDelta(t, 99.50, r.Longitude, 1e-9)
	assert.InDelta(t, 335.2, r.BrightTI4, 1e-9)
	assert.InDelta(t, 295.1, r.BrightTI5, 1e-9)
	assert.InDelta(t, 7.43, r.FRP, 1e-9)
	assert.Equal(t, "2024-03-15", r.AcqDate)
	assert.Equal(t, "0630", r.AcqTime)
	assert.Equal(t, "N", r.Satellite)
	assert.Equal(t, "VIIRS", r.Instrument)
	assert.Equal(t, "n", r.Confidence)
	assert.Equal(t, "D", r.DayNight)

	// VIIRS rows carry no MODIS brightness column.
	assert.Zero(t, r.Brightness)
	assert.InDelta(t, 335.2, r.EffectiveBrightness(), 1e-9)
}

func TestParseCSVHeaderOnly(t *testing.T) {
	assert.Empty(t, ParseCSV("latitude,longitude,acq_date,acq_time"))
}

func TestParseCSVEmptyInput(t *testing.T) {
	assert.Empty(t, ParseCSV(""))
	assert.Empty(t, ParseCSV("\n\n"))
}

func TestParseCSVShortRowDefaults(t *testing.T) {
	csv := "latitude,longitude,acq_date,acq_time,confidence\n14.2,99.3"
	records := ParseCSV(csv)
	require.Len(t, records, 1)

	r := records[0]
	assert.InDelta(t, 14.2, r.Latitude, 1e-9)
	assert.InDelta(t, 99.3, r.Longitude, 1e-9)
	assert.Empty(t, r.AcqDate)
	assert.Empty(t, r.AcqTime)
	assert.Empty(t, r.Confidence)
}

func TestParseCSVMalformedNumericDefaultsToZero(t *testing.T) {
	csv := "latitude,longitude,frp,acq_date\nnot-a-number,99.3,garbage,2024-03-15"
	records := ParseCSV(csv)
	require.Len(t, records, 1)

	assert.Zero(t, records[0].Latitude)
	assert.InDelta(t, 99.3, records[0].Longitude, 1e-9)
	assert.Zero(t, records[0].FRP)
	assert.Equal(t, "2024-03-15", records[0].AcqDate)
}

func TestParseCSVSkipsBlankLines(t *testing.T) {
	csv := "latitude,longitude\n14.2,99.3\n\n14.3,99.4\n"
	assert.Len(t, ParseCSV(csv), 2)
}

func TestParseCSVWhitespaceTrimmed(t *testing.T) {
	csv := "latitude, longitude ,confidence\n 14.2 , 99.3 , h "
	records := ParseCSV(csv)
	require.Len(t, records, 1)
	assert.InDelta(t, 99.3, records[0].Longitude, 1e-9)
	assert.Equal(t, "h", records[0].Confidence)
}
