package ephemeris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var changsha = time.FixedZone("UTC+8", 8*3600)

const (
	changshaLat = 28.12
	changshaLon = 112.94
)

func TestCalculator_SunPosition(t *testing.T) {
	tests := []struct {
		name             string
		at               time.Time
		lat, lon         float64
		minAlt, maxAlt   float64
		minAzim, maxAzim float64
	}{
		{
			name: "midsummer noon in Changsha",
			at:   time.Date(2023, 6, 21, 12, 30, 0, 0, changsha),
			lat:  changshaLat, lon: changshaLon,
			minAlt: 84, maxAlt: 86,
			minAzim: 0, maxAzim: 360,
		},
		{
			name: "morning sun is in the east",
			at:   time.Date(2023, 6, 21, 8, 0, 0, 0, changsha),
			lat:  changshaLat, lon: changshaLon,
			minAlt: 25, maxAlt: 45,
			minAzim: 60, maxAzim: 100,
		},
		{
			name: "afternoon sun is in the west",
			at:   time.Date(2023, 6, 21, 17, 0, 0, 0, changsha),
			lat:  changshaLat, lon: changshaLon,
			minAlt: 20, maxAlt: 40,
			minAzim: 260, maxAzim: 300,
		},
		{
			name: "midnight is below the horizon",
			at:   time.Date(2023, 6, 21, 0, 0, 0, 0, changsha),
			lat:  changshaLat, lon: changshaLon,
			minAlt: -90, maxAlt: -30,
			minAzim: 0, maxAzim: 360,
		},
		{
			name: "winter noon in London faces south",
			at:   time.Date(2023, 12, 21, 12, 0, 0, 0, time.UTC),
			lat:  51.5, lon: -0.12,
			minAlt: 14, maxAlt: 16,
			minAzim: 175, maxAzim: 185,
		},
	}

	eph := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := eph.SunPosition(tt.at, tt.lat, tt.lon)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, pos.Altitude, tt.minAlt)
			assert.LessOrEqual(t, pos.Altitude, tt.maxAlt)
			assert.GreaterOrEqual(t, pos.Azimuth, tt.minAzim)
			assert.Less(t, pos.Azimuth, tt.maxAzim)
		})
	}
}

func TestCalculator_SunPositionIgnoresZoneOfInstant(t *testing.T) {
	eph := New()
	local := time.Date(2023, 3, 1, 15, 0, 0, 0, changsha)

	a, err := eph.SunPosition(local, changshaLat, changshaLon)
	require.NoError(t, err)
	b, err := eph.SunPosition(local.UTC(), changshaLat, changshaLon)
	require.NoError(t, err)
	assert.InDelta(t, a.Altitude, b.Altitude, 1e-9)
	assert.InDelta(t, a.Azimuth, b.Azimuth, 1e-9)
}

func TestCalculator_SunriseSunset(t *testing.T) {
	eph := New()
	day := time.Date(2023, 6, 21, 12, 0, 0, 0, changsha)

	rise, err := eph.Sunrise(day, changshaLat, changshaLon)
	require.NoError(t, err)
	set, err := eph.Sunset(day, changshaLat, changshaLon)
	require.NoError(t, err)

	assert.Equal(t, changsha, rise.Location())
	assert.Equal(t, 21, rise.Day())
	assert.Equal(t, 5, rise.Hour())
	assert.Equal(t, 19, set.Hour())
	assert.InDelta(t, 13.9, set.Sub(rise).Hours(), 0.2)

	// the sun's centre sits just under the horizon at sunrise
	pos, err := eph.SunPosition(rise, changshaLat, changshaLon)
	require.NoError(t, err)
	assert.InDelta(t, horizon, pos.Altitude, 0.5)
}

func TestCalculator_PolarDays(t *testing.T) {
	eph := New()

	_, err := eph.Sunrise(time.Date(2023, 6, 21, 12, 0, 0, 0, time.UTC), 80, 15)
	assert.ErrorIs(t, err, ErrPolarDay)

	_, err = eph.Sunset(time.Date(2023, 12, 21, 12, 0, 0, 0, time.UTC), 80, 15)
	assert.ErrorIs(t, err, ErrPolarNight)
}

func TestCalculator_RejectsBadCoordinates(t *testing.T) {
	eph := New()
	_, err := eph.SunPosition(time.Now(), 91, 0)
	assert.Error(t, err)
	_, err = eph.Sunrise(time.Now(), 0, 181)
	assert.Error(t, err)
}
