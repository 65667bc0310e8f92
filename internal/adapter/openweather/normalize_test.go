package openweather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastapp/skycast/internal/domain"
)

func entry(dt int64, temp float64, id int, desc string) forecastEntryPayload {
	return forecastEntryPayload{
		Dt:      dt,
		Main:    mainPayload{TempMax: temp, TempMin: temp},
		Weather: []weatherPayload{{ID: id, Description: desc, Icon: "01d"}},
	}
}

func TestGroupDaily(t *testing.T) {
	// Two calendar days of 3-hourly entries, four each, starting at
	// 2026-09-01T00:00Z.
	const day1 = int64(1788220800)
	const day2 = day1 + 24*3600

	payload := forecastResponse{
		List: []forecastEntryPayload{
			entry(day1, 60, 800, "clear sky"),
			entry(day1+3*3600, 65, 800, "clear sky"),
			entry(day1+6*3600, 70, 801, "few clouds"),
			entry(day1+9*3600, 68, 801, "few clouds"),
			entry(day2, 72, 500, "light rain"),
			entry(day2+3*3600, 75, 500, "light rain"),
			entry(day2+6*3600, 58, 500, "light rain"),
			entry(day2+9*3600, 62, 500, "light rain"),
		},
	}

	days := groupDaily(payload, 5)
	require.Len(t, days, 2)

	assert.Equal(t, 70, days[0].High)
	assert.Equal(t, 60, days[0].Low)
	assert.Equal(t, "clear sky", days[0].Description) // first entry wins
	assert.Equal(t, domain.IconClearDay, days[0].Icon)
	assert.Equal(t, time.September, days[0].Date.Month())
	assert.Equal(t, 1, days[0].Date.Day())

	assert.Equal(t, 75, days[1].High)
	assert.Equal(t, 58, days[1].Low)
	assert.Equal(t, "light rain", days[1].Description)
	assert.Equal(t, 2, days[1].Date.Day())
}

func TestGroupDaily_TruncatesToMaxDays(t *testing.T) {
	const start = int64(1788220800)

	var entries []forecastEntryPayload
	for day := int64(0); day < 7; day++ {
		entries = append(entries, entry(start+day*24*3600, 70, 800, "clear sky"))
	}

	days := groupDaily(forecastResponse{List: entries}, 5)
	assert.Len(t, days, 5)
}

func TestGroupDaily_UsesCityTimezone(t *testing.T) {
	// 23:00 UTC on Aug 31 is already Sep 1 in a UTC+2 city, so both entries
	// land on the same local day.
	payload := forecastResponse{
		List: []forecastEntryPayload{
			entry(1788220800-3600, 60, 800, "clear sky"),
			entry(1788220800, 65, 800, "clear sky"),
		},
	}
	payload.City.Timezone = 2 * 3600

	days := groupDaily(payload, 5)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].Date.Day())
	assert.Equal(t, 65, days[0].High)
	assert.Equal(t, 60, days[0].Low)
}

func TestGroupDaily_Empty(t *testing.T) {
	assert.Empty(t, groupDaily(forecastResponse{}, 5))
}

func TestFormatVisibility(t *testing.T) {
	meters := 10000
	assert.Equal(t, "6.2", formatVisibility(&meters))

	meters = 1609
	assert.Equal(t, "1.0", formatVisibility(&meters))

	assert.Equal(t, "N/A", formatVisibility(nil))
}

func TestNormalizeCurrent_PressureConversion(t *testing.T) {
	p := currentResponse{
		Weather: []weatherPayload{{ID: 800, Icon: "01d"}},
		Main:    mainPayload{Pressure: 1013},
	}
	assert.Equal(t, "29.91", normalizeCurrent(p).Pressure)

	p.Main.Pressure = 1000
	assert.Equal(t, "29.53", normalizeCurrent(p).Pressure)
}

func TestNormalizeCurrent_NoWeatherEntry(t *testing.T) {
	current := normalizeCurrent(currentResponse{Main: mainPayload{Temp: 50}})
	assert.Equal(t, 50, current.Temperature)
	assert.Empty(t, current.Description)
	assert.Equal(t, domain.IconUnknown, current.Icon)
}
