package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIconFor_OpenWeatherCodes(t *testing.T) {
	tests := []struct {
		code     int
		isDay    bool
		expected IconKind
	}{
		{211, true, IconThunderstorm},
		{301, true, IconRain},
		{500, true, IconRain},
		{601, true, IconSnow},
		{741, true, IconFog},
		{800, true, IconClearDay},
		{800, false, IconClearNight},
		{801, true, IconCloudy},
		{804, false, IconCloudy},
		{0, true, IconUnknown},
		{999, true, IconUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, IconFor(tt.code, tt.isDay))
		})
	}
}

func TestIconFor_WeatherAPICodes(t *testing.T) {
	tests := []struct {
		code     int
		isDay    bool
		expected IconKind
	}{
		{1000, true, IconClearDay},
		{1000, false, IconClearNight},
		{1003, true, IconCloudy},
		{1009, true, IconCloudy},
		{1030, true, IconFog},
		{1135, false, IconFog},
		{1063, true, IconRain},
		{1195, true, IconRain},
		{1240, true, IconRain},
		{1066, true, IconSnow},
		{1114, true, IconSnow},
		{1225, false, IconSnow},
		{1255, true, IconSnow},
		{1087, true, IconThunderstorm},
		{1276, false, IconThunderstorm},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, IconFor(tt.code, tt.isDay))
		})
	}
}

func TestErrorClassification(t *testing.T) {
	t.Run("not found carries the query", func(t *testing.T) {
		err := fmt.Errorf("load city: %w", &NotFoundError{Query: "Atlantis"})

		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "Atlantis")
	})

	t.Run("unavailable wraps transport errors", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &UnavailableError{Op: "current", Err: cause}

		assert.True(t, IsUnavailable(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("parse failures classify as unavailable", func(t *testing.T) {
		err := &ParseError{Provider: "weatherapi", Err: errors.New("unexpected EOF")}

		assert.True(t, IsUnavailable(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("out of service area is neither", func(t *testing.T) {
		err := &OutOfServiceAreaError{Lat: 51.5, Lon: -0.1}

		assert.False(t, IsNotFound(err))
		assert.False(t, IsUnavailable(err))
		assert.Contains(t, err.Error(), "51.50")
	})
}
