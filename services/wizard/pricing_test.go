package wizard

import (
	"testing"

	"meytle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotePrice(t *testing.T) {
	tests := []struct {
		name     string
		hours    float64
		rate     float64
		feePct   float64
		subtotal float64
		fee      float64
		total    float64
	}{
		{name: "two hours at 35", hours: 2, rate: 35, feePct: 0.10, subtotal: 70.00, fee: 7.00, total: 77.00},
		{name: "fractional hours", hours: 1.5, rate: 35, feePct: 0.10, subtotal: 52.50, fee: 5.25, total: 57.75},
		{name: "subtotal rounds before fee", hours: 1.5, rate: 33.33, feePct: 0.10, subtotal: 50.00, fee: 5.00, total: 55.00},
		{name: "zero rate", hours: 2, rate: 0, feePct: 0.10, subtotal: 0, fee: 0, total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := QuotePrice(tt.hours, tt.rate, tt.feePct)
			assert.Equal(t, tt.hours, quote.Hours)
			assert.Equal(t, tt.subtotal, quote.Subtotal)
			assert.Equal(t, tt.fee, quote.Fee)
			assert.Equal(t, tt.total, quote.Total)
		})
	}
}

func TestWindowHours(t *testing.T) {
	hours, err := WindowHours(models.TimeWindow{Start: "10:00", End: "12:00"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, hours)

	hours, err = WindowHours(models.TimeWindow{Start: "09:30", End: "11:00"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, hours)
}

func TestWindowHoursRejectsBadWindows(t *testing.T) {
	_, err := WindowHours(models.TimeWindow{Start: "22:00", End: "02:00"})
	assert.Error(t, err, "overnight windows are not supported")

	_, err = WindowHours(models.TimeWindow{Start: "10:00", End: "10:00"})
	assert.Error(t, err)

	_, err = WindowHours(models.TimeWindow{Start: "ten", End: "12:00"})
	assert.Error(t, err)

	_, err = WindowHours(models.TimeWindow{Start: "10:00", End: ""})
	assert.Error(t, err)
}
