package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 200.0, LineTotal(2, 100))
	assert.Equal(t, 0.0, LineTotal(0, 100))
	assert.InDelta(t, 7.5, LineTotal(2.5, 3), 1e-9)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -2.35, Round2(-2.345))
}

func TestApplyMarkupPercent(t *testing.T) {
	// 100 cost + 25% markup = 125 sell.
	assert.Equal(t, 125.0, ApplyMarkup(0, 100, MarkupPercent, 25))
	assert.Equal(t, 103.33, ApplyMarkup(0, 100, MarkupPercent, 3.33))
}

func TestApplyMarkupFixed(t *testing.T) {
	assert.Equal(t, 130.0, ApplyMarkup(0, 100, MarkupFixed, 30))
	assert.Equal(t, 100.5, ApplyMarkup(0, 100, MarkupFixed, 0.5))
}

func TestApplyMarkupIsOptIn(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		cost      float64
		mode      MarkupMode
		value     float64
		expect    float64
	}{
		{"zero cost keeps current price", 99, 0, MarkupPercent, 25, 99},
		{"zero value keeps current price", 99, 100, MarkupPercent, 0, 99},
		{"negative value keeps current price", 99, 100, MarkupFixed, -5, 99},
		{"unknown mode keeps current price", 99, 100, "triple", 25, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ApplyMarkup(tt.current, tt.cost, tt.mode, tt.value))
		})
	}
}
