package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

func TestResolve(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		timeframe     domain.Timeframe
		wantDays      int
		wantTimeframe domain.Timeframe
		wantDefaulted bool
	}{
		{"7 dias", domain.Timeframe7Days, 7, domain.Timeframe7Days, false},
		{"30 dias", domain.Timeframe30Days, 30, domain.Timeframe30Days, false},
		{"90 dias", domain.Timeframe90Days, 90, domain.Timeframe90Days, false},
		{"1 ano", domain.Timeframe1Year, 365, domain.Timeframe1Year, false},
		{"desconhecido", domain.Timeframe("2w"), 30, domain.Timeframe30Days, true},
		{"vazio", domain.Timeframe(""), 30, domain.Timeframe30Days, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.timeframe, now)

			assert.Equal(t, tt.wantDays, p.Days)
			assert.Equal(t, tt.wantTimeframe, p.Timeframe)
			assert.Equal(t, tt.wantDefaulted, p.Defaulted)
			assert.Equal(t, now, p.Current.End)
			assert.Equal(t, now.AddDate(0, 0, -tt.wantDays), p.Current.Start)
			assert.Equal(t, now.AddDate(0, 0, -2*tt.wantDays), p.Previous.Start)
		})
	}
}

func TestResolveDays_AdjacentAndEqualLength(t *testing.T) {
	now := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	for _, days := range []int{0, 1, 2, 7, 29, 30, 31, 90, 365, 1000} {
		p := ResolveDays(days, now)

		assert.Equal(t, p.Current.Start, p.Previous.End, "days=%d", days)
		assert.Equal(t, p.Current.Duration(), p.Previous.Duration(), "days=%d", days)
		assert.False(t, p.Current.Start.After(p.Current.End), "days=%d", days)
		assert.False(t, p.Previous.Start.After(p.Previous.End), "days=%d", days)
	}
}

func TestResolveDays_NegativeClampsToZero(t *testing.T) {
	now := time.Now()

	p := ResolveDays(-5, now)

	assert.Equal(t, 0, p.Days)
	assert.Equal(t, now, p.Current.Start)
	assert.Equal(t, now, p.Previous.Start)
}

func TestParseTimeframe(t *testing.T) {
	tf, ok := ParseTimeframe(" 90D ")
	assert.True(t, ok)
	assert.Equal(t, domain.Timeframe90Days, tf)

	_, ok = ParseTimeframe("6m")
	assert.False(t, ok)
}
