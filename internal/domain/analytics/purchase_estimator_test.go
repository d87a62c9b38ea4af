package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain"
)

var base = time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)

func days(n ...int) []time.Time {
	out := make([]time.Time, 0, len(n))
	for _, d := range n {
		out = append(out, base.AddDate(0, 0, d))
	}
	return out
}

func TestEstimateNextPurchase(t *testing.T) {
	tests := []struct {
		name     string
		dates    []time.Time
		today    int
		wantGap  int
		wantDate time.Time
		want     string
	}{
		{"próxima", days(0, 10, 20), 28, 10, base.AddDate(0, 0, 30), PredictionUpcoming},
		{"vencida", days(0, 10, 20), 31, 10, base.AddDate(0, 0, 30), PredictionOverdue},
		{"mismo día cuenta como próxima", days(0, 10, 20), 30, 10, base.AddDate(0, 0, 30), PredictionUpcoming},
		{"futura", days(0, 30), 31, 30, base.AddDate(0, 0, 60), PredictionFuture},
		{"dentro de la ventana de 7 días", days(0, 10, 20), 24, 10, base.AddDate(0, 0, 30), PredictionUpcoming},
		{"fuera de la ventana de 7 días", days(0, 10, 20), 23, 10, base.AddDate(0, 0, 30), PredictionFuture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateNextPurchase(tt.dates, base.AddDate(0, 0, tt.today))
			require.NoError(t, err)
			assert.Equal(t, len(tt.dates), got.TotalPurchases)
			assert.Equal(t, tt.wantGap, got.RoundedGapDays)
			assert.True(t, tt.wantDate.Equal(got.EstimatedDate), "estimated %s", got.EstimatedDate)
			assert.Equal(t, tt.want, got.PredictionStatus)
		})
	}
}

func TestEstimateNextPurchase_FractionalGap(t *testing.T) {
	got, err := EstimateNextPurchase(days(0, 1, 3), base)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got.AverageGapDays, 1e-9)
	assert.Equal(t, 2, got.RoundedGapDays)
	assert.True(t, base.AddDate(0, 0, 3).Add(36*time.Hour).Equal(got.EstimatedDate))
}

func TestEstimateNextPurchase_InsufficientHistory(t *testing.T) {
	for _, dates := range [][]time.Time{nil, days(0)} {
		_, err := EstimateNextPurchase(dates, base)
		assert.ErrorIs(t, err, domain.ErrInsufficientHistory)
	}
}
