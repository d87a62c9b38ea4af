// Package analytics contiene cálculos de dominio puros sobre el historial de ventas.
package analytics

import (
	"math"
	"time"

	"github.com/jhoicas/facturacion-api/internal/domain"
)

// Clasificación de la próxima compra estimada respecto a hoy.
const (
	PredictionOverdue  = "VENCIDA" // la fecha estimada ya pasó
	PredictionUpcoming = "PRÓXIMA" // dentro de los próximos 7 días
	PredictionFuture   = "FUTURA"
)

// upcomingWindowDays ventana de días para considerar una compra PRÓXIMA.
const upcomingWindowDays = 7

// MinPurchasesForEstimate compras necesarias para calcular un intervalo promedio.
const MinPurchasesForEstimate = 2

// NextPurchase resultado de la estimación.
type NextPurchase struct {
	TotalPurchases   int
	LastPurchase     time.Time
	AverageGapDays   float64 // promedio exacto, usado para la aritmética de fechas
	RoundedGapDays   int     // promedio redondeado, para mostrar
	EstimatedDate    time.Time
	PredictionStatus string
}

// EstimateNextPurchase calcula la próxima compra a partir de las fechas de compra (orden ascendente).
// ProximaCompra = UltimaCompra + promedio(fecha[i] - fecha[i-1]).
func EstimateNextPurchase(dates []time.Time, today time.Time) (NextPurchase, error) {
	if len(dates) < MinPurchasesForEstimate {
		return NextPurchase{}, domain.InsufficientHistory(
			"the customer needs at least %d purchases to estimate the next one, found %d",
			MinPurchasesForEstimate, len(dates))
	}
	var totalDays float64
	for i := 1; i < len(dates); i++ {
		totalDays += dates[i].Sub(dates[i-1]).Hours() / 24
	}
	avg := totalDays / float64(len(dates)-1)
	last := dates[len(dates)-1]
	estimated := last.Add(time.Duration(avg * float64(24*time.Hour)))

	return NextPurchase{
		TotalPurchases:   len(dates),
		LastPurchase:     last,
		AverageGapDays:   avg,
		RoundedGapDays:   int(math.Round(avg)),
		EstimatedDate:    estimated,
		PredictionStatus: ClassifyPrediction(estimated, today),
	}, nil
}

// ClassifyPrediction compara contra el inicio del día de today (UTC).
func ClassifyPrediction(estimated, today time.Time) string {
	t := today.UTC()
	startOfDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case estimated.Before(startOfDay):
		return PredictionOverdue
	case !estimated.After(startOfDay.AddDate(0, 0, upcomingWindowDays)):
		return PredictionUpcoming
	default:
		return PredictionFuture
	}
}
