package domain

import (
	"math"
	"time"
)

// EquityPoint es el valor total de la cartera (cash + posición) al cierre de un día.
type EquityPoint struct {
	Date   time.Time
	Equity float64
}

// Stats es el resumen de rendimiento de una ejecución.
type Stats struct {
	FinalEquity float64
	CAGR        float64
	MaxDrawdown float64
	Trades      int // solo en el simulador por eventos
}

const daysPerYear = 365.25

// CAGR calcula la tasa de crecimiento anual compuesta de la curva.
//
// Fórmula: (final / inicial) ^ (365.25 / días) - 1
//
// Los días son días naturales completos entre la primera y la última fecha.
// Devuelve 0 si la curva está vacía, abarca <= 0 días o empieza en <= 0.
func CAGR(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}
	first, last := equity[0], equity[len(equity)-1]
	days := int(last.Date.Sub(first.Date).Hours() / 24)
	if days <= 0 || first.Equity <= 0 {
		return 0
	}
	years := float64(days) / daysPerYear
	return math.Pow(last.Equity/first.Equity, 1/years) - 1
}

// MaxDrawdown devuelve min_t(equity[t] / max(equity[0..t]) - 1).
// Es <= 0; 0 para una curva vacía o siempre creciente.
func MaxDrawdown(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := equity[0].Equity
	worst := 0.0
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		if dd := p.Equity/peak - 1; dd < worst {
			worst = dd
		}
	}
	return worst
}

// FinalEquity devuelve el último valor de la curva, o fallback si está vacía.
func FinalEquity(equity []EquityPoint, fallback float64) float64 {
	if len(equity) == 0 {
		return fallback
	}
	return equity[len(equity)-1].Equity
}
