package domain

import "math"

// DailySignalConfig parametriza el generador de señales diarias long/cash.
type DailySignalConfig struct {
	Proximity      float64
	FastWindow     int
	SlowWindow     int
	ShrinkLookback int
}

// DefaultDailySignalConfig devuelve la configuración estándar (proximidad 7%).
func DefaultDailySignalConfig() DailySignalConfig {
	return DailySignalConfig{
		Proximity:      0.07,
		FastWindow:     50,
		SlowWindow:     250,
		ShrinkLookback: 5,
	}
}

// DailySignals genera la señal long/cash (0.0 o 1.0) alineada con prices.
//
// Semántica:
//   - 1: price > sma250 && sma50 >= sma250 (tendencia alcista confirmada)
//   - 0: dentro de la tendencia, si distance <= proximity && distance < distance
//     de hace 5 periodos (el precio se acerca a la SMA250 desde arriba)
//   - 0 en cualquier otro caso
//
// A diferencia de DetectRegime la salida usa la distancia CON signo: es long-only
// y solo vigila la aproximación desde arriba.
//
// Las medias se calculan sobre la serie sin huecos (los días sin precio se
// eliminan antes) y la señal se reproyecta al índice original con 0 en los huecos.
func DailySignals(prices []float64, cfg DailySignalConfig) []float64 {
	idx := make([]int, 0, len(prices))
	compact := make([]float64, 0, len(prices))
	for i, p := range prices {
		if math.IsNaN(p) {
			continue
		}
		idx = append(idx, i)
		compact = append(compact, p)
	}

	fast := SMA(compact, cfg.FastWindow)
	slow := SMA(compact, cfg.SlowWindow)
	dist := distance(compact, slow)
	prevDist := Shift(dist, cfg.ShrinkLookback)

	out := make([]float64, len(prices))
	for j, p := range compact {
		uptrend := p > slow[j] && fast[j] >= slow[j]
		if !uptrend {
			continue
		}
		weaken := dist[j] <= cfg.Proximity && dist[j] < prevDist[j]
		if weaken {
			continue
		}
		out[idx[j]] = 1
	}
	return out
}
