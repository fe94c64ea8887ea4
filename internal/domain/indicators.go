package domain

import "math"

// SMA calcula la media móvil simple sobre las últimas `window` observaciones.
// El resultado tiene la misma longitud que x. Es NaN hasta que hay `window`
// valores válidos en la ventana: no se promedian ventanas parciales, y una
// ventana que contiene un precio ausente también queda indefinida.
func SMA(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	if window <= 0 {
		fillNaN(out)
		return out
	}

	var sum float64
	valid := 0
	for i, v := range x {
		if !math.IsNaN(v) {
			sum += v
			valid++
		}
		if i >= window {
			if old := x[i-window]; !math.IsNaN(old) {
				sum -= old
				valid--
			}
		}
		if valid < window {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// ROC es el cambio porcentual respecto al valor `window` periodos atrás.
//
//	roc[i] = x[i] / x[i-window] - 1
func ROC(x []float64, window int) []float64 {
	return lagged(x, window, func(cur, prev float64) float64 {
		if prev == 0 {
			return math.NaN()
		}
		return cur/prev - 1
	})
}

// Slope es un proxy de pendiente: la diferencia bruta respecto a `window`
// periodos atrás (no es una tasa).
func Slope(x []float64, window int) []float64 {
	return lagged(x, window, func(cur, prev float64) float64 { return cur - prev })
}

// Shift desplaza la serie n posiciones hacia adelante: out[i] = x[i-n].
// Las primeras n posiciones quedan en NaN.
func Shift(x []float64, n int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i-n < 0 || i-n >= len(x) {
			out[i] = math.NaN()
			continue
		}
		out[i] = x[i-n]
	}
	return out
}

// Abs devuelve |x| elemento a elemento (NaN se mantiene).
func Abs(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v)
	}
	return out
}

func lagged(x []float64, window int, fn func(cur, prev float64) float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if window <= 0 || i < window || math.IsNaN(x[i]) || math.IsNaN(x[i-window]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(x[i], x[i-window])
	}
	return out
}

func fillNaN(x []float64) {
	for i := range x {
		x[i] = math.NaN()
	}
}
