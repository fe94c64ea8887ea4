package domain

// Regime es la señal direccional de tendencia: +1 alcista, -1 bajista, 0 fuera.
type Regime int

const (
	RegimeDown Regime = -1
	RegimeFlat Regime = 0
	RegimeUp   Regime = 1
)

// String implementa fmt.Stringer.
func (r Regime) String() string {
	switch r {
	case RegimeUp:
		return "UP"
	case RegimeDown:
		return "DOWN"
	default:
		return "FLAT"
	}
}

// RegimeConfig parametriza el detector de régimen SMA50/SMA250.
type RegimeConfig struct {
	Proximity      float64 // |distance| <= Proximity se considera "cerca" de la SMA lenta
	FastWindow     int
	SlowWindow     int
	ShrinkLookback int // periodos atrás para decidir si la distancia se está encogiendo
}

// DefaultRegimeConfig devuelve la configuración estándar (proximidad 3%).
func DefaultRegimeConfig() RegimeConfig {
	return RegimeConfig{
		Proximity:      0.03,
		FastWindow:     50,
		SlowWindow:     250,
		ShrinkLookback: 5,
	}
}

// DetectRegime deriva la señal de régimen para cada punto de la serie.
//
//	distance  = (price - sma250) / sma250
//	near      = |distance| <= proximity
//	shrinking = |distance| < |distance hace 5 periodos|
//	up        = price > sma250 && sma50 >= sma250 && !(near && shrinking)
//	down      = price < sma250 && sma50 <= sma250 && !(near && shrinking)
//
// Acercarse a la media con el momentum debilitándose saca de cualquiera de los
// dos regímenes aunque el cruce simple siga marcando dirección.
// Donde la SMA lenta no está definida (warm-up) las comparaciones con NaN son
// falsas y el resultado es 0.
func DetectRegime(prices []float64, cfg RegimeConfig) []Regime {
	fast := SMA(prices, cfg.FastWindow)
	slow := SMA(prices, cfg.SlowWindow)
	dist := distance(prices, slow)
	absDist := Abs(dist)
	prevAbs := Shift(absDist, cfg.ShrinkLookback)

	out := make([]Regime, len(prices))
	for i, p := range prices {
		near := absDist[i] <= cfg.Proximity
		shrinking := absDist[i] < prevAbs[i]
		exit := near && shrinking

		switch {
		case p > slow[i] && fast[i] >= slow[i] && !exit:
			out[i] = RegimeUp
		case p < slow[i] && fast[i] <= slow[i] && !exit:
			out[i] = RegimeDown
		default:
			out[i] = RegimeFlat
		}
	}
	return out
}

// RegimeSignals convierte la serie de régimen a float para el backtest vectorizado.
func RegimeSignals(regimes []Regime) []float64 {
	out := make([]float64, len(regimes))
	for i, r := range regimes {
		out[i] = float64(r)
	}
	return out
}

// distance calcula (price - sma) / sma; NaN donde la SMA no está definida.
func distance(prices, sma []float64) []float64 {
	out := make([]float64, len(prices))
	for i := range prices {
		out[i] = (prices[i] - sma[i]) / sma[i]
	}
	return out
}
