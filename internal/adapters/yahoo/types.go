package yahoo

// DTOs raw del endpoint /v8/finance/chart. Solo se usan dentro de este paquete.
// La conversión a domain se hace en mapping.go.

// chartResponse es el sobre de la respuesta.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

// chartError viene relleno cuando el símbolo o el rango no son válidos.
type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta       chartMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators chartIndicators `json:"indicators"`
}

type chartMeta struct {
	Symbol    string `json:"symbol"`
	Currency  string `json:"currency"`
	GMTOffset int64  `json:"gmtoffset"`
	Timezone  string `json:"exchangeTimezoneName"`
}

// Los precios son punteros: Yahoo devuelve null en días sin cotización.
type chartIndicators struct {
	Quote []struct {
		Close []*float64 `json:"close"`
	} `json:"quote"`
	AdjClose []struct {
		AdjClose []*float64 `json:"adjclose"`
	} `json:"adjclose"`
}
