package yahoo

import (
	"time"

	"github.com/alejandrodnm/levswing/internal/domain"
)

// mapCloses convierte un resultado del chart en cierres diarios.
// Prefiere el cierre ajustado y cae al cierre bruto si no viene.
func mapCloses(r chartResult) []domain.Close {
	prices := adjustedOrRaw(r.Indicators)
	out := make([]domain.Close, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(prices) || prices[i] == nil {
			continue
		}
		out = append(out, domain.Close{
			Date:  sessionDay(ts, r.Meta.GMTOffset),
			Price: *prices[i],
		})
	}
	return out
}

func adjustedOrRaw(ind chartIndicators) []*float64 {
	if len(ind.AdjClose) > 0 && len(ind.AdjClose[0].AdjClose) > 0 {
		return ind.AdjClose[0].AdjClose
	}
	if len(ind.Quote) > 0 {
		return ind.Quote[0].Close
	}
	return nil
}

// sessionDay devuelve el día de la sesión en la zona del exchange.
func sessionDay(ts, gmtOffset int64) time.Time {
	return domain.TradingDay(time.Unix(ts+gmtOffset, 0).UTC())
}
