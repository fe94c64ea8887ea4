package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNoData se devuelve cuando no hay ni un solo día con precio para el par.
var ErrNoData = errors.New("no price data")

// Close es un precio de cierre ajustado de un símbolo en un día de trading.
type Close struct {
	Date  time.Time
	Price float64
}

// PriceTable es la tabla de cierres alineada del par bull/bear.
// Dates es estrictamente creciente y sin duplicados; NaN marca un precio ausente.
type PriceTable struct {
	Bull      string
	Bear      string
	Dates     []time.Time
	BullClose []float64
	BearClose []float64
}

// TradingDay normaliza un timestamp a la medianoche UTC de su día.
func TradingDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AlignCloses une ambos símbolos en un calendario común.
// Los días sin precio para ninguno de los dos se descartan. Si un día viene
// repetido gana el último valor.
func AlignCloses(bull, bear string, bullCloses, bearCloses []Close) PriceTable {
	type row struct{ bull, bear float64 }
	rows := make(map[time.Time]*row, len(bullCloses))

	get := func(d time.Time) *row {
		r, ok := rows[d]
		if !ok {
			r = &row{bull: math.NaN(), bear: math.NaN()}
			rows[d] = r
		}
		return r
	}
	for _, c := range bullCloses {
		if validPrice(c.Price) {
			get(TradingDay(c.Date)).bull = c.Price
		}
	}
	for _, c := range bearCloses {
		if validPrice(c.Price) {
			get(TradingDay(c.Date)).bear = c.Price
		}
	}

	dates := make([]time.Time, 0, len(rows))
	for d := range rows {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	t := PriceTable{
		Bull:      bull,
		Bear:      bear,
		Dates:     dates,
		BullClose: make([]float64, len(dates)),
		BearClose: make([]float64, len(dates)),
	}
	for i, d := range dates {
		t.BullClose[i] = rows[d].bull
		t.BearClose[i] = rows[d].bear
	}
	return t
}

// Len devuelve el número de días de la tabla.
func (t PriceTable) Len() int { return len(t.Dates) }

// IsEmpty indica si la tabla no tiene filas.
func (t PriceTable) IsEmpty() bool { return len(t.Dates) == 0 }

// BullPrice devuelve el cierre bull del día i, 0 si falta.
func (t PriceTable) BullPrice(i int) float64 { return orZero(t.BullClose[i]) }

// BearPrice devuelve el cierre bear del día i, 0 si falta.
func (t PriceTable) BearPrice(i int) float64 { return orZero(t.BearClose[i]) }

// IndexOnOrAfter devuelve la primera fila con fecha >= d (backfill).
// Devuelve Len() si todas las filas son anteriores.
func (t PriceTable) IndexOnOrAfter(d time.Time) int {
	return sort.Search(len(t.Dates), func(i int) bool { return !t.Dates[i].Before(d) })
}

// Slice devuelve las filas [from, to) compartiendo los arrays subyacentes.
func (t PriceTable) Slice(from, to int) PriceTable {
	return PriceTable{
		Bull:      t.Bull,
		Bear:      t.Bear,
		Dates:     t.Dates[from:to],
		BullClose: t.BullClose[from:to],
		BearClose: t.BearClose[from:to],
	}
}

// First y Last devuelven los extremos de la tabla; time.Time{} si está vacía.
func (t PriceTable) First() time.Time {
	if t.IsEmpty() {
		return time.Time{}
	}
	return t.Dates[0]
}

func (t PriceTable) Last() time.Time {
	if t.IsEmpty() {
		return time.Time{}
	}
	return t.Dates[len(t.Dates)-1]
}

// YearsBefore retrocede n años naturales, ajustando al último día del mes
// (29-feb menos un año es 28-feb, no 1-mar).
func YearsBefore(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	target := time.Date(y-n, m, 1, 0, 0, 0, 0, d.Location())
	last := target.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(y-n, m, day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// PeriodMax pide todo el histórico disponible.
const PeriodMax = "max"

// PeriodStart traduce un periodo ("max" o "<n>y") a la primera fecha incluida.
// "max" devuelve time.Time{}.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	if period == "" || period == PeriodMax {
		return time.Time{}, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(period, "y"))
	if !strings.HasSuffix(period, "y") || err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("domain.PeriodStart: invalid period %q", period)
	}
	return YearsBefore(TradingDay(now), n), nil
}

// FilterSince descarta los cierres anteriores a since (time.Time{} no filtra).
func FilterSince(closes []Close, since time.Time) []Close {
	if since.IsZero() {
		return closes
	}
	out := make([]Close, 0, len(closes))
	for _, c := range closes {
		if !c.Date.Before(since) {
			out = append(out, c)
		}
	}
	return out
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}

func orZero(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return p
}
