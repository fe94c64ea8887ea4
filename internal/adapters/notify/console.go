package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/levswing/internal/application/engine"
	"github.com/alejandrodnm/levswing/internal/domain"
)

// Console implementa ports.Reporter.
type Console struct {
	out io.Writer
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintStats imprime el resumen de la ejecución.
func (c *Console) PrintStats(mode string, initialCash float64, res engine.Result) error {
	fmt.Fprintf(c.out, "Backtest complete (%s).\n", mode)
	if len(res.Equity) > 0 {
		fmt.Fprintf(c.out, "Period: %s → %s (%d days)\n",
			res.Equity[0].Date.Format("2006-01-02"),
			res.Equity[len(res.Equity)-1].Date.Format("2006-01-02"),
			len(res.Equity))
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Stat", "Value")
	table.Append("Initial cash", money(initialCash))
	table.Append("Final equity", money(res.Stats.FinalEquity))
	table.Append("Total return", pct(engine.TotalReturn(res.Stats, initialCash)))
	table.Append("CAGR", pct(res.Stats.CAGR))
	table.Append("Max drawdown", pct(res.Stats.MaxDrawdown))
	if mode != "baseline" {
		table.Append("Trades", fmt.Sprintf("%d", res.Stats.Trades))
	}
	table.Render()
	return nil
}

// PrintTrades imprime las últimas limit operaciones; limit <= 0 las imprime todas.
func (c *Console) PrintTrades(trades []domain.TradeRecord, limit int) error {
	if len(trades) == 0 {
		fmt.Fprintln(c.out, "No trades.")
		return nil
	}
	if limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}

	fmt.Fprintf(c.out, "\nRecent trades (%d):\n", len(trades))
	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Action", "Qty", "Px", "Cash")
	for _, t := range trades {
		table.Append(
			t.Date.Format("2006-01-02"),
			t.Action(),
			decimal.NewFromFloat(t.Qty).StringFixed(4),
			money(t.Price),
			money(t.Cash),
		)
	}
	table.Render()
	return nil
}

// PrintRuns imprime el histórico de ejecuciones guardadas.
func (c *Console) PrintRuns(runs []domain.RunRecord) error {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "No saved runs.")
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Created", "ID", "Mode", "Window", "Final", "CAGR", "MaxDD", "Trades", "Short")
	for _, r := range runs {
		short := "no"
		if r.Params.AllowShort {
			short = "yes"
		}
		table.Append(
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			shortID(r.ID),
			r.Mode,
			fmt.Sprintf("%s → %s", r.FirstDate.Format("2006-01-02"), r.LastDate.Format("2006-01-02")),
			money(r.Stats.FinalEquity),
			pct(r.Stats.CAGR),
			pct(r.Stats.MaxDrawdown),
			fmt.Sprintf("%d", r.Stats.Trades),
			short,
		)
	}
	table.Render()
	return nil
}

// --- formato ---

// money redondea a céntimos en decimal para evitar artefactos de float en pantalla.
func money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

func pct(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
