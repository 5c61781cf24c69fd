// Package review shows extracted records and lets the user correct them in
// the terminal before anything is written.
package review

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// Totals sums a record list.
type Totals struct {
	Count  int
	Amount *money.Money
}

// Sum adds up counts and amounts. Amounts are summed as decimals and
// rounded once to the currency's minor unit.
func Sum(records []types.SalesRecord, currency string) Totals {
	fraction := 2
	if c := money.GetCurrency(currency); c != nil {
		fraction = c.Fraction
	}

	total := decimal.Zero
	count := 0
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.Amount))
		count += r.Count
	}

	minor := total.Shift(int32(fraction)).Round(0).IntPart()
	return Totals{Count: count, Amount: money.New(minor, currency)}
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// RenderTable writes the numbered record table followed by a total line.
func RenderTable(w io.Writer, records []types.SalesRecord, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "#\tHOUR\tCOUNT\tAMOUNT\t")
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t\n", i+1, r.Hour, r.Count, FormatAmount(r.Amount))
	}

	totals := Sum(records, currency)
	fmt.Fprintf(tw, "\tTOTAL\t%s\t%s\t\n", strconv.Itoa(totals.Count), totals.Amount.Display())

	return tw.Flush()
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
