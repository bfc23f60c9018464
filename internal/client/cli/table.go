package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/libadmin/internal/client/models"
	"github.com/shopspring/decimal"
)

// table prints rows aligned under header.
func (a *App) table(header []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "(none)")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

func (a *App) section(title string) {
	fmt.Fprintf(a.out, "\n== %s ==\n", title)
}

func ref(v int64) string {
	return fmt.Sprintf("#%d", v)
}

func date(d models.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func returned(d *models.Date) string {
	if d == nil {
		return "-"
	}
	return date(*d)
}

func money(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return d.StringFixed(2)
}
