// Package report renders a dashboard overview as a plain-text page.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/simaogato/cashhealth-backend/internal/usecase/dashboard"
)

const title = "Dashboard de Saúde Financeira"

// Render writes the overview as aligned text tables
func Render(w io.Writer, ov *dashboard.Overview) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	periods := make([]string, len(ov.Periods))
	for i, p := range ov.Periods {
		periods[i] = p.String()
	}
	selection := strings.Join(periods, ", ")
	if selection == "" {
		selection = "(nenhum)"
	}

	fmt.Fprintf(tw, "%s\n", title)
	fmt.Fprintf(tw, "Meses: %s\tAvaliado em: %s\t\n\n", selection, ov.EvaluatedAt.Format("2006-01-02"))

	// KPIs
	k := ov.KPIs
	fmt.Fprintf(tw, "Saldo em Caixa\tA Receber\tA Pagar\tBurn Rate\tRunway (Meses)\t\n")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n\n",
		Money(k.CashBalance), Money(k.Receivable), Money(k.SignedPayable()), Money(k.BurnRate), k.Runway.StringFixed(1))

	section(tw, "Fluxo Mensal")
	if len(ov.Monthly) == 0 {
		fmt.Fprintf(tw, "Sem dados para o período.\n")
	} else {
		fmt.Fprintf(tw, "Mês\tTipo\tValor\t\n")
		for _, m := range ov.Monthly {
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", m.Period, m.Direction.Label(), Money(m.Total))
		}
	}
	fmt.Fprintln(tw)

	section(tw, "Projeção de Caixa")
	if ov.Projection.Len() == 0 {
		fmt.Fprintf(tw, "Sem dados para o período.\n")
	} else {
		fmt.Fprintf(tw, "Data\tSaldo Acumulado\tSaldo Simulado\t\n")
		p := ov.Projection
		for i := range p.Dates {
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", p.Dates[i].Format("2006-01-02"), Money(p.Cumulative[i]), Money(p.Simulated[i]))
		}
	}
	fmt.Fprintln(tw)

	section(tw, "Composição de Custos")
	if len(ov.OutflowCategories) == 0 {
		fmt.Fprintf(tw, "Sem saídas no período.\n")
	} else {
		fmt.Fprintf(tw, "Categoria\tValor\t%%\t\n")
		for _, c := range ov.OutflowCategories {
			fmt.Fprintf(tw, "%s\t%s\t%s%%\t\n", c.Category, Money(c.Total), c.Share.StringFixed(1))
		}
	}
	fmt.Fprintln(tw)

	section(tw, "Entradas Pendentes / Inadimplência")
	if len(ov.PendingInflows) == 0 {
		fmt.Fprintf(tw, "Nenhuma pendência encontrada!\n")
	} else {
		fmt.Fprintf(tw, "Data\tDescrição\tValor\tForma_Pagamento\t\n")
		for _, tx := range ov.PendingInflows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", tx.Date.Format("2006-01-02"), tx.Description, Money(tx.Amount), tx.PaymentMethod)
		}
	}

	return tw.Flush()
}

func section(w io.Writer, name string) {
	fmt.Fprintf(w, "%s\n%s\n", name, strings.Repeat("-", len([]rune(name))))
}

// Money formats an amount as "R$ 1,234.56"; negatives read "R$ -1,234.56"
func Money(d decimal.Decimal) string {
	rounded := d.Abs().Round(2)
	_, frac, _ := strings.Cut(rounded.StringFixed(2), ".")

	sign := ""
	if d.IsNegative() && !rounded.IsZero() {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s.%s", sign, humanize.Comma(rounded.IntPart()), frac)
}
