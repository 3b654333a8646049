package risk

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table renders the report as a two-column "Trade Information" table. The
// output is plain monospace text, ready to be wrapped in a <pre> block for
// chat delivery.
func (r *Report) Table() string {
	t := table.NewWriter()
	t.SetTitle("Trade Information")
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})

	t.AppendRows([]table.Row{
		{string(r.Intent.OrderType), r.Intent.Symbol},
		{"Entry", fmt.Sprintf("%g", r.Intent.Entry.Price)},
		{"Stop Loss", fmt.Sprintf("%d pips", r.StopLossPips)},
	})
	for i, pips := range r.TakeProfitPips {
		t.AppendRow(table.Row{fmt.Sprintf("TP %d", i+1), fmt.Sprintf("%d pips", pips)})
	}

	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Risk Factor", fmt.Sprintf("%.0f %%", r.Intent.RiskFraction*100)},
		{"Position Size", fmt.Sprintf("%.2f", r.PositionSize)},
	})

	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Current Balance", fmt.Sprintf("$ %.2f", r.Balance)},
		{"Potential Loss", fmt.Sprintf("$ %.2f", r.ProjectedLoss)},
	})
	for i, profit := range r.LegProfits {
		t.AppendRow(table.Row{fmt.Sprintf("TP %d Profit", i+1), fmt.Sprintf("$ %.2f", profit)})
	}
	t.AppendRow(table.Row{"Total Profit", fmt.Sprintf("$ %.2f", r.TotalProfit)})

	return t.Render()
}
