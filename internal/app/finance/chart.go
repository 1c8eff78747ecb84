package finance

import (
	"errors"
	"fmt"

	"github.com/vicanso/go-charts/v2"
)

// ErrNothingToPlot is returned when a report carries no cash-flow periods.
var ErrNothingToPlot = errors.New("report has no cash-flow periods to plot")

// RenderChart draws the net monthly flow and the cumulative position as two
// lines and returns the encoded image bytes.
func RenderChart(rep Report) ([]byte, error) {
	if len(rep.MonthlyCashFlow) == 0 {
		return nil, ErrNothingToPlot
	}

	net := make([]float64, len(rep.MonthlyCashFlow))
	cum := make([]float64, len(rep.MonthlyCashFlow))
	for i, p := range rep.MonthlyCashFlow {
		net[i] = p.Amount.InexactFloat64()
		cum[i] = p.Cumulative.InexactFloat64()
	}

	title := fmt.Sprintf("Flujo de caja %s → %s", rep.Start, rep.End)
	painter, err := charts.LineRender([][]float64{net, cum},
		charts.TitleTextOptionFunc(title, string(rep.Status)),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: rep.Labels(), BoundaryGap: charts.FalseFlag()}),
		charts.LegendOptionFunc(charts.LegendOption{Data: []string{"Flujo", "Acumulado"}}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("render cash-flow chart: %w", err)
	}
	return painter.Bytes()
}
