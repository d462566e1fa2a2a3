package plot

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/okuno/cellsim/internal/cell"
)

const (
	defaultWidth  = 80
	defaultHeight = 12
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	legendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Captions for the common output variables.
var captions = map[string]string{
	"voltage":     "terminal voltage [V]",
	"current":     "current [A]",
	"power":       "power [W]",
	"temperature": "cell temperature [K]",
	"c_surf_n":    "negative surface concentration [mol/m3]",
	"c_surf_p":    "positive surface concentration [mol/m3]",
	"ce_n":        "electrolyte concentration, negative [mol/m3]",
	"ce_s":        "electrolyte concentration, separator [mol/m3]",
	"ce_p":        "electrolyte concentration, positive [mol/m3]",
	"eta_n":       "negative overpotential [V]",
	"eta_p":       "positive overpotential [V]",
	"phi_e_loss":  "electrolyte potential drop [V]",
	"l_sei":       "sei thickness [m]",
	"eps_n":       "negative electrode porosity",
	"l_cr_n":      "negative crack length [m]",
	"l_cr_p":      "positive crack length [m]",
	"sigma_cr_n":  "negative surface stress [Pa]",
	"sigma_cr_p":  "positive surface stress [Pa]",
}

func Caption(name string) string {
	if c, ok := captions[name]; ok {
		return c
	}
	return name
}

// Solution renders one recorded output series against time.
func Solution(sol *cell.Solution, name string) (string, error) {
	data, ok := sol.Series(name)
	if !ok {
		return "", fmt.Errorf("%w: %q (recorded: %d series)", cell.ErrUnknownVariable, name, len(sol.Outputs))
	}
	return Series(data, Caption(name)), nil
}

// Series renders a single series with a styled caption.
func Series(data []float64, caption string) string {
	graph := asciigraph.Plot(data,
		asciigraph.Height(defaultHeight),
		asciigraph.Width(defaultWidth),
	)
	return graph + "\n" + captionStyle.Render(caption)
}

// Compare renders several series on one canvas with a legend.
func Compare(series [][]float64, labels []string, caption string) string {
	graph := asciigraph.PlotMany(series,
		asciigraph.Height(defaultHeight),
		asciigraph.Width(defaultWidth),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow),
	)

	var legend strings.Builder
	for i, label := range labels {
		if i > 0 {
			legend.WriteString("   ")
		}
		legend.WriteString(legendStyle.Render(fmt.Sprintf("[%d] %s", i, label)))
	}
	return graph + "\n" + captionStyle.Render(caption) + "\n" + legend.String()
}

// Header renders a run title line.
func Header(text string) string {
	return headerStyle.Render(text)
}
