// Package report renders solved cases as terminal tables. It implements
// the pipeline's Reporter contract, so a solve can print its own summary
// when the caller asks for one.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/voltlab/gridopt/pkg/opf"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - headings
	colorGreen = lipgloss.Color("35")  // Green - success
	colorRed   = lipgloss.Color("167") // Soft red - failures
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - borders
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailure = lipgloss.NewStyle().Foreground(colorRed)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)
)

// TableReporter writes solve summaries as styled tables.
type TableReporter struct {
	w io.Writer

	// ShowBranches includes the branch flow table (off by default; large
	// cases produce long tables).
	ShowBranches bool
}

// NewTableReporter creates a reporter writing to w.
func NewTableReporter(w io.Writer) *TableReporter {
	return &TableReporter{w: w}
}

// Report implements opf.Reporter.
func (t *TableReporter) Report(res *opf.Result) error {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Solve Summary"))
	b.WriteString("\n")
	b.WriteString(t.summaryTable(res))
	b.WriteString("\n\n")

	b.WriteString(styleTitle.Render("Generator Dispatch"))
	b.WriteString("\n")
	b.WriteString(t.dispatchTable(res))
	b.WriteString("\n")

	if t.ShowBranches && len(res.Case.Branches) > 0 {
		b.WriteString("\n")
		b.WriteString(styleTitle.Render("Branch Flows"))
		b.WriteString("\n")
		b.WriteString(t.branchTable(res))
		b.WriteString("\n")
	}

	_, err := fmt.Fprintln(t.w, b.String())
	return err
}

func (t *TableReporter) summaryTable(res *opf.Result) string {
	status := styleSuccess.Render("converged")
	if !res.Success {
		status = styleFailure.Render(fmt.Sprintf("failed (status %d)", res.Status))
	}

	rows := [][]string{
		{"Status", status},
		{"Objective", fmt.Sprintf("%.2f $/h", res.Objective)},
		{"Algorithm", fmt.Sprintf("%d (%s via %s)", res.Algorithm, res.Formulation, res.Backend)},
		{"Iterations", fmt.Sprintf("%d", res.Iterations)},
		{"Elapsed", fmt.Sprintf("%.4f s", res.Seconds())},
	}
	if res.CacheHit {
		rows = append(rows, []string{"Cache", "hit"})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return styleHeader
			}
			return styleValue
		}).
		Render()
}

func (t *TableReporter) dispatchTable(res *opf.Result) string {
	rows := make([][]string, 0, len(res.Case.Gens))
	for _, g := range res.Case.Gens {
		state := "on"
		if !g.Active() {
			state = "off"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", g.Bus),
			state,
			fmt.Sprintf("%.2f", g.PG),
			fmt.Sprintf("%.2f", g.QG),
			fmt.Sprintf("%.0f / %.0f", g.PMin, g.PMax),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Bus", "Unit", "Pg (MW)", "Qg (MVAr)", "Pmin / Pmax").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return styleValue
		}).
		Render()
}

func (t *TableReporter) branchTable(res *opf.Result) string {
	rows := make([][]string, 0, len(res.Case.Branches))
	for _, br := range res.Case.Branches {
		rows = append(rows, []string{
			fmt.Sprintf("%d→%d", br.From, br.To),
			fmt.Sprintf("%.2f", br.PF),
			fmt.Sprintf("%.2f", br.PT),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Branch", "From (MW)", "To (MW)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return styleValue
		}).
		Render()
}

// Ensure TableReporter implements the pipeline contract.
var _ opf.Reporter = (*TableReporter)(nil)
