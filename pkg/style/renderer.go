// Package style renders cablekit output for the terminal.
package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/cdpr-lab/cablekit/pkg/dynamics"
)

// ModelInfo is one row of the model listing.
type ModelInfo struct {
	Name        string
	Description string
	DOF         int
	Cables      int
}

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		pterm.DisableColor()
	}
}

// RenderModelList renders the registered models as a table.
func RenderModelList(models []ModelInfo) string {
	if len(models) == 0 {
		return pterm.ThemeDefault.SecondaryStyle.Sprint("No models registered") + "\n"
	}

	data := pterm.TableData{{"NAME", "DOF", "CABLES", "DESCRIPTION"}}
	for _, m := range models {
		data = append(data, []string{
			m.Name,
			fmt.Sprintf("%d", m.DOF),
			fmt.Sprintf("%d", m.Cables),
			m.Description,
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		// Srender only fails on malformed tables; fall back to names.
		var b strings.Builder
		for _, m := range models {
			fmt.Fprintf(&b, "%s\n", m.Name)
		}
		return b.String()
	}
	return out + "\n"
}

// RenderEval renders the five evaluated dynamics terms of a model.
func RenderEval(m dynamics.Model, b *dynamics.Buffers) string {
	var out strings.Builder

	title := pterm.ThemeDefault.PrimaryStyle.Sprintf("%s (%d DOF, %d cables)", m.Name(), m.DOF(), m.CableCount())
	out.WriteString(title + "\n\n")

	writeVector(&out, "Cable lengths", b.Lengths)
	writeMatrix(&out, "Mass matrix", b.Mass, m.DOF(), m.DOF())
	writeVector(&out, "Coriolis vector", b.Coriolis)
	writeVector(&out, "Gravity vector", b.Gravity)
	writeMatrix(&out, "Jacobian", b.Jacobian, m.CableCount(), m.DOF())

	return out.String()
}

func writeVector(out *strings.Builder, label string, v []float64) {
	fmt.Fprintf(out, "%s\n  %s\n", pterm.Bold.Sprint(label), FormatVector(v))
}

func writeMatrix(out *strings.Builder, label string, flat []float64, rows, cols int) {
	fmt.Fprintf(out, "%s\n", pterm.Bold.Sprint(label))
	for r := 0; r < rows; r++ {
		fmt.Fprintf(out, "  %s\n", FormatVector(flat[r*cols:(r+1)*cols]))
	}
}

// FormatVector formats a float64 slice as a bracketed row.
func FormatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.6g", x)
	}
	return "[" + strings.Join(parts, "  ") + "]"
}
