package presentation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/hyperterse/covidcol/core/domain"
)

const (
	menuWidth   = 60
	resultWidth = 80
	ellipsis    = "..."
)

// RenderOptions configures a single RenderTable call.
type RenderOptions struct {
	// MaxColWidth caps every cell; longer values are cut and end in "...".
	// Zero disables the cap.
	MaxColWidth int
	// ShowIndex prepends a 0-based row number column.
	ShowIndex bool
	// Border draws the table grid. The zero value means lipgloss.NormalBorder.
	Border lipgloss.Border
}

// DefaultRenderOptions returns the options used by the interactive session.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		MaxColWidth: 25,
		ShowIndex:   true,
		Border:      lipgloss.NormalBorder(),
	}
}

// RenderTable writes the result banner, the row and column summary and every
// row of t. A nil or empty table only gets the no-data notice.
func RenderTable(w io.Writer, t *domain.DisplayTable, opts RenderOptions) {
	if t.Len() == 0 {
		fmt.Fprintln(w, "\n No se encontraron datos para mostrar")
		fmt.Fprintln(w, "   Verifique el nombre del departamento e intente nuevamente")
		return
	}

	rule := strings.Repeat("=", resultWidth)
	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, center(" RESULTADOS DE LA CONSULTA", resultWidth, " "))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, " Total de registros encontrados: %d\n", t.Len())
	fmt.Fprintf(w, " Columnas mostradas: %d\n", len(t.Columns))
	fmt.Fprintln(w, strings.Repeat("-", resultWidth))
	fmt.Fprintf(w, " Mostrando los %d registros obtenidos:\n", t.Len())

	if len(t.Columns) == 0 {
		fmt.Fprintln(w, " No se encontraron columnas esperadas en los datos")
	} else {
		fmt.Fprintln(w, buildTable(w, t, opts).Render())
	}
	fmt.Fprintln(w, rule)
}

func buildTable(w io.Writer, t *domain.DisplayTable, opts RenderOptions) *table.Table {
	r := lipgloss.NewRenderer(w)

	border := opts.Border
	if border == (lipgloss.Border{}) {
		border = lipgloss.NormalBorder()
	}

	headers := t.Headers()
	rows := t.Rows()
	if opts.ShowIndex {
		headers = append([]string{""}, headers...)
		for i, row := range rows {
			rows[i] = append([]string{strconv.Itoa(i)}, row...)
		}
	}
	for _, row := range rows {
		for j, cell := range row {
			row[j] = truncate(cell, opts.MaxColWidth)
		}
	}

	base := r.NewStyle().Padding(0, 1)
	return table.New().
		Border(border).
		BorderStyle(r.NewStyle()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return base.Bold(true)
			case opts.ShowIndex && col == 0:
				return base.Faint(true).Align(lipgloss.Right)
			}
			return base
		})
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, ellipsis)
}

// center pads s on both sides with fill up to width display cells.
func center(s string, width int, fill string) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(fill, left) + s + strings.Repeat(fill, pad-left)
}
