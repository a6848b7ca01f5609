package latex

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Row is one row of an aligned environment, like tabular or align.
type Row struct {
	Rules           []Node   // leading \hline and friends, written on their own line
	Cells           [][]Node // cell content without surrounding whitespace
	Separators      []string // raw column separators, one less than cells
	RowSeparator    string   // raw row separator, like \\ or \\[2pt], empty for the last row
	TrailingComment *Comment
}

// SplitRows splits environment content into rows on row separators and then into cells on &. A comment on
// its own line, after a row separator or at the end of content ends a row and becomes its trailing comment.
func SplitRows(content []Node) []Row {
	var rows []Row
	var row Row
	var cell []Node

	empty := func() bool {
		return len(row.Cells) == 0 && len(trim(cell)) == 0
	}

	flushCell := func() {
		row.Cells = append(row.Cells, trim(cell))
		cell = nil
	}

	flushRow := func() {
		rows = append(rows, row)
		row = Row{}
	}

	for i := 0; i < len(content); i++ {
		node := content[i]

		switch n := node.(type) {
		case *String:
			if n.Content == "&" {
				flushCell()
				row.Separators = append(row.Separators, n.Content)
				continue
			}
		case *Comment:
			// a comment in the middle of a row stays in its cell, such a row can not be aligned
			if !empty() && len(trim(content[i+1:])) > 0 {
				cell = append(cell, n)
				continue
			}

			flushCell()
			row.TrailingComment = n
			flushRow()
			continue
		}

		if isRowSeparator(node) {
			flushCell()
			row.RowSeparator = PrintRaw(node)

			// comment on the same line as the row separator
			if i+1 < len(content) {
				if c, ok := content[i+1].(*Comment); ok && c.SameLine {
					row.TrailingComment = c
					i++
				}
			}

			flushRow()
			continue
		}

		if isRule(node) && empty() {
			row.Rules = append(row.Rules, node)
			cell = nil
			continue
		}

		cell = append(cell, node)
	}

	if !empty() || len(row.Rules) > 0 || len(row.Separators) > 0 {
		flushCell()
		flushRow()
	}

	return rows
}

// CellText renders cell content on a single line, whitespace between nodes is collapsed to one space. It
// returns false if the cell can not be written on one line.
func CellText(cell []Node) (string, bool) {
	var out strings.Builder
	for _, node := range cell {
		switch node.(type) {
		case *Whitespace:
			out.WriteString(" ")
		case *Parbreak, *Comment:
			return "", false
		default:
			out.WriteString(PrintRaw(node))
		}
	}

	text := out.String()
	return text, !strings.Contains(text, "\n")
}

// Alignable reports if every cell of every row can be written on one line.
func Alignable(rows []Row) bool {
	for _, row := range rows {
		for _, cell := range row.Cells {
			if _, ok := CellText(cell); !ok {
				return false
			}
		}

		for _, rule := range row.Rules {
			if strings.Contains(PrintRaw(rule), "\n") {
				return false
			}
		}
	}

	return true
}

// ColumnWidths returns display width of the widest cell in every column, missing cells count as empty.
func ColumnWidths(rows []Row) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row.Cells {
			text, _ := CellText(cell)
			if i >= len(widths) {
				widths = append(widths, 0)
			}

			widths[i] = max(widths[i], runewidth.StringWidth(text))
		}
	}

	return widths
}

// separatorWidths returns width of the widest separator after every column
func separatorWidths(rows []Row) []int {
	var widths []int
	for _, row := range rows {
		for i, sep := range row.Separators {
			if i >= len(widths) {
				widths = append(widths, 0)
			}

			widths[i] = max(widths[i], runewidth.StringWidth(sep))
		}
	}

	return widths
}

// FormatRows renders rows as lines of text. Cells are padded so that separators with the same index start
// at the same column in every row. Cells of columns declared as right aligned in specs are padded on the left.
func FormatRows(rows []Row, specs []ColumnSpec) []string {
	widths := ColumnWidths(rows)
	seps := separatorWidths(rows)

	var lines []string
	for _, row := range rows {
		for _, rule := range row.Rules {
			lines = append(lines, PrintRaw(rule))
		}

		var line strings.Builder
		if len(row.Cells) != 1 || len(row.Separators) > 0 || len(row.Cells[0]) > 0 {
			for i, cell := range row.Cells {
				text, _ := CellText(cell)
				pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(text))

				switch {
				case i < len(specs) && specs[i].Align == "r":
					line.WriteString(pad + text)
				case i < len(row.Separators) || row.RowSeparator != "":
					// pad only if something follows on this line
					line.WriteString(text + pad)
				default:
					line.WriteString(text)
				}

				if i < len(row.Separators) {
					sep := row.Separators[i]
					line.WriteString(" " + sep + strings.Repeat(" ", seps[i]-runewidth.StringWidth(sep)) + " ")
				}
			}
		}

		if row.RowSeparator != "" {
			if line.Len() > 0 {
				line.WriteString(" ")
			}

			line.WriteString(row.RowSeparator)
		}

		if c := row.TrailingComment; c != nil {
			text := trimPadding(line.String())
			if text != "" {
				text += " "
			}

			line.Reset()
			line.WriteString(text + "%" + c.Content)
		}

		// a row which only had rules
		if line.Len() == 0 && len(row.Rules) > 0 {
			continue
		}

		lines = append(lines, line.String())
	}

	return lines
}

// trimPadding removes trailing spaces of a line, a control space is kept
func trimPadding(line string) string {
	trimmed := strings.TrimRight(line, " ")
	if len(trimmed) == len(line) {
		return line
	}

	slashes := len(trimmed) - len(strings.TrimRight(trimmed, "\\"))
	if slashes%2 == 1 {
		return trimmed + " "
	}

	return trimmed
}
