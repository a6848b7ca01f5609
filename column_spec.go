package latex

import (
	"strconv"
	"strings"
)

type ColumnSpec struct {
	BorderLeft  bool   // column should have left border
	BorderRight bool   // column should have right border
	Align       string // column alignment: c, l, r or p for paragraph columns (p, m, b, X)
}

// maxColumns limits expansion of *{n}{...} repetitions
const maxColumns = 256

// ColumnSpecs parses column spec of a tabular environment, like "|l|c|r|" or "*{3}{c}@{}p{2cm}". Insertions
// (@{...}, !{...}, >{...} and <{...}) are skipped, repetitions *{n}{...} are expanded up to 256 columns.
func ColumnSpecs(raw string) (spec []ColumnSpec) {
	raw = strings.Join(strings.Fields(raw), "") // spaces have no meaning in column spec

	for pos := 0; pos < len(raw); pos++ {
		char := raw[pos]

		switch char {
		case '|':
			if len(spec) > 0 {
				spec[len(spec)-1].BorderRight = true
			}

		case 'c', 'l', 'r', 'X':
			spec = append(spec, ColumnSpec{BorderLeft: pos > 0 && raw[pos-1] == '|', Align: align(char)})

		case 'p', 'm', 'b':
			spec = append(spec, ColumnSpec{BorderLeft: pos > 0 && raw[pos-1] == '|', Align: "p"})
			_, pos = braced(raw, pos+1)

		case '@', '!', '>', '<':
			_, pos = braced(raw, pos+1)

		case '*':
			count, end := braced(raw, pos+1)
			body, end := braced(raw, end+1)
			pos = end

			n, err := strconv.Atoi(count)
			if err != nil {
				continue
			}

			columns := ColumnSpecs(body)
			if len(columns) == 0 {
				continue
			}

			for i := 0; i < n && len(spec) < maxColumns; i++ {
				spec = append(spec, columns...)
			}
		}

		if len(spec) >= maxColumns {
			return spec[:maxColumns]
		}
	}

	return
}

func align(char byte) string {
	if char == 'X' {
		return "p"
	}

	return string(char)
}

// braced returns content of a {...} group starting at pos and offset of the closing brace
func braced(raw string, pos int) (string, int) {
	if pos >= len(raw) || raw[pos] != '{' {
		return "", pos - 1
	}

	depth := 0
	for i := pos; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[pos+1 : i], i
			}
		}
	}

	return raw[pos+1:], len(raw)
}
