package latex

import (
	"fmt"
	"strings"
)

type ArgKind int

const (
	MandatoryArg ArgKind = iota // m: {...} or a single token
	OptionalArg                 // o, O{default}: [...]
	StarArg                     // s: optional *
)

// ArgSpec describes one argument in a macro signature.
type ArgSpec struct {
	Kind  ArgKind
	Open  string
	Close string
}

// ParseSignature parses a signature string, for example "s o m" or "som". Supported letters are m (mandatory
// argument), o (optional argument in brackets), O{default} (same as o) and s (optional star).
func ParseSignature(signature string) ([]ArgSpec, error) {
	var specs []ArgSpec

	for pos := 0; pos < len(signature); pos++ {
		switch signature[pos] {
		case ' ', '\t', '\n':
			continue
		case 'm':
			specs = append(specs, ArgSpec{Kind: MandatoryArg, Open: "{", Close: "}"})
		case 'o':
			specs = append(specs, ArgSpec{Kind: OptionalArg, Open: "[", Close: "]"})
		case 's':
			specs = append(specs, ArgSpec{Kind: StarArg})
		case 'O':
			if pos+1 >= len(signature) || signature[pos+1] != '{' {
				return nil, fmt.Errorf("signature %q: O must be followed by {default}", signature)
			}

			end := strings.IndexByte(signature[pos:], '}')
			if end < 0 {
				return nil, fmt.Errorf("signature %q: default value of O is not closed", signature)
			}

			specs = append(specs, ArgSpec{Kind: OptionalArg, Open: "[", Close: "]"})
			pos += end
		default:
			return nil, fmt.Errorf("signature %q: unsupported argument type %q", signature, signature[pos])
		}
	}

	return specs, nil
}
