package replacement

import (
	"strconv"
	"strings"
)

type pieceKind int

const (
	pieceLiteral pieceKind = iota
	pieceGroup
	pieceNamed
	pieceMatch
	piecePrefix
	pieceSuffix
)

type piece struct {
	kind  pieceKind
	text  string
	group int
}

// Template is a parsed replacement template.
//
// Supported references:
//
//	$n, $nn    capture group n (two digits only when that group exists)
//	${n}       capture group n
//	${name}    named capture group
//	$&         the whole match
//	$`         text before the match
//	$'         text after the match
//	$$         a literal dollar sign
//
// Any other "$" is kept literally. References to groups that did not participate
// in the match, or that do not exist, expand to nothing.
type Template struct {
	pieces []piece
}

// ParseTemplate parses tmpl against a pattern with groups capture groups and the
// given subexpression names. Parsing never fails: unknown syntax is literal text.
func ParseTemplate(tmpl string, groups int, names []string) *Template {
	t := &Template{}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.pieces = append(t.pieces, piece{kind: pieceLiteral, text: lit.String()})
			lit.Reset()
		}
	}
	push := func(p piece) {
		flush()
		t.pieces = append(t.pieces, p)
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 >= len(tmpl) {
			lit.WriteByte(c)
			continue
		}

		next := tmpl[i+1]
		switch {
		case next == '$':
			lit.WriteByte('$')
			i++
		case next == '&':
			push(piece{kind: pieceMatch})
			i++
		case next == '`':
			push(piece{kind: piecePrefix})
			i++
		case next == '\'':
			push(piece{kind: pieceSuffix})
			i++
		case isDigit(next):
			n := int(next - '0')
			width := 1
			if i+2 < len(tmpl) && isDigit(tmpl[i+2]) {
				if two := n*10 + int(tmpl[i+2]-'0'); two <= groups {
					n, width = two, 2
				}
			}
			push(piece{kind: pieceGroup, group: n})
			i += width
		case next == '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end <= 0 {
				lit.WriteByte(c)
				continue
			}
			ref := tmpl[i+2 : i+2+end]
			if n, err := strconv.Atoi(ref); err == nil && n >= 0 {
				push(piece{kind: pieceGroup, group: n})
			} else {
				push(piece{kind: pieceNamed, group: indexOf(names, ref)})
			}
			i += end + 2
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return t
}

// expand appends the expansion for one match to dst. src is the whole subject and
// loc is the submatch index slice returned by the regexp package.
func (t *Template) expand(dst []byte, src string, loc []int) []byte {
	for _, p := range t.pieces {
		switch p.kind {
		case pieceLiteral:
			dst = append(dst, p.text...)
		case pieceGroup, pieceNamed:
			dst = append(dst, group(src, loc, p.group)...)
		case pieceMatch:
			dst = append(dst, src[loc[0]:loc[1]]...)
		case piecePrefix:
			dst = append(dst, src[:loc[0]]...)
		case pieceSuffix:
			dst = append(dst, src[loc[1]:]...)
		}
	}
	return dst
}

func group(src string, loc []int, n int) string {
	if n < 0 || 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return src[loc[2*n]:loc[2*n+1]]
}

func indexOf(names []string, name string) int {
	if name == "" {
		return -1
	}
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
