package scheme

import (
	"strings"
	"unicode"
)

type sexprKind int

const (
	sxAtom sexprKind = iota
	sxString
	sxList
	sxQuote
)

// sexpr is the untyped reader output. Build turns it into typed Nodes.
type sexpr struct {
	kind     sexprKind
	text     string
	pos      Pos
	children []*sexpr
}

type reader struct {
	input []rune
	off   int
	line  int
	col   int
}

// readAll reads every top-level s-expression in src.
func readAll(src string) ([]*sexpr, error) {
	r := &reader{input: []rune(src), line: 1, col: 1}
	var forms []*sexpr
	for {
		r.skipWhitespace()
		if r.off >= len(r.input) {
			return forms, nil
		}
		if r.peek() == ')' {
			return nil, r.errorf(r.pos(), "unexpected ')'")
		}
		form, err := r.readNode()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
}

func (r *reader) pos() Pos { return Pos{Line: r.line, Col: r.col} }

func (r *reader) peek() rune { return r.input[r.off] }

func (r *reader) advance() rune {
	ch := r.input[r.off]
	r.off++
	if ch == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return ch
}

func (r *reader) errorf(pos Pos, msg string) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: msg}
}

func (r *reader) incomplete(pos Pos, msg string) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: msg, Incomplete: true}
}

func (r *reader) readNode() (*sexpr, error) {
	if r.off >= len(r.input) {
		return nil, r.incomplete(r.pos(), "unexpected end of input")
	}
	switch r.peek() {
	case '\'':
		return r.readQuote()
	case '(':
		return r.readList()
	case '"':
		return r.readString()
	default:
		return r.readAtom()
	}
}

func (r *reader) readQuote() (*sexpr, error) {
	start := r.pos()
	r.advance() // skip '\''
	if r.off >= len(r.input) {
		return nil, r.incomplete(r.pos(), "unexpected end of input after quote")
	}
	if r.peek() != '(' {
		return nil, r.errorf(r.pos(), "quote must be followed by a list")
	}
	inner, err := r.readList()
	if err != nil {
		return nil, err
	}
	return &sexpr{kind: sxQuote, pos: start, children: []*sexpr{inner}}, nil
}

func (r *reader) readList() (*sexpr, error) {
	start := r.pos()
	r.advance() // skip '('
	var children []*sexpr
	for {
		r.skipWhitespace()
		if r.off >= len(r.input) {
			return nil, r.incomplete(start, "unclosed list")
		}
		if r.peek() == ')' {
			r.advance()
			return &sexpr{kind: sxList, pos: start, children: children}, nil
		}
		child, err := r.readNode()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
}

func (r *reader) readString() (*sexpr, error) {
	start := r.pos()
	r.advance() // skip opening '"'
	var buf strings.Builder
	for r.off < len(r.input) {
		ch := r.advance()
		if ch == '\\' {
			if r.off >= len(r.input) {
				return nil, r.incomplete(start, "unexpected end of input in string escape")
			}
			escPos := r.pos()
			switch esc := r.advance(); esc {
			case 'n':
				buf.WriteRune('\n')
			case 't':
				buf.WriteRune('\t')
			case '\\':
				buf.WriteRune('\\')
			case '"':
				buf.WriteRune('"')
			default:
				return nil, r.errorf(escPos, "unknown escape sequence: \\"+string(esc))
			}
			continue
		}
		if ch == '"' {
			return &sexpr{kind: sxString, pos: start, text: buf.String()}, nil
		}
		buf.WriteRune(ch)
	}
	return nil, r.incomplete(start, "unclosed string")
}

func (r *reader) readAtom() (*sexpr, error) {
	start := r.pos()
	var buf strings.Builder
	for r.off < len(r.input) && !isDelimiter(r.peek()) {
		buf.WriteRune(r.advance())
	}
	if buf.Len() == 0 {
		return nil, r.errorf(start, "unexpected character: "+string(r.peek()))
	}
	return &sexpr{kind: sxAtom, pos: start, text: buf.String()}, nil
}

func (r *reader) skipWhitespace() {
	for r.off < len(r.input) {
		ch := r.peek()
		if ch == ';' {
			for r.off < len(r.input) && r.peek() != '\n' {
				r.advance()
			}
			continue
		}
		if !unicode.IsSpace(ch) {
			break
		}
		r.advance()
	}
}

func isDelimiter(ch rune) bool {
	return unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' || ch == ';' || ch == '\''
}
