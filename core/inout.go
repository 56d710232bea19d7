package scheme

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// LineReader supplies one line of input per read, without its line break.
type LineReader interface {
	ReadLine() (string, error)
}

type bufLineReader struct {
	r *bufio.Reader
}

// NewLineReader reads lines from r. A final line without a line break is
// still returned; io.EOF comes only once nothing is left.
func NewLineReader(r io.Reader) LineReader {
	return &bufLineReader{r: bufio.NewReader(r)}
}

func (b *bufLineReader) ReadLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (in *Interpreter) evalInOut(n *InOut) (Value, error) {
	switch n.Op {
	case "display":
		val, err := in.Eval(n.Arg)
		if err != nil {
			return Value{}, err
		}
		if _, err := io.WriteString(in.out, val.String()); err != nil {
			return Value{}, newError(IOFailure, n.Pos, "display: %v", err)
		}
		return val, nil
	case "newline":
		if _, err := io.WriteString(in.out, "\n"); err != nil {
			return Value{}, newError(IOFailure, n.Pos, "newline: %v", err)
		}
		return NilVal(), nil
	case "read":
		line, err := in.in.ReadLine()
		if errors.Is(err, io.EOF) {
			return Value{}, newError(IOFailure, n.Pos, "read: end of input")
		}
		if err != nil {
			return Value{}, newError(IOFailure, n.Pos, "read: %v", err)
		}
		return ParseInput(line), nil
	}
	return Value{}, newError(UnrecognizedOperator, n.Pos, "unrecognized i/o operation '%s'", n.Op)
}

// ParseInput converts one line typed at a read prompt into a Value. A line
// of the form '(a b c) becomes a List of whitespace separated tokens;
// anything else is converted as a single token.
func ParseInput(line string) Value {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "'(") && strings.HasSuffix(s, ")") {
		fields := strings.Fields(s[2 : len(s)-1])
		elems := make([]Value, len(fields))
		for i, f := range fields {
			elems[i] = parseToken(f)
		}
		return ListVal(elems)
	}
	return parseToken(s)
}

// parseToken tries Integer (all digits), then Real (digits with one
// decimal point), then Boolean, and falls back to Text with surrounding
// quotes removed.
func parseToken(tok string) Value {
	if isDigits(tok) {
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return IntVal(n)
		}
		// Too wide for an Integer.
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return RealVal(f)
		}
	}
	if strings.Count(tok, ".") == 1 && isDigits(strings.Replace(tok, ".", "", 1)) {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return RealVal(f)
		}
	}
	switch tok {
	case "#t":
		return BoolVal(true)
	case "#f":
		return BoolVal(false)
	}
	return TextVal(strings.Trim(tok, `"`))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
