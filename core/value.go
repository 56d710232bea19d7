package scheme

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValNil ValueKind = iota
	ValInt
	ValReal
	ValBool
	ValText
	ValList
	ValFn
)

// Builtin is a function implemented in Go, called with eagerly evaluated arguments.
type Builtin func(args []Value) (Value, error)

// FnValue is either a user function (Params + Body) or a native one (Native != nil).
type FnValue struct {
	Name   string
	Params []string
	Body   []Node
	Native Builtin
}

func (f *FnValue) IsNative() bool { return f.Native != nil }

type Value struct {
	Kind  ValueKind
	Int   int64
	Real  float64
	Bool  bool
	Str   string
	Fn    *FnValue
	Elems []Value
}

func IntVal(n int64) Value    { return Value{Kind: ValInt, Int: n} }
func RealVal(f float64) Value { return Value{Kind: ValReal, Real: f} }
func BoolVal(b bool) Value    { return Value{Kind: ValBool, Bool: b} }
func TextVal(s string) Value  { return Value{Kind: ValText, Str: s} }
func FnVal(fn *FnValue) Value { return Value{Kind: ValFn, Fn: fn} }
func NilVal() Value           { return Value{Kind: ValNil} }
func ListVal(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: ValList, Elems: elems}
}

// IsTrue reports whether v is the canonical true value. Nothing else counts.
func (v Value) IsTrue() bool {
	return v.Kind == ValBool && v.Bool
}

func (v Value) IsNumber() bool {
	return v.Kind == ValInt || v.Kind == ValReal
}

func (v Value) asReal() float64 {
	if v.Kind == ValInt {
		return float64(v.Int)
	}
	return v.Real
}

// String renders v the way display prints it.
func (v Value) String() string {
	switch v.Kind {
	case ValInt:
		return strconv.FormatInt(v.Int, 10)
	case ValReal:
		return formatReal(v.Real)
	case ValBool:
		if v.Bool {
			return "#t"
		}
		return "#f"
	case ValText:
		return v.Str
	case ValList:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	case ValFn:
		if v.Fn.IsNative() {
			return fmt.Sprintf("<native %s>", v.Fn.Name)
		}
		return fmt.Sprintf("<fn %s(%s)>", v.Fn.Name, strings.Join(v.Fn.Params, ", "))
	case ValNil:
		return "nil"
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

// formatReal always keeps a decimal point or exponent so reals never read
// back as integers.
func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func (v Value) KindName() string {
	return v.Kind.String()
}

func (k ValueKind) String() string {
	switch k {
	case ValInt:
		return "Integer"
	case ValReal:
		return "Real"
	case ValBool:
		return "Boolean"
	case ValText:
		return "Text"
	case ValList:
		return "List"
	case ValFn:
		return "Function"
	case ValNil:
		return "Nil"
	default:
		return "Unknown"
	}
}

// ValuesEqual compares two Values for deep equality. Integers and reals
// compare numerically; functions compare by identity.
func ValuesEqual(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		if a.Kind == ValInt && b.Kind == ValInt {
			return a.Int == b.Int
		}
		return a.asReal() == b.asReal()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValBool:
		return a.Bool == b.Bool
	case ValText:
		return a.Str == b.Str
	case ValList:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !ValuesEqual(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case ValFn:
		return a.Fn == b.Fn
	case ValNil:
		return true
	}
	return false
}

// compareValues orders two values. ok is false when the pair has no ordering.
func compareValues(a, b Value) (c int, ok bool) {
	if a.IsNumber() && b.IsNumber() {
		if a.Kind == ValInt && b.Kind == ValInt {
			return cmpInt(a.Int, b.Int), true
		}
		x, y := a.asReal(), b.asReal()
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		case x == y:
			return 0, true
		}
		// NaN is unordered; treat it as not less, not greater, not equal.
		return 2, true
	}
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case ValText:
		return strings.Compare(a.Str, b.Str), true
	case ValBool:
		return cmpInt(boolRank(a.Bool), boolRank(b.Bool)), true
	case ValList:
		for i := 0; i < len(a.Elems) && i < len(b.Elems); i++ {
			c, ok := compareValues(a.Elems[i], b.Elems[i])
			if !ok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		return cmpInt(int64(len(a.Elems)), int64(len(b.Elems))), true
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolRank(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
