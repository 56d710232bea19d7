package scheme

import (
	"errors"
	"math"
	"testing"
)

func TestValueString(t *testing.T) {
	for _, tc := range []struct {
		val      Value
		expected string
	}{
		{IntVal(-3), "-3"},
		{RealVal(2), "2.0"},
		{RealVal(0.1), "0.1"},
		{RealVal(1e20), "1e+20"},
		{RealVal(1e-7), "1e-07"},
		{RealVal(math.Inf(1)), "inf"},
		{RealVal(math.NaN()), "nan"},
		{BoolVal(true), "#t"},
		{BoolVal(false), "#f"},
		{TextVal("plain"), "plain"},
		{NilVal(), "nil"},
		{ListVal(nil), "()"},
		{ListVal([]Value{IntVal(1), ListVal([]Value{TextVal("a"), BoolVal(false)})}), "(1 (a #f))"},
		{FnVal(&FnValue{Name: "f", Params: []string{"a", "b"}}), "<fn f(a, b)>"},
		{FnVal(&FnValue{Name: "abs", Native: nativeAbs}), "<native abs>"},
	} {
		if got := tc.val.String(); got != tc.expected {
			t.Fatalf("expected %q, got %q", tc.expected, got)
		}
	}
}

func TestValuesEqual(t *testing.T) {
	fn := &FnValue{Name: "f"}
	for _, tc := range []struct {
		a, b  Value
		equal bool
	}{
		{IntVal(1), IntVal(1), true},
		{IntVal(1), RealVal(1), true},
		{IntVal(1), TextVal("1"), false},
		{BoolVal(true), BoolVal(true), true},
		{BoolVal(true), IntVal(1), false},
		{NilVal(), NilVal(), true},
		{NilVal(), ListVal(nil), false},
		{ListVal([]Value{IntVal(1)}), ListVal([]Value{RealVal(1)}), true},
		{ListVal([]Value{IntVal(1)}), ListVal([]Value{IntVal(1), IntVal(2)}), false},
		{FnVal(fn), FnVal(fn), true},
		{FnVal(fn), FnVal(&FnValue{Name: "f"}), false},
	} {
		if got := ValuesEqual(tc.a, tc.b); got != tc.equal {
			t.Fatalf("ValuesEqual(%s, %s): expected %v, got %v", tc.a, tc.b, tc.equal, got)
		}
	}
}

func TestIsTrue(t *testing.T) {
	if !BoolVal(true).IsTrue() {
		t.Fatal("#t should be true")
	}
	for _, v := range []Value{BoolVal(false), IntVal(1), TextVal("#t"), ListVal(nil), NilVal()} {
		if v.IsTrue() {
			t.Fatalf("%s %s should not be true", v.KindName(), v)
		}
	}
}

func TestEnvLookupBind(t *testing.T) {
	env := NewEnv()
	if _, err := env.Lookup("x"); !errors.Is(err, &EvalError{Kind: UnboundName}) {
		t.Fatalf("expected unbound name, got %v", err)
	}
	env.Bind("x", IntVal(1))
	env.Bind("x", IntVal(2))
	v, err := env.Lookup("x")
	if err != nil || !ValuesEqual(v, IntVal(2)) {
		t.Fatalf("expected 2, got %s (%v)", v, err)
	}
}

func TestEnvFork(t *testing.T) {
	global := NewEnv()
	global.Bind("x", IntVal(1))
	global.Bind("y", IntVal(2))

	fork := global.Fork(map[string]Value{"x": IntVal(10), "z": IntVal(30)})
	for name, expected := range map[string]int64{"x": 10, "y": 2, "z": 30} {
		v, err := fork.Lookup(name)
		if err != nil || v.Int != expected {
			t.Fatalf("fork %s: expected %d, got %s (%v)", name, expected, v, err)
		}
	}

	// global is untouched
	if v, _ := global.Lookup("x"); v.Int != 1 {
		t.Fatalf("global x changed to %s", v)
	}
	if _, err := global.Lookup("z"); err == nil {
		t.Fatal("z leaked into global")
	}

	// later global bindings are visible through the fork
	global.Bind("w", IntVal(4))
	if v, err := fork.Lookup("w"); err != nil || v.Int != 4 {
		t.Fatalf("expected w=4 through fork, got %s (%v)", v, err)
	}
	if fork.Root() != global {
		t.Fatal("fork root should be global")
	}
}

func TestEnvForkDoesNotAliasExtra(t *testing.T) {
	extra := map[string]Value{"a": IntVal(1)}
	fork := NewEnv().Fork(extra)
	extra["a"] = IntVal(2)
	if v, _ := fork.Lookup("a"); v.Int != 1 {
		t.Fatalf("fork aliased its bindings map: a=%s", v)
	}
}

func TestEnvNames(t *testing.T) {
	env := NewEnv()
	env.Bind("b", IntVal(1))
	fork := env.Fork(map[string]Value{"a": IntVal(2), "b": IntVal(3)})
	names := fork.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("expected [a b], got %v", names)
	}
}

func TestParseInput(t *testing.T) {
	for _, tc := range []struct {
		line     string
		expected Value
	}{
		{"7", IntVal(7)},
		{"1.", RealVal(1)},
		{".5", RealVal(0.5)},
		{"1.2.3", TextVal("1.2.3")},
		{"99999999999999999999", RealVal(1e20)},
		{`""`, TextVal("")},
		{"", TextVal("")},
		{"'(  )", ListVal(nil)},
		{"'(a)", ListVal([]Value{TextVal("a")})},
		{"(1 2)", TextVal("(1 2)")},
	} {
		got := ParseInput(tc.line)
		if got.Kind != tc.expected.Kind || !ValuesEqual(got, tc.expected) {
			t.Fatalf("ParseInput(%q): expected %s %s, got %s %s", tc.line, tc.expected.KindName(), tc.expected, got.KindName(), got)
		}
	}
}
