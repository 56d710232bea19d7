package scheme

import "strings"

// DefaultNatives returns the native functions every interpreter starts with.
func DefaultNatives() map[string]Builtin {
	return map[string]Builtin{
		"list":          nativeList,
		"length":        nativeLength,
		"append":        nativeAppend,
		"abs":           nativeAbs,
		"string-append": nativeStringAppend,
	}
}

func nativeList(args []Value) (Value, error) {
	elems := make([]Value, len(args))
	copy(elems, args)
	return ListVal(elems), nil
}

func nativeLength(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, newError(ArityMismatch, Pos{}, "length: expected 1 arg, got %d", len(args))
	}
	switch args[0].Kind {
	case ValList:
		return IntVal(int64(len(args[0].Elems))), nil
	case ValText:
		return IntVal(int64(len([]rune(args[0].Str)))), nil
	}
	return Value{}, newError(TypeMismatch, Pos{}, "length: expected List or Text, got %s", args[0].KindName())
}

func nativeAppend(args []Value) (Value, error) {
	var elems []Value
	for i, a := range args {
		if a.Kind != ValList {
			return Value{}, newError(TypeMismatch, Pos{}, "append: arg %d must be List, got %s", i+1, a.KindName())
		}
		elems = append(elems, a.Elems...)
	}
	return ListVal(elems), nil
}

func nativeAbs(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, newError(ArityMismatch, Pos{}, "abs: expected 1 arg, got %d", len(args))
	}
	switch a := args[0]; a.Kind {
	case ValInt:
		if a.Int < 0 {
			return IntVal(-a.Int), nil
		}
		return a, nil
	case ValReal:
		if a.Real < 0 {
			return RealVal(-a.Real), nil
		}
		return a, nil
	}
	return Value{}, newError(TypeMismatch, Pos{}, "abs: expected number, got %s", args[0].KindName())
}

func nativeStringAppend(args []Value) (Value, error) {
	var b strings.Builder
	for i, a := range args {
		if a.Kind != ValText {
			return Value{}, newError(TypeMismatch, Pos{}, "string-append: arg %d must be Text, got %s", i+1, a.KindName())
		}
		b.WriteString(a.Str)
	}
	return TextVal(b.String()), nil
}
