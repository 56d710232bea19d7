package scheme

func (in *Interpreter) evalListExpr(n *ListExpr) (Value, error) {
	want := 1
	if n.Op == "cons" {
		want = 2
	}
	switch n.Op {
	case "car", "cdr", "null?", "cons":
	default:
		return Value{}, newError(UnrecognizedOperator, n.Pos, "unrecognized list operation '%s'", n.Op)
	}
	if len(n.Args) != want {
		return Value{}, newError(ArityMismatch, n.Pos, "%s expects %d operand(s), got %d", n.Op, want, len(n.Args))
	}
	args, err := in.evalArgs(n.Args)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case "car":
		lst := args[0]
		if lst.Kind != ValList {
			return Value{}, newError(TypeMismatch, n.Pos, "car only works on lists, got %s %s", lst.KindName(), lst)
		}
		if len(lst.Elems) == 0 {
			return NilVal(), nil
		}
		return lst.Elems[0], nil
	case "cdr":
		lst := args[0]
		if lst.Kind != ValList {
			return Value{}, newError(TypeMismatch, n.Pos, "cdr only works on lists, got %s %s", lst.KindName(), lst)
		}
		if len(lst.Elems) == 0 {
			return ListVal(nil), nil
		}
		rest := make([]Value, len(lst.Elems)-1)
		copy(rest, lst.Elems[1:])
		return ListVal(rest), nil
	case "cons":
		rest := args[1]
		if rest.Kind != ValList {
			return Value{}, newError(TypeMismatch, n.Pos, "cons expects a list as second operand, got %s %s", rest.KindName(), rest)
		}
		elems := make([]Value, len(rest.Elems)+1)
		elems[0] = args[0]
		copy(elems[1:], rest.Elems)
		return ListVal(elems), nil
	default:
		lst := args[0]
		if lst.Kind != ValList {
			return Value{}, newError(TypeMismatch, n.Pos, "null? only works on lists, got %s %s", lst.KindName(), lst)
		}
		return BoolVal(len(lst.Elems) == 0), nil
	}
}
