package scheme

import "math"

func isComparison(op string) bool {
	switch op {
	case "=", "<", ">", "<=", ">=", "<>":
		return true
	}
	return false
}

func isArithmetic(op string) bool {
	switch op {
	case "+", "-", "*", "/", "mod":
		return true
	}
	return false
}

// evalOperator handles the binary arithmetic and comparison operators.
func (in *Interpreter) evalOperator(pos Pos, op string, argNodes []Node) (Value, error) {
	if !isArithmetic(op) && !isComparison(op) {
		return Value{}, newError(UnrecognizedOperator, pos, "unrecognized operator '%s'", op)
	}
	if len(argNodes) != 2 {
		return Value{}, newError(ArityMismatch, pos, "operator '%s' expects 2 operands, got %d", op, len(argNodes))
	}
	args, err := in.evalArgs(argNodes)
	if err != nil {
		return Value{}, err
	}
	val, err := binary(op, args[0], args[1])
	if err != nil {
		return Value{}, at(err, pos)
	}
	return val, nil
}

// evalLogical evaluates both operands of and/or before combining them.
func (in *Interpreter) evalLogical(n *LogicalExpr) (Value, error) {
	switch n.Op {
	case "not":
		if len(n.Args) != 1 {
			return Value{}, newError(ArityMismatch, n.Pos, "'not' expects 1 operand, got %d", len(n.Args))
		}
		v, err := in.Eval(n.Args[0])
		if err != nil {
			return Value{}, err
		}
		return BoolVal(v.Kind == ValBool && !v.Bool), nil
	case "and", "or":
		if len(n.Args) != 2 {
			return Value{}, newError(ArityMismatch, n.Pos, "'%s' expects 2 operands, got %d", n.Op, len(n.Args))
		}
		args, err := in.evalArgs(n.Args)
		if err != nil {
			return Value{}, err
		}
		if n.Op == "and" {
			return BoolVal(args[0].IsTrue() && args[1].IsTrue()), nil
		}
		return BoolVal(args[0].IsTrue() || args[1].IsTrue()), nil
	}
	if isComparison(n.Op) {
		return in.evalOperator(n.Pos, n.Op, n.Args)
	}
	return Value{}, newError(UnrecognizedOperator, n.Pos, "unrecognized logical operator '%s'", n.Op)
}

func binary(op string, a, b Value) (Value, error) {
	switch op {
	case "=":
		return BoolVal(ValuesEqual(a, b)), nil
	case "<>":
		return BoolVal(!ValuesEqual(a, b)), nil
	case "<", ">", "<=", ">=":
		c, ok := compareValues(a, b)
		if !ok {
			return Value{}, newError(TypeMismatch, Pos{}, "cannot compare %s with %s", a.KindName(), b.KindName())
		}
		switch op {
		case "<":
			return BoolVal(c == -1), nil
		case ">":
			return BoolVal(c == 1), nil
		case "<=":
			return BoolVal(c == -1 || c == 0), nil
		default:
			return BoolVal(c == 1 || c == 0), nil
		}
	case "+":
		if a.Kind == ValText && b.Kind == ValText {
			return TextVal(a.Str + b.Str), nil
		}
		if a.Kind == ValList && b.Kind == ValList {
			elems := make([]Value, 0, len(a.Elems)+len(b.Elems))
			elems = append(elems, a.Elems...)
			return ListVal(append(elems, b.Elems...)), nil
		}
	}
	return arithmetic(op, a, b)
}

// arithmetic promotes to Real when either operand is Real. Integer / and
// mod round toward negative infinity, so (= a (+ (* (/ a b) b) (mod a b))).
func arithmetic(op string, a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, newError(TypeMismatch, Pos{}, "operator '%s' expects numbers, got %s and %s",
			op, a.KindName(), b.KindName())
	}
	if a.Kind == ValInt && b.Kind == ValInt {
		x, y := a.Int, b.Int
		switch op {
		case "+":
			return IntVal(x + y), nil
		case "-":
			return IntVal(x - y), nil
		case "*":
			return IntVal(x * y), nil
		case "/":
			if y == 0 {
				return Value{}, newError(DivisionByZero, Pos{}, "division by zero")
			}
			return IntVal(floorDiv(x, y)), nil
		case "mod":
			if y == 0 {
				return Value{}, newError(DivisionByZero, Pos{}, "modulo by zero")
			}
			return IntVal(floorMod(x, y)), nil
		}
		return Value{}, newError(UnrecognizedOperator, Pos{}, "unrecognized operator '%s'", op)
	}

	x, y := a.asReal(), b.asReal()
	switch op {
	case "+":
		return RealVal(x + y), nil
	case "-":
		return RealVal(x - y), nil
	case "*":
		return RealVal(x * y), nil
	case "/":
		if y == 0 {
			return Value{}, newError(DivisionByZero, Pos{}, "division by zero")
		}
		return RealVal(x / y), nil
	case "mod":
		if y == 0 {
			return Value{}, newError(DivisionByZero, Pos{}, "modulo by zero")
		}
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return RealVal(r), nil
	}
	return Value{}, newError(UnrecognizedOperator, Pos{}, "unrecognized operator '%s'", op)
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q
}

func floorMod(x, y int64) int64 {
	m := x % y
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return m
}
