package scheme

import (
	"strconv"
	"strings"
)

// Eval evaluates node against the active environment. Definitions always
// land in the global environment; calls and let fork the active one and
// restore it when their body finishes, error or not.
func (in *Interpreter) Eval(node Node) (Value, error) {
	switch n := node.(type) {
	case *Program:
		return in.evalSeq(n.Forms)
	case *VarDef:
		return in.evalVarDef(n)
	case *FuncDef:
		return in.evalFuncDef(n)
	case *Literal:
		return literalValue(n)
	case *Ident:
		val, err := in.env.Lookup(n.Name)
		if err != nil {
			return Value{}, at(err, n.Pos)
		}
		return val, nil
	case *OperatorExpr:
		return in.evalOperator(n.Pos, n.Op, n.Args)
	case *LogicalExpr:
		return in.evalLogical(n)
	case *Call:
		return in.evalCall(n)
	case *If:
		return in.evalIf(n)
	case *Cond:
		return in.evalCond(n)
	case *Let:
		return in.evalLet(n)
	case *InOut:
		return in.evalInOut(n)
	case *Quoted:
		return quotedValue(n)
	case *ListExpr:
		return in.evalListExpr(n)
	case nil:
		return Value{}, newError(UnrecognizedOperator, Pos{}, "missing expression")
	default:
		return Value{}, newError(UnrecognizedOperator, node.Position(), "unrecognized form %T", node)
	}
}

// evalSeq evaluates nodes in order and returns the last value, or Nil for
// an empty sequence.
func (in *Interpreter) evalSeq(nodes []Node) (Value, error) {
	result := NilVal()
	for _, n := range nodes {
		val, err := in.Eval(n)
		if err != nil {
			return Value{}, err
		}
		result = val
	}
	return result, nil
}

func (in *Interpreter) evalArgs(nodes []Node) ([]Value, error) {
	args := make([]Value, len(nodes))
	for i, n := range nodes {
		val, err := in.Eval(n)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return args, nil
}

// withFork runs body with a fork of the active environment active.
func (in *Interpreter) withFork(bindings map[string]Value, body []Node) (Value, error) {
	prev := in.env
	in.env = prev.Fork(bindings)
	defer func() { in.env = prev }()
	return in.evalSeq(body)
}

func (in *Interpreter) evalVarDef(n *VarDef) (Value, error) {
	val, err := in.Eval(n.Init)
	if err != nil {
		return Value{}, err
	}
	in.global.Bind(n.Name, val)
	return val, nil
}

func (in *Interpreter) evalFuncDef(n *FuncDef) (Value, error) {
	in.global.Bind(n.Name, FnVal(&FnValue{
		Name:   n.Name,
		Params: n.Params,
		Body:   n.Body,
	}))
	return TextVal(n.Name), nil
}

func (in *Interpreter) evalCall(n *Call) (Value, error) {
	callee, err := in.env.Lookup(n.Name)
	if err != nil {
		return Value{}, newError(UndefinedFunction, n.Pos, "function '%s' is not defined", n.Name)
	}
	if callee.Kind != ValFn {
		return Value{}, newError(NotCallable, n.Pos, "'%s' is not callable (%s)", n.Name, callee.KindName())
	}
	args, err := in.evalArgs(n.Args)
	if err != nil {
		return Value{}, err
	}
	val, err := in.Apply(callee.Fn, args)
	if err != nil {
		return Value{}, at(err, n.Pos)
	}
	return val, nil
}

// Apply calls fn with already evaluated arguments. A user function's body
// runs in a fork of the active environment, not of its definition site.
func (in *Interpreter) Apply(fn *FnValue, args []Value) (Value, error) {
	if fn.IsNative() {
		return fn.Native(args)
	}
	if len(args) != len(fn.Params) {
		return Value{}, newError(ArityMismatch, Pos{}, "function '%s' expects %d argument(s), got %d",
			fn.Name, len(fn.Params), len(args))
	}
	bindings := make(map[string]Value, len(fn.Params))
	for i, param := range fn.Params {
		bindings[param] = args[i]
	}
	return in.withFork(bindings, fn.Body)
}

func (in *Interpreter) evalIf(n *If) (Value, error) {
	cond, err := in.Eval(n.Cond)
	if err != nil {
		return Value{}, err
	}
	if cond.IsTrue() {
		return in.Eval(n.Then)
	}
	return in.Eval(n.Else)
}

// evalCond returns Nil when no clause matches and there is no else.
func (in *Interpreter) evalCond(n *Cond) (Value, error) {
	for _, clause := range n.Clauses {
		if !clause.Else {
			test, err := in.Eval(clause.Test)
			if err != nil {
				return Value{}, err
			}
			if !test.IsTrue() {
				continue
			}
		}
		return in.evalSeq(clause.Body)
	}
	return NilVal(), nil
}

// evalLet evaluates every initializer in the outer scope before any
// binding becomes visible.
func (in *Interpreter) evalLet(n *Let) (Value, error) {
	bindings := make(map[string]Value, len(n.Decls))
	for _, d := range n.Decls {
		val, err := in.Eval(d.Init)
		if err != nil {
			return Value{}, err
		}
		bindings[d.Name] = val
	}
	return in.withFork(bindings, n.Body)
}

func literalValue(n *Literal) (Value, error) {
	switch n.Kind {
	case LitNumber:
		if strings.ContainsRune(n.Text, '.') {
			f, err := strconv.ParseFloat(n.Text, 64)
			if err != nil {
				return Value{}, newError(TypeMismatch, n.Pos, "malformed real literal %q", n.Text)
			}
			return RealVal(f), nil
		}
		i, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return Value{}, newError(TypeMismatch, n.Pos, "malformed integer literal %q", n.Text)
		}
		return IntVal(i), nil
	case LitBool:
		switch n.Text {
		case "#t":
			return BoolVal(true), nil
		case "#f":
			return BoolVal(false), nil
		}
		return Value{}, newError(TypeMismatch, n.Pos, "malformed boolean literal %q", n.Text)
	case LitString:
		return TextVal(n.Text), nil
	}
	return Value{}, newError(UnrecognizedOperator, n.Pos, "unknown literal kind %d", n.Kind)
}

func quotedValue(n *Quoted) (Value, error) {
	elems := make([]Value, len(n.Elems))
	for i, lit := range n.Elems {
		val, err := literalValue(lit)
		if err != nil {
			return Value{}, err
		}
		elems[i] = val
	}
	return ListVal(elems), nil
}
