package scheme

import (
	"fmt"
	"strconv"
)

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "mod": true}

var logicalOps = map[string]bool{
	"and": true, "or": true, "not": true,
	"=": true, "<": true, ">": true, "<=": true, ">=": true, "<>": true,
}

var listOps = map[string]int{"car": 1, "cdr": 1, "null?": 1, "cons": 2}

var inoutOps = map[string]int{"display": 1, "read": 0, "newline": 0}

// reserved words can never name a variable, parameter or function.
func isReserved(name string) bool {
	switch name {
	case "define", "if", "cond", "else", "let":
		return true
	}
	_, isList := listOps[name]
	_, isIO := inoutOps[name]
	return arithmeticOps[name] || logicalOps[name] || isList || isIO
}

// Parse turns source text into a Program. Any malformed input yields a
// single *SyntaxError and no tree.
func Parse(src string) (*Program, error) {
	forms, err := readAll(src)
	if err != nil {
		return nil, err
	}
	prog := &Program{Forms: make([]Node, 0, len(forms))}
	for _, f := range forms {
		n, err := build(f)
		if err != nil {
			return nil, err
		}
		prog.Forms = append(prog.Forms, n)
	}
	return prog, nil
}

func syntaxErr(pos Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func build(s *sexpr) (Node, error) {
	switch s.kind {
	case sxString:
		return &Literal{Pos: s.pos, Kind: LitString, Text: s.text}, nil
	case sxAtom:
		return buildAtom(s)
	case sxQuote:
		return buildQuoted(s)
	case sxList:
		return buildList(s)
	}
	return nil, syntaxErr(s.pos, "unexpected form")
}

func buildAtom(s *sexpr) (Node, error) {
	lit, ok, err := literalAtom(s)
	if err != nil {
		return nil, err
	}
	if ok {
		return lit, nil
	}
	if isReserved(s.text) {
		return nil, syntaxErr(s.pos, "unexpected keyword '%s'", s.text)
	}
	return &Ident{Pos: s.pos, Name: s.text}, nil
}

// literalAtom recognises number and boolean tokens.
func literalAtom(s *sexpr) (*Literal, bool, error) {
	if s.text == "#t" || s.text == "#f" {
		return &Literal{Pos: s.pos, Kind: LitBool, Text: s.text}, true, nil
	}
	if !isNumberToken(s.text) {
		return nil, false, nil
	}
	var err error
	if hasDot(s.text) {
		_, err = strconv.ParseFloat(s.text, 64)
	} else {
		_, err = strconv.ParseInt(s.text, 10, 64)
	}
	if err != nil {
		return nil, false, syntaxErr(s.pos, "number literal out of range: %s", s.text)
	}
	return &Literal{Pos: s.pos, Kind: LitNumber, Text: s.text}, true, nil
}

// isNumberToken accepts an optional sign, digits and at most one decimal point.
func isNumberToken(tok string) bool {
	if tok == "" {
		return false
	}
	if tok[0] == '-' || tok[0] == '+' {
		tok = tok[1:]
	}
	digits, dots := 0, 0
	for _, ch := range tok {
		switch {
		case ch >= '0' && ch <= '9':
			digits++
		case ch == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

func hasDot(s string) bool {
	for _, ch := range s {
		if ch == '.' {
			return true
		}
	}
	return false
}

func buildQuoted(s *sexpr) (Node, error) {
	list := s.children[0]
	q := &Quoted{Pos: s.pos, Elems: make([]*Literal, 0, len(list.children))}
	for _, c := range list.children {
		switch c.kind {
		case sxString:
			q.Elems = append(q.Elems, &Literal{Pos: c.pos, Kind: LitString, Text: c.text})
		case sxAtom:
			lit, ok, err := literalAtom(c)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, syntaxErr(c.pos, "quoted list may only contain literals, got '%s'", c.text)
			}
			q.Elems = append(q.Elems, lit)
		default:
			return nil, syntaxErr(c.pos, "quoted list may only contain literals")
		}
	}
	return q, nil
}

func buildAll(forms []*sexpr) ([]Node, error) {
	nodes := make([]Node, 0, len(forms))
	for _, f := range forms {
		n, err := build(f)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func buildList(s *sexpr) (Node, error) {
	if len(s.children) == 0 {
		return nil, syntaxErr(s.pos, "empty expression ()")
	}
	head := s.children[0]
	if head.kind != sxAtom {
		return nil, syntaxErr(head.pos, "expected a function name or keyword")
	}
	op := head.text
	args := s.children[1:]

	switch {
	case op == "define":
		return buildDefine(s)
	case op == "if":
		if len(args) != 3 {
			return nil, syntaxErr(s.pos, "if expects a condition and two branches, got %d forms", len(args))
		}
		parts, err := buildAll(args)
		if err != nil {
			return nil, err
		}
		return &If{Pos: s.pos, Cond: parts[0], Then: parts[1], Else: parts[2]}, nil
	case op == "cond":
		return buildCond(s)
	case op == "let":
		return buildLet(s)
	case op == "else":
		return nil, syntaxErr(head.pos, "else outside of cond")
	case arithmeticOps[op]:
		parts, err := buildAll(args)
		if err != nil {
			return nil, err
		}
		return &OperatorExpr{Pos: s.pos, Op: op, Args: parts}, nil
	case logicalOps[op]:
		parts, err := buildAll(args)
		if err != nil {
			return nil, err
		}
		return &LogicalExpr{Pos: s.pos, Op: op, Args: parts}, nil
	}

	if n, ok := listOps[op]; ok {
		if len(args) != n {
			return nil, syntaxErr(s.pos, "%s expects %d operand(s), got %d", op, n, len(args))
		}
		parts, err := buildAll(args)
		if err != nil {
			return nil, err
		}
		return &ListExpr{Pos: s.pos, Op: op, Args: parts}, nil
	}
	if n, ok := inoutOps[op]; ok {
		if len(args) != n {
			return nil, syntaxErr(s.pos, "%s expects %d operand(s), got %d", op, n, len(args))
		}
		io := &InOut{Pos: s.pos, Op: op}
		if n == 1 {
			arg, err := build(args[0])
			if err != nil {
				return nil, err
			}
			io.Arg = arg
		}
		return io, nil
	}

	if _, ok, _ := literalAtom(head); ok {
		return nil, syntaxErr(head.pos, "expected a function name, got literal %s", op)
	}
	parts, err := buildAll(args)
	if err != nil {
		return nil, err
	}
	return &Call{Pos: s.pos, Name: op, Args: parts}, nil
}

func identName(s *sexpr, what string) (string, error) {
	if s.kind != sxAtom {
		return "", syntaxErr(s.pos, "%s must be an identifier", what)
	}
	if _, ok, _ := literalAtom(s); ok {
		return "", syntaxErr(s.pos, "%s must be an identifier, got literal %s", what, s.text)
	}
	if isReserved(s.text) {
		return "", syntaxErr(s.pos, "%s cannot be the keyword '%s'", what, s.text)
	}
	return s.text, nil
}

func buildDefine(s *sexpr) (Node, error) {
	if len(s.children) < 3 {
		return nil, syntaxErr(s.pos, "define expects a name and a value")
	}
	target := s.children[1]
	if target.kind == sxList {
		if len(target.children) == 0 {
			return nil, syntaxErr(target.pos, "function definition needs a name")
		}
		name, err := identName(target.children[0], "function name")
		if err != nil {
			return nil, err
		}
		params := make([]string, 0, len(target.children)-1)
		for _, p := range target.children[1:] {
			pname, err := identName(p, "parameter")
			if err != nil {
				return nil, err
			}
			params = append(params, pname)
		}
		body, err := buildAll(s.children[2:])
		if err != nil {
			return nil, err
		}
		return &FuncDef{Pos: s.pos, Name: name, Params: params, Body: body}, nil
	}
	name, err := identName(target, "variable name")
	if err != nil {
		return nil, err
	}
	if len(s.children) != 3 {
		return nil, syntaxErr(s.pos, "variable definition expects exactly one value")
	}
	init, err := build(s.children[2])
	if err != nil {
		return nil, err
	}
	return &VarDef{Pos: s.pos, Name: name, Init: init}, nil
}

func buildCond(s *sexpr) (Node, error) {
	c := &Cond{Pos: s.pos}
	for _, clause := range s.children[1:] {
		if clause.kind != sxList || len(clause.children) == 0 {
			return nil, syntaxErr(clause.pos, "cond clause must be a non-empty list")
		}
		first := clause.children[0]
		cc := CondClause{Pos: clause.pos}
		if first.kind == sxAtom && first.text == "else" {
			cc.Else = true
		} else {
			test, err := build(first)
			if err != nil {
				return nil, err
			}
			cc.Test = test
		}
		body, err := buildAll(clause.children[1:])
		if err != nil {
			return nil, err
		}
		cc.Body = body
		c.Clauses = append(c.Clauses, cc)
	}
	return c, nil
}

func buildLet(s *sexpr) (Node, error) {
	if len(s.children) < 3 {
		return nil, syntaxErr(s.pos, "let expects declarations and a body")
	}
	declsNode := s.children[1]
	if declsNode.kind != sxList {
		return nil, syntaxErr(declsNode.pos, "let declarations must be a list")
	}
	l := &Let{Pos: s.pos}
	for _, d := range declsNode.children {
		if d.kind != sxList || len(d.children) != 2 {
			return nil, syntaxErr(d.pos, "each let declaration must be (name expr)")
		}
		name, err := identName(d.children[0], "let binding name")
		if err != nil {
			return nil, err
		}
		init, err := build(d.children[1])
		if err != nil {
			return nil, err
		}
		l.Decls = append(l.Decls, Decl{Pos: d.pos, Name: name, Init: init})
	}
	body, err := buildAll(s.children[2:])
	if err != nil {
		return nil, err
	}
	l.Body = body
	return l, nil
}
