package scheme

import (
	"strconv"
	"strings"
)

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

// Node is one element of a parsed program. The evaluator dispatches on the
// concrete type.
type Node interface {
	Position() Pos
	String() string
}

type Program struct {
	Forms []Node
}

func (p *Program) Position() Pos { return Pos{Line: 1, Col: 1} }
func (p *Program) String() string {
	parts := make([]string, len(p.Forms))
	for i, f := range p.Forms {
		parts[i] = f.String()
	}
	return strings.Join(parts, "\n")
}

type VarDef struct {
	Pos  Pos
	Name string
	Init Node
}

func (n *VarDef) Position() Pos { return n.Pos }
func (n *VarDef) String() string {
	return "(define " + n.Name + " " + n.Init.String() + ")"
}

type FuncDef struct {
	Pos    Pos
	Name   string
	Params []string
	Body   []Node
}

func (n *FuncDef) Position() Pos { return n.Pos }
func (n *FuncDef) String() string {
	head := append([]string{n.Name}, n.Params...)
	return "(define (" + strings.Join(head, " ") + ")" + joinNodes(n.Body) + ")"
}

type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitBool
	LitString
)

// Literal keeps the literal text; the evaluator converts it to a Value.
// For strings Text is the decoded contents without quotes.
type Literal struct {
	Pos  Pos
	Kind LiteralKind
	Text string
}

func (n *Literal) Position() Pos { return n.Pos }
func (n *Literal) String() string {
	if n.Kind == LitString {
		return strconv.Quote(n.Text)
	}
	return n.Text
}

type Ident struct {
	Pos  Pos
	Name string
}

func (n *Ident) Position() Pos  { return n.Pos }
func (n *Ident) String() string { return n.Name }

// OperatorExpr is an arithmetic or comparison form: + - * / mod = < > <= >= <>.
type OperatorExpr struct {
	Pos  Pos
	Op   string
	Args []Node
}

func (n *OperatorExpr) Position() Pos  { return n.Pos }
func (n *OperatorExpr) String() string { return "(" + n.Op + joinNodes(n.Args) + ")" }

// LogicalExpr is and, or, not, or a comparison in logical position.
type LogicalExpr struct {
	Pos  Pos
	Op   string
	Args []Node
}

func (n *LogicalExpr) Position() Pos  { return n.Pos }
func (n *LogicalExpr) String() string { return "(" + n.Op + joinNodes(n.Args) + ")" }

type Call struct {
	Pos  Pos
	Name string
	Args []Node
}

func (n *Call) Position() Pos  { return n.Pos }
func (n *Call) String() string { return "(" + n.Name + joinNodes(n.Args) + ")" }

type If struct {
	Pos  Pos
	Cond Node
	Then Node
	Else Node
}

func (n *If) Position() Pos { return n.Pos }
func (n *If) String() string {
	return "(if " + n.Cond.String() + " " + n.Then.String() + " " + n.Else.String() + ")"
}

// CondClause has no Test when Else is set.
type CondClause struct {
	Pos  Pos
	Else bool
	Test Node
	Body []Node
}

type Cond struct {
	Pos     Pos
	Clauses []CondClause
}

func (n *Cond) Position() Pos { return n.Pos }
func (n *Cond) String() string {
	var b strings.Builder
	b.WriteString("(cond")
	for _, c := range n.Clauses {
		b.WriteString(" (")
		if c.Else {
			b.WriteString("else")
		} else {
			b.WriteString(c.Test.String())
		}
		b.WriteString(joinNodes(c.Body))
		b.WriteString(")")
	}
	b.WriteString(")")
	return b.String()
}

type Decl struct {
	Pos  Pos
	Name string
	Init Node
}

type Let struct {
	Pos   Pos
	Decls []Decl
	Body  []Node
}

func (n *Let) Position() Pos { return n.Pos }
func (n *Let) String() string {
	decls := make([]string, len(n.Decls))
	for i, d := range n.Decls {
		decls[i] = "(" + d.Name + " " + d.Init.String() + ")"
	}
	return "(let (" + strings.Join(decls, " ") + ")" + joinNodes(n.Body) + ")"
}

// InOut is display, read or newline. Arg is set only for display.
type InOut struct {
	Pos Pos
	Op  string
	Arg Node
}

func (n *InOut) Position() Pos { return n.Pos }
func (n *InOut) String() string {
	if n.Arg == nil {
		return "(" + n.Op + ")"
	}
	return "(" + n.Op + " " + n.Arg.String() + ")"
}

// Quoted is a literal list: '(1 2.5 #t "s").
type Quoted struct {
	Pos   Pos
	Elems []*Literal
}

func (n *Quoted) Position() Pos { return n.Pos }
func (n *Quoted) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "'(" + strings.Join(parts, " ") + ")"
}

// ListExpr is car, cdr, cons or null?.
type ListExpr struct {
	Pos  Pos
	Op   string
	Args []Node
}

func (n *ListExpr) Position() Pos  { return n.Pos }
func (n *ListExpr) String() string { return "(" + n.Op + joinNodes(n.Args) + ")" }

func joinNodes(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteByte(' ')
		b.WriteString(n.String())
	}
	return b.String()
}
