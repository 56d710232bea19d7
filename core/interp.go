package scheme

import (
	"io"
	"os"
)

// Interpreter owns the global environment and the I/O streams that
// display, newline and read use. It is not safe for concurrent use.
type Interpreter struct {
	global *Env
	env    *Env // active environment
	out    io.Writer
	in     LineReader
}

type Option func(*Interpreter)

// WithOutput sends display and newline output to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithInput makes read consume lines from r instead of os.Stdin.
func WithInput(r LineReader) Option {
	return func(in *Interpreter) { in.in = r }
}

// WithNatives binds extra native functions in the global environment.
func WithNatives(natives map[string]Builtin) Option {
	return func(in *Interpreter) {
		for name, fn := range natives {
			in.RegisterNative(name, fn)
		}
	}
}

func New(opts ...Option) *Interpreter {
	global := NewEnv()
	in := &Interpreter{global: global, env: global, out: os.Stdout}
	for name, fn := range DefaultNatives() {
		in.RegisterNative(name, fn)
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.in == nil {
		in.in = NewLineReader(os.Stdin)
	}
	return in
}

// RegisterNative binds name to a native function, replacing any previous binding.
func (in *Interpreter) RegisterNative(name string, fn Builtin) {
	in.global.Bind(name, FnVal(&FnValue{Name: name, Native: fn}))
}

// Global returns the environment definitions are written to.
func (in *Interpreter) Global() *Env {
	return in.global
}

// Run evaluates every top-level form of prog and returns the last value.
// The first error aborts the run.
func (in *Interpreter) Run(prog *Program) (Value, error) {
	in.env = in.global
	return in.Eval(prog)
}

// RunSource parses src and runs it. Syntax errors are returned before any
// form is evaluated.
func (in *Interpreter) RunSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	return in.Run(prog)
}
