package scheme

import (
	"bytes"
	"io"
	"time"
)

// Trace captures the boundary points of a single run: the program, every
// line consumed by read, everything display and newline wrote, and the
// result or error. Evaluation is deterministic given its inputs, so running
// the same source against Inputs reproduces the run.
type Trace struct {
	Entry     string   // program name, e.g. a file path
	Source    string   // program text
	Inputs    []string // lines consumed by read, in order
	Output    string   // bytes written by display/newline
	Result    string   // rendered final value; empty on error
	Error     string   // non-empty on error
	Timestamp string   // RFC 3339, UTC
}

func (t *Trace) Failed() bool { return t.Error != "" }

type recordingReader struct {
	r     LineReader
	lines []string
}

func (rr *recordingReader) ReadLine() (string, error) {
	line, err := rr.r.ReadLine()
	if err == nil {
		rr.lines = append(rr.lines, line)
	}
	return line, err
}

// RunTraced runs src on a fresh interpreter built from opts and records the
// run. Output still reaches the configured writer.
func RunTraced(entry, src string, opts ...Option) *Trace {
	t := &Trace{
		Entry:     entry,
		Source:    src,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	in := New(opts...)
	var out bytes.Buffer
	in.out = io.MultiWriter(in.out, &out)
	rec := &recordingReader{r: in.in}
	in.in = rec

	val, err := in.RunSource(src)
	t.Inputs = rec.lines
	t.Output = out.String()
	if err != nil {
		t.Error = err.Error()
		return t
	}
	t.Result = val.String()
	return t
}

// Replay runs the traced source again, feeding it the recorded inputs.
func (t *Trace) Replay() *Trace {
	return RunTraced(t.Entry, t.Source, WithOutput(io.Discard), WithInput(NewSliceReader(t.Inputs)))
}

// NewSliceReader returns a LineReader over a fixed set of lines. It reports
// io.EOF once they are used up.
func NewSliceReader(lines []string) LineReader {
	return &sliceReader{lines: append([]string(nil), lines...)}
}

type sliceReader struct {
	lines []string
}

func (s *sliceReader) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}
