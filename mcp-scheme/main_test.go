package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nilcastell10/MiniScheme-ANTLR4/tracestore"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text, res.IsError
	case *mcp.TextContent:
		return c.Text, res.IsError
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return "", false
}

func withStore(t *testing.T) {
	t.Helper()
	s, err := tracestore.Open(filepath.Join(t.TempDir(), "traces.db"))
	if err != nil {
		t.Fatal(err)
	}
	store = s
	t.Cleanup(func() {
		store = nil
		s.Close()
	})
}

func TestEvalTool(t *testing.T) {
	text, isErr := callTool(t, handleEval, map[string]any{
		"source": "(define n (read)) (display (* n n)) (newline) (+ n 1)",
		"input":  "12\n",
	})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	var res evalResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatal(err)
	}
	if res.Output != "144\n" || res.Result != "13" || res.Error != "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.TraceID != 0 {
		t.Fatalf("expected no trace id without a store, got %d", res.TraceID)
	}
}

func TestEvalToolReportsProgramError(t *testing.T) {
	text, isErr := callTool(t, handleEval, map[string]any{"source": "(read)"})
	if isErr {
		t.Fatalf("program errors belong in the result, got tool error %s", text)
	}
	var res evalResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatal(err)
	}
	if res.Error != "error at line 1, column 1: read: end of input" {
		t.Fatalf("unexpected error %q", res.Error)
	}
}

func TestEvalToolMissingSource(t *testing.T) {
	if _, isErr := callTool(t, handleEval, map[string]any{}); !isErr {
		t.Fatal("expected tool error for missing source")
	}
}

func TestParseTool(t *testing.T) {
	text, isErr := callTool(t, handleParse, map[string]any{"source": "(define x 1)\n(display x)"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	var forms []parsedForm
	if err := json.Unmarshal([]byte(text), &forms); err != nil {
		t.Fatal(err)
	}
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
	if forms[0].Kind != "VarDef" || forms[1].Kind != "InOut" || forms[1].Line != 2 {
		t.Fatalf("unexpected forms %+v", forms)
	}
	if forms[1].Source != "(display x)" {
		t.Fatalf("unexpected source %q", forms[1].Source)
	}

	text, isErr = callTool(t, handleParse, map[string]any{"source": "(if #t 1)"})
	if !isErr {
		t.Fatalf("expected syntax error, got %s", text)
	}
}

func TestTracesTool(t *testing.T) {
	if _, isErr := callTool(t, handleTraces, map[string]any{}); !isErr {
		t.Fatal("expected tool error without a store")
	}

	withStore(t)
	text, _ := callTool(t, handleEval, map[string]any{"source": "(+ 1 2)", "name": "three"})
	var res evalResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatal(err)
	}
	if res.TraceID == 0 {
		t.Fatal("expected a trace id with a store configured")
	}

	text, isErr := callTool(t, handleTraces, map[string]any{"limit": float64(5)})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	var traces []traceSummary
	if err := json.Unmarshal([]byte(text), &traces); err != nil {
		t.Fatal(err)
	}
	if len(traces) != 1 || traces[0].Entry != "three" || traces[0].Result != "3" {
		t.Fatalf("unexpected traces %+v", traces)
	}

	if text, isErr := callTool(t, handleTraces, map[string]any{"clear": true}); isErr || text != "cleared" {
		t.Fatalf("clear failed: %s", text)
	}
	text, _ = callTool(t, handleTraces, map[string]any{})
	if err := json.Unmarshal([]byte(text), &traces); err != nil || len(traces) != 0 {
		t.Fatalf("expected no traces after clear, got %s", text)
	}
}

func TestSplitInputs(t *testing.T) {
	if got := splitInputs(""); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	got := splitInputs("a\nb\n")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}
