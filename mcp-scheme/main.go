package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	scheme "github.com/nilcastell10/MiniScheme-ANTLR4/core"
	"github.com/nilcastell10/MiniScheme-ANTLR4/tracestore"
)

// store is nil when SCHEME_TRACE_DB is unset.
var store *tracestore.Store

type evalResult struct {
	Output  string `json:"output"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	TraceID int64  `json:"trace_id,omitempty"`
}

type parsedForm struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Source string `json:"source"`
}

type traceSummary struct {
	ID        int64    `json:"id"`
	Entry     string   `json:"entry"`
	Timestamp string   `json:"timestamp"`
	Inputs    []string `json:"inputs"`
	Output    string   `json:"output"`
	Result    string   `json:"result,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// splitInputs turns the optional input argument into lines for read.
func splitInputs(input string) []string {
	if input == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(input, "\n"), "\n")
}

func handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry := request.GetString("name", "mcp")
	inputs := splitInputs(request.GetString("input", ""))

	// stdout carries the protocol, so program output is only captured.
	tr := scheme.RunTraced(entry, src, scheme.WithOutput(io.Discard), scheme.WithInput(scheme.NewSliceReader(inputs)))
	res := evalResult{Output: tr.Output, Result: tr.Result, Error: tr.Error}
	if store != nil {
		id, err := store.Append(tr)
		if err != nil {
			log.Printf("store trace: %v", err)
		} else {
			res.TraceID = id
		}
	}
	return jsonResult(res)
}

func handleParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prog, err := scheme.Parse(src)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	forms := make([]parsedForm, 0, len(prog.Forms))
	for _, f := range prog.Forms {
		pos := f.Position()
		forms = append(forms, parsedForm{
			Kind:   strings.TrimPrefix(fmt.Sprintf("%T", f), "*scheme."),
			Line:   pos.Line,
			Column: pos.Col,
			Source: f.String(),
		})
	}
	return jsonResult(forms)
}

func handleTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if store == nil {
		return mcp.NewToolResultError("no trace store configured; set SCHEME_TRACE_DB"), nil
	}
	if request.GetBool("clear", false) {
		if err := store.Clear(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("cleared"), nil
	}
	recs, err := store.Recent(request.GetInt("limit", 10))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]traceSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, traceSummary{
			ID:        r.ID,
			Entry:     r.Entry,
			Timestamp: r.Timestamp,
			Inputs:    r.Inputs,
			Output:    r.Output,
			Result:    r.Result,
			Error:     r.Error,
		})
	}
	return jsonResult(out)
}

func newServer() *server.MCPServer {
	s := server.NewMCPServer(
		"minischeme",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("scheme_eval",
			mcp.WithDescription("Run a MiniScheme program on a fresh interpreter. Returns its output and final value, or the first error."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Program text, e.g. (define (sq n) (* n n)) (sq 7)"),
			),
			mcp.WithString("input",
				mcp.Description("Lines consumed by read, separated by newlines"),
			),
			mcp.WithString("name",
				mcp.Description("Name recorded with the trace"),
			),
		),
		handleEval,
	)

	s.AddTool(
		mcp.NewTool("scheme_parse",
			mcp.WithDescription("Parse a MiniScheme program without running it. Returns each top-level form or the syntax error."),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Program text"),
			),
		),
		handleParse,
	)

	s.AddTool(
		mcp.NewTool("scheme_traces",
			mcp.WithDescription("List recent recorded runs, newest first. Needs SCHEME_TRACE_DB."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of traces (default 10, 0 for all)"),
			),
			mcp.WithBoolean("clear",
				mcp.Description("If true, delete every stored trace instead"),
			),
		),
		handleTraces,
	)

	return s
}

func main() {
	if path := os.Getenv("SCHEME_TRACE_DB"); path != "" {
		var err error
		store, err = tracestore.Open(path)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer store.Close()
		log.Printf("recording traces in %s", path)
	}

	if err := server.ServeStdio(newServer()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
