package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	scheme "github.com/nilcastell10/MiniScheme-ANTLR4/core"
	"github.com/nilcastell10/MiniScheme-ANTLR4/tracestore"
)

const (
	promptMain = "scheme> "
	promptCont = "   ...> "
	promptRead = "read> "
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  scheme [-trace-db PATH] FILE   Run a program.
  scheme -i                      Start the interactive prompt.
  scheme -replay ID              Replay a stored trace.
  scheme -traces N               List the N most recent stored traces.

Environment:
  SCHEME_TRACE_DB   default for -trace-db
  SCHEME_HISTORY    prompt history file (default ~/.scheme_history)
`)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("scheme: ")

	interactive := flag.Bool("i", false, "start the interactive prompt")
	traceDB := flag.String("trace-db", envOr("SCHEME_TRACE_DB", ""), "record runs in this SQLite database")
	replay := flag.Int64("replay", 0, "replay the stored trace with this id")
	traces := flag.Int("traces", 0, "list this many recent traces")
	flag.Usage = usage
	flag.Parse()

	var store *tracestore.Store
	if *traceDB != "" {
		var err error
		store, err = tracestore.Open(*traceDB)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	code := 2
	switch {
	case *interactive:
		code = runREPL()
	case *replay != 0:
		code = runReplay(store, *replay)
	case *traces != 0:
		code = listTraces(store, *traces)
	case flag.NArg() == 1:
		code = runFile(store, flag.Arg(0))
	default:
		usage()
	}
	if store != nil {
		store.Close()
	}
	os.Exit(code)
}

func runFile(store *tracestore.Store, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 1
	}

	if store == nil {
		if _, err := scheme.New().RunSource(string(src)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	tr := scheme.RunTraced(path, string(src))
	if id, err := store.Append(tr); err != nil {
		log.Printf("store trace: %v", err)
	} else {
		log.Printf("trace %d stored in %s", id, store.Path())
	}
	if tr.Failed() {
		fmt.Fprintln(os.Stderr, tr.Error)
		return 1
	}
	return 0
}

func runReplay(store *tracestore.Store, id int64) int {
	if store == nil {
		log.Printf("-replay needs -trace-db or SCHEME_TRACE_DB")
		return 2
	}
	rec, err := store.Get(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	again := rec.Replay()
	fmt.Print(again.Output)
	if again.Output != rec.Output || again.Result != rec.Result || again.Error != rec.Error {
		fmt.Fprintf(os.Stderr, "trace %d diverged on replay\n", id)
		return 1
	}
	if again.Failed() {
		fmt.Fprintln(os.Stderr, again.Error)
		return 1
	}
	return 0
}

func listTraces(store *tracestore.Store, n int) int {
	if store == nil {
		log.Printf("-traces needs -trace-db or SCHEME_TRACE_DB")
		return 2
	}
	recs, err := store.Recent(n)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, r := range recs {
		status := "ok " + r.Result
		if r.Failed() {
			status = r.Error
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", r.ID, r.Timestamp, r.Entry, status)
	}
	return 0
}

// promptReader serves read from the line editor so input typed at a read
// prompt shares the terminal with the REPL.
type promptReader struct {
	ln *liner.State
}

func (p promptReader) ReadLine() (string, error) {
	line, err := p.ln.Prompt(promptRead)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return line, err
}

func runREPL() int {
	histPath := envOr("SCHEME_HISTORY", "")
	if histPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, ".scheme_history")
		}
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	in := scheme.New(scheme.WithInput(promptReader{ln}))
	fmt.Println("MiniScheme. Ctrl+D exits, :quit too.")

	for {
		src, ok := readByParseProbe(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		code := strings.TrimSpace(src)
		if code == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if code == ":quit" {
			return 0
		}

		val, err := in.RunSource(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if val.Kind != scheme.ValNil {
			fmt.Println(val)
		}
	}
}

// readByParseProbe keeps prompting until the collected lines parse or fail
// for a reason other than running out of input.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			log.Printf("prompt: %v", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := scheme.Parse(src); scheme.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}
