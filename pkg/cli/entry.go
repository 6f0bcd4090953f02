package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/packsig/internal/analyzer"
	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/config"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/lexer"
	"github.com/funvibe/packsig/internal/parser"
	"github.com/funvibe/packsig/internal/pipeline"
	"github.com/funvibe/packsig/internal/prettyprinter"
	"github.com/funvibe/packsig/internal/service"
	"github.com/funvibe/packsig/internal/sigstore"
	"github.com/funvibe/packsig/internal/utils"
)

const usage = `packsig — canonicalizer for variadic signature declarations

Usage:
  packsig check [--json] <file>...        canonicalize, print canonical forms
  packsig fmt [-w] <file>...              reprint source in canonical layout
  packsig store record <file>...          record canonical forms in the store
  packsig store diff [--json] <file>...   compare fresh forms against the store
  packsig store list                      list stored signatures
  packsig serve [-addr host:port]         serve the canonicalizer over gRPC
  packsig help                            show this help

A file argument may be a directory; every .psig file directly inside it
is used. Project settings load from the nearest packsig.yaml.
`

// runPipeline pushes one source text through every stage and returns the
// final context with renderings and diagnostics.
func runPipeline(sourceCode, filePath string) *pipeline.PipelineContext {
	initialContext := pipeline.NewPipelineContext(sourceCode)
	initialContext.FilePath = filePath

	processingPipeline := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&prettyprinter.RenderProcessor{},
	)
	finalContext := processingPipeline.Run(initialContext)
	diagnostics.Sort(finalContext.Errors)
	return finalContext
}

// fileReport is the outcome for one source file, shaped for --json.
type fileReport struct {
	File        string           `json:"file"`
	Canonical   []string         `json:"canonical,omitempty"`
	Diagnostics []diagnosticJSON `json:"diagnostics,omitempty"`

	errs []*diagnostics.DiagnosticError
}

type diagnosticJSON struct {
	Code    string `json:"code"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func reportFor(file string, finalContext *pipeline.PipelineContext) fileReport {
	report := fileReport{
		File:      file,
		Canonical: finalContext.Rendered,
		errs:      finalContext.Errors,
	}
	for _, e := range finalContext.Errors {
		report.Diagnostics = append(report.Diagnostics, diagnosticJSON{
			Code:    string(e.Code),
			Line:    e.Token.Line,
			Column:  e.Token.Column,
			Message: e.Message,
		})
	}
	return report
}

// checkFiles runs every file through the pipeline. The bool reports
// whether any file failed to read or produced diagnostics.
func checkFiles(files []string) ([]fileReport, bool) {
	failed := false
	var reports []fileReport
	for _, file := range files {
		sourceCode, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
			failed = true
			continue
		}
		finalContext := runPipeline(string(sourceCode), file)
		if finalContext.HasErrors() {
			failed = true
		}
		reports = append(reports, reportFor(file, finalContext))
	}
	return reports, failed
}

// colorEnabled decides whether diagnostics get ANSI colors, honoring the
// configured mode, the NO_COLOR convention and whether stderr is a
// terminal.
func colorEnabled(mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if config.IsTestMode {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// loadConfig loads the project configuration for the working directory.
// A broken config file is fatal; a missing one falls back to defaults.
func loadConfig() *config.Config {
	wd, err := os.Getwd()
	if err != nil {
		return config.Default()
	}
	cfg, err := config.Load(wd)
	if err != nil {
		code := diagnostics.ErrC002
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			code = diagnostics.ErrC001
		}
		fmt.Fprintf(os.Stderr, "[%s] %s\n", code, err)
		os.Exit(1)
	}
	return cfg
}

func writeJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// collectArgs splits command arguments into source files, expanding
// directories. Flags named in the flags map set their target; any other
// flag is an error. Returns nil when no paths were given.
func collectArgs(args []string, flags map[string]*bool) []string {
	var paths []string
	for _, arg := range args {
		if target, ok := flags[arg]; ok {
			*target = true
			continue
		}
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(os.Stderr, "Unknown flag: %s\n", arg)
			os.Exit(2)
		}
		paths = append(paths, arg)
	}
	if len(paths) == 0 {
		return nil
	}
	files, err := utils.CollectSourceFiles(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return files
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}

	if os.Args[1] != "-help" && os.Args[1] != "--help" && os.Args[1] != "help" {
		return false
	}

	fmt.Print(usage)
	return true
}

func handleCheck() bool {
	if len(os.Args) < 2 || os.Args[1] != "check" {
		return false
	}

	var jsonOut bool
	files := collectArgs(os.Args[2:], map[string]*bool{
		"-json": &jsonOut, "--json": &jsonOut,
	})
	if files == nil {
		fmt.Fprintf(os.Stderr, "Usage: %s check [--json] <file>...\n", os.Args[0])
		os.Exit(2)
	}

	cfg := loadConfig()
	if cfg.Check.JSON {
		jsonOut = true
	}

	reports, failed := checkFiles(files)

	if jsonOut {
		writeJSON(reports)
	} else {
		colorize := colorEnabled(cfg.Check.Color)
		for _, report := range reports {
			if len(reports) > 1 {
				fmt.Printf("=== %s ===\n", report.File)
			}
			for _, line := range report.Canonical {
				fmt.Println(line)
			}
			fmt.Fprint(os.Stderr, diagnostics.Format(report.errs, colorize))
		}
	}

	if failed {
		os.Exit(1)
	}
	return true
}

// formatSource reprints one source text in canonical layout. It returns
// the formatted text, or diagnostics when the source does not parse.
func formatSource(sourceCode, filePath string, indent int) (string, []*diagnostics.DiagnosticError) {
	initialContext := pipeline.NewPipelineContext(sourceCode)
	initialContext.FilePath = filePath

	processingPipeline := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	)
	finalContext := processingPipeline.Run(initialContext)
	if finalContext.HasErrors() {
		diagnostics.Sort(finalContext.Errors)
		return "", finalContext.Errors
	}

	file, ok := finalContext.AstRoot.(*ast.File)
	if !ok {
		return "", nil
	}
	printer := prettyprinter.NewCodePrinterWithIndent(indent)
	printer.PrintFile(file)
	return printer.String(), nil
}

func handleFmt() bool {
	if len(os.Args) < 2 || os.Args[1] != "fmt" {
		return false
	}

	var write bool
	files := collectArgs(os.Args[2:], map[string]*bool{
		"-w": &write, "--write": &write,
	})
	if files == nil {
		fmt.Fprintf(os.Stderr, "Usage: %s fmt [-w] <file>...\n", os.Args[0])
		os.Exit(2)
	}

	cfg := loadConfig()

	failed := false
	for _, file := range files {
		sourceCode, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
			failed = true
			continue
		}

		formatted, errs := formatSource(string(sourceCode), file, cfg.Fmt.Indent)
		if len(errs) > 0 {
			fmt.Fprint(os.Stderr, diagnostics.Format(errs, colorEnabled(cfg.Check.Color)))
			failed = true
			continue
		}

		if write {
			if formatted == string(sourceCode) {
				continue
			}
			if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing file: %s\n", err)
				failed = true
			}
			continue
		}
		fmt.Print(formatted)
	}

	if failed {
		os.Exit(1)
	}
	return true
}

// canonicalsFor canonicalizes every file into named store entries. The
// bool reports whether any file failed; diagnostics go to stderr.
func canonicalsFor(files []string) ([]sigstore.Canonical, bool) {
	var sigs []sigstore.Canonical
	failed := false
	for _, file := range files {
		sourceCode, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
			failed = true
			continue
		}
		finalContext := runPipeline(string(sourceCode), file)
		if finalContext.HasErrors() {
			fmt.Fprint(os.Stderr, diagnostics.Format(finalContext.Errors, false))
			failed = true
			continue
		}
		for i, sig := range finalContext.Signatures {
			sigs = append(sigs, sigstore.Canonical{Name: sig.Name, Text: finalContext.Rendered[i]})
		}
	}
	return sigs, failed
}

// driftLines renders a drift report for humans, one block per signature.
func driftLines(drifts []sigstore.Drift) []string {
	var lines []string
	for _, d := range drifts {
		switch d.Kind {
		case sigstore.DriftAdded:
			lines = append(lines, fmt.Sprintf("new       %s", d.Fresh))
		case sigstore.DriftChanged:
			lines = append(lines, fmt.Sprintf("changed   %s", d.Name))
			lines = append(lines, fmt.Sprintf("  stored  %s", d.Stored))
			lines = append(lines, fmt.Sprintf("  fresh   %s", d.Fresh))
		default:
			lines = append(lines, fmt.Sprintf("unchanged %s", d.Name))
		}
	}
	return lines
}

type driftJSON struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Stored string `json:"stored,omitempty"`
	Fresh  string `json:"fresh,omitempty"`
}

func handleStore() bool {
	if len(os.Args) < 2 || os.Args[1] != "store" {
		return false
	}

	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s store record|diff|list ...\n", os.Args[0])
		os.Exit(2)
	}

	switch os.Args[2] {
	case "record":
		storeRecord(os.Args[3:])
	case "diff":
		storeDiff(os.Args[3:])
	case "list":
		storeList()
	default:
		fmt.Fprintf(os.Stderr, "Unknown store command: %s\n", os.Args[2])
		os.Exit(2)
	}
	return true
}

func openStore(cfg *config.Config) *sigstore.Store {
	store, err := sigstore.Open(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %s\n", err)
		os.Exit(1)
	}
	return store
}

func storeRecord(args []string) {
	files := collectArgs(args, nil)
	if files == nil {
		fmt.Fprintf(os.Stderr, "Usage: %s store record <file>...\n", os.Args[0])
		os.Exit(2)
	}

	sigs, failed := canonicalsFor(files)
	if failed {
		os.Exit(1)
	}

	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	run, drifts, err := store.Record(context.Background(), strings.Join(files, " "), sigs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	added, changed := 0, 0
	for _, d := range drifts {
		switch d.Kind {
		case sigstore.DriftAdded:
			added++
		case sigstore.DriftChanged:
			changed++
		}
	}
	fmt.Printf("Recorded %d signatures (%d new, %d changed) in run %s\n",
		len(sigs), added, changed, run.ID)
}

func storeDiff(args []string) {
	var jsonOut bool
	files := collectArgs(args, map[string]*bool{
		"-json": &jsonOut, "--json": &jsonOut,
	})
	if files == nil {
		fmt.Fprintf(os.Stderr, "Usage: %s store diff [--json] <file>...\n", os.Args[0])
		os.Exit(2)
	}

	sigs, failed := canonicalsFor(files)
	if failed {
		os.Exit(1)
	}

	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	drifts, err := store.Diff(context.Background(), sigs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	drifted := false
	for _, d := range drifts {
		if d.Kind != sigstore.DriftNone {
			drifted = true
		}
	}

	if jsonOut {
		out := make([]driftJSON, 0, len(drifts))
		for _, d := range drifts {
			out = append(out, driftJSON{
				Name:   d.Name,
				Status: d.Kind.String(),
				Stored: d.Stored,
				Fresh:  d.Fresh,
			})
		}
		writeJSON(out)
	} else {
		for _, line := range driftLines(drifts) {
			fmt.Println(line)
		}
	}

	if drifted {
		os.Exit(1)
	}
}

func storeList() {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Printf("%s\t%s\n", e.Name, e.Canonical)
	}
}

func handleServe() bool {
	if len(os.Args) < 2 || os.Args[1] != "serve" {
		return false
	}

	cfg := loadConfig()
	addr := cfg.Serve.Listen

	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-addr", "--addr":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "Flag %s needs a value\n", args[i])
				os.Exit(2)
			}
			i++
			addr = args[i]
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag: %s\n", args[i])
			os.Exit(2)
		}
	}

	srv, err := service.NewServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("packsig canonicalizer listening on %s\n", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return true
}

func Run() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			// Print stack trace for debugging
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	// Set test mode flag once at startup (for go test runs).
	if os.Getenv("PACKSIG_TEST_MODE") == "1" {
		config.IsTestMode = true
	}

	// Handle version flag
	if len(os.Args) == 2 {
		switch os.Args[1] {
		case "-v", "-version", "--version":
			fmt.Println("packsig " + config.Version)
			return
		}
	}

	// Handle help first
	if handleHelp() {
		return
	}

	if handleCheck() {
		return
	}

	if handleFmt() {
		return
	}

	if handleStore() {
		return
	}

	if handleServe() {
		return
	}

	fmt.Fprint(os.Stderr, usage)
	os.Exit(2)
}
