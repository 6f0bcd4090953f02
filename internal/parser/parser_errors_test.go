package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/lexer"
	"github.com/funvibe/packsig/internal/parser"
	"github.com/funvibe/packsig/internal/pipeline"
)

// parseWithErrors runs the lexer+parser and returns all diagnostic errors.
func parseWithErrors(input string) []*diagnostics.DiagnosticError {
	ctx := &pipeline.PipelineContext{SourceCode: input}
	lp := &lexer.LexerProcessor{}
	ctx = lp.Process(ctx)
	pp := &parser.ParserProcessor{}
	ctx = pp.Process(ctx)
	return ctx.Errors
}

// expectError asserts that at least one error with the given code occurred.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

// expectNoErrors asserts parsing succeeds without errors.
func expectNoErrors(t *testing.T, input string) {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
}

// ---------------------------------------------------------------------------
// P001 — Unexpected token
// ---------------------------------------------------------------------------

func TestP001_TopLevelLiteral(t *testing.T) {
	// A file must be a sequence of signature declarations
	expectError(t, "42", diagnostics.ErrP001)
}

func TestP001_TopLevelIdentifier(t *testing.T) {
	// `zip<T>` — missing the signature keyword
	expectError(t, "zip<T>", diagnostics.ErrP001)
}

func TestP001_UnknownBodyStatement(t *testing.T) {
	// The body only accepts tuple and params statements
	e := expectError(t, "signature A<T...> { match (T...) ~ () }", diagnostics.ErrP001)
	if !strings.Contains(e.Error(), "expected 'tuple' or 'params'") {
		t.Errorf("unexpected message: %s", e.Error())
	}
}

// ---------------------------------------------------------------------------
// P002 — A specific token was expected
// ---------------------------------------------------------------------------

func TestP002_MissingSignatureName(t *testing.T) {
	expectError(t, "signature <T>", diagnostics.ErrP002)
}

func TestP002_MissingParamList(t *testing.T) {
	// `signature A T` — parameter list must follow the name
	expectError(t, "signature A T", diagnostics.ErrP002)
}

func TestP002_UnclosedParamList(t *testing.T) {
	expectError(t, "signature A<T", diagnostics.ErrP002)
}

func TestP002_EmptyParamList(t *testing.T) {
	// `<>` — at least one parameter is required
	expectError(t, "signature A<>", diagnostics.ErrP002)
}

func TestP002_UnclosedBody(t *testing.T) {
	e := expectError(t, "signature A<T...> { tuple (T...) ~ ()", diagnostics.ErrP002)
	if !strings.Contains(e.Error(), "end of file") {
		t.Errorf("unexpected message: %s", e.Error())
	}
}

func TestP002_MissingTilde(t *testing.T) {
	// Two element lists must be joined by ~
	expectError(t, "signature A<T...> { tuple (T...) (Int) }", diagnostics.ErrP002)
}

func TestP002_SingleEquals(t *testing.T) {
	// `=` is not a token; requirements use ==
	expectError(t, "signature A<T> where T = Int", diagnostics.ErrP002)
}

// ---------------------------------------------------------------------------
// P003 — Malformed type expression
// ---------------------------------------------------------------------------

func TestP003_RequirementOperandNotAType(t *testing.T) {
	expectError(t, "signature A<T> where T == ==", diagnostics.ErrP003)
}

func TestP003_LeadingCommaInTypeList(t *testing.T) {
	expectError(t, "signature A<T> { params (,) ~ () }", diagnostics.ErrP003)
}

func TestP003_TrailingCommaInGenericArgs(t *testing.T) {
	expectError(t, "signature A<T> where T == Array<Int,>", diagnostics.ErrP003)
}

// ---------------------------------------------------------------------------
// P004 — Malformed requirement
// ---------------------------------------------------------------------------

func TestP004_ShapeEqualsType(t *testing.T) {
	e := expectError(t, "signature A<T...> where T.shape == Int", diagnostics.ErrP004)
	if !strings.Contains(e.Error(), "one side is a type and the other a shape") {
		t.Errorf("unexpected message: %s", e.Error())
	}
}

func TestP004_TypeEqualsShape(t *testing.T) {
	expectError(t, "signature A<T...> where Int == T.shape", diagnostics.ErrP004)
}

func TestP004_WrongMemberAccess(t *testing.T) {
	// Only `.shape` can follow a parameter name in a requirement
	e := expectError(t, "signature A<T...> where T.count == 3", diagnostics.ErrP004)
	if !strings.Contains(e.Error(), "'.count' is not a shape reference") {
		t.Errorf("unexpected message: %s", e.Error())
	}
}

// ---------------------------------------------------------------------------
// P005 — Invalid integer literal
// ---------------------------------------------------------------------------

func TestP005_OversizedArity(t *testing.T) {
	expectError(t, "signature A<T...> where T.shape == 99999999999999999999", diagnostics.ErrP005)
}

// ---------------------------------------------------------------------------
// Error recovery — parser should continue after an error and report multiple
// ---------------------------------------------------------------------------

func TestRecovery_MultipleBadDeclarations(t *testing.T) {
	input := "signature A<>\nsignature B<>"
	errs := parseWithErrors(input)
	if len(errs) < 2 {
		t.Fatalf("expected at least 2 errors, got %d", len(errs))
	}
}

func TestRecovery_GarbageThenValidDeclaration(t *testing.T) {
	input := "foo\nsignature A<T...> where T.shape == 2"
	errs := parseWithErrors(input)
	hasP001 := false
	for _, e := range errs {
		if e.Code == diagnostics.ErrP001 {
			hasP001 = true
		}
	}
	if !hasP001 {
		t.Fatalf("expected P001 error, got: %v", errs)
	}
}

func TestRecovery_BadBodyDoesNotStopNextSignature(t *testing.T) {
	input := "signature A<T...> { tuple (T...) }\nsignature B<U...>"
	errs := parseWithErrors(input)
	if len(errs) == 0 {
		t.Fatal("expected an error for the malformed body")
	}
	// Only the broken declaration should be reported.
	for _, e := range errs {
		if e.Token.Line > 1 {
			t.Errorf("unexpected error past the broken declaration: %s", e.Error())
		}
	}
}

// ---------------------------------------------------------------------------
// Positive controls — valid code should produce no errors
// ---------------------------------------------------------------------------

func TestValid_Minimal(t *testing.T) {
	expectNoErrors(t, "signature A<T>")
}

func TestValid_PackParams(t *testing.T) {
	expectNoErrors(t, "signature Zip<T..., U...> where T.shape == U.shape")
}

func TestValid_TupleMatch(t *testing.T) {
	expectNoErrors(t, "signature Zip<T..., U...> where T.shape == U.shape {\n    tuple (x: Int, T...) ~ (x: Int, U...)\n}")
}

func TestValid_ParamsMatch(t *testing.T) {
	expectNoErrors(t, "signature Call<T..., R> {\n    params (Int, T...) ~ (Bool, Int, String, R)\n}")
}

func TestValid_FunctionTypes(t *testing.T) {
	expectNoErrors(t, "signature Apply<T..., R> { params (fn(T...) -> R) ~ (fn(Int) -> Int) }")
}

func TestValid_EmptyBody(t *testing.T) {
	expectNoErrors(t, "signature A<T> {}")
}

func TestValid_RepeatedRequirement(t *testing.T) {
	expectNoErrors(t, "signature A<T...> where T.shape == 2, T.shape == 2")
}
