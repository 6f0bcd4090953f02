package analyzer

import (
	"strings"
	"testing"

	"github.com/funvibe/packsig/internal/lexer"
	"github.com/funvibe/packsig/internal/parser"
	"github.com/funvibe/packsig/internal/pipeline"
	"github.com/funvibe/packsig/internal/prettyprinter"
	"github.com/funvibe/packsig/internal/typesystem"
)

// analyzeSource lexes, parses, then analyzes the input, returning the
// signatures and all diagnostics from every stage.
func analyzeSource(input string) ([]typesystem.Signature, []error) {
	ctx := &pipeline.PipelineContext{SourceCode: input}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	ctx = (&SemanticAnalyzerProcessor{}).Process(ctx)

	var errs []error
	for _, e := range ctx.Errors {
		errs = append(errs, e)
	}
	return ctx.Signatures, errs
}

// canonical analyzes the input and renders each signature on its own line.
func canonical(t *testing.T, input string) string {
	t.Helper()
	sigs, errs := analyzeSource(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("analysis failed:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
	var lines []string
	for _, sig := range sigs {
		lines = append(lines, prettyprinter.Canonical(sig))
	}
	return strings.Join(lines, "\n")
}

func TestAnalyzeSignatures(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"no_requirements",
			"signature Id<T>",
			"Id<T>"},
		{"explicit_shape_equality",
			"signature Zip<T..., U...> where T.shape == U.shape",
			"Zip<T..., U... where T.shape == U.shape>"},
		{"derived_equals_explicit",
			"signature Zip<T..., U...> where T.shape == U.shape { tuple (x: Int, T...) ~ (x: Int, U...) }",
			"Zip<T..., U... where T.shape == U.shape>"},
		{"derived_only",
			"signature Zip<T..., U...> { tuple (T...) ~ (U...) }",
			"Zip<T..., U... where T.shape == U.shape>"},
		{"arity_from_absorption",
			"signature Two<T...> { tuple (T...) ~ (Int, Bool) }",
			"Two<T... where T.shape == 2>"},
		{"arity_from_params_match",
			"signature Call<T..., R> { params (Int, T...) ~ (Int, Bool, String) }",
			"Call<T..., R where T.shape == 2>"},
		{"explicit_arity",
			"signature Triple<T...> where T.shape == 3",
			"Triple<T... where T.shape == 3>"},
		{"type_anchor",
			"signature One<T> where T == Int",
			"One<T where T == Int>"},
		{"param_chain_with_anchor",
			"signature Pair<T, U> where T == U, U == Int",
			"Pair<T, U where T == U, T == Int>"},
		{"groups_ordered_by_declaration",
			"signature M<T..., U..., V> where V == Int, T.shape == U.shape",
			"M<T..., U..., V where T.shape == U.shape, V == Int>"},
		{"pack_equality_couples_shapes",
			"signature Same<T..., U...> where T == U",
			"Same<T..., U... where T == U, T.shape == U.shape>"},
		{"lockstep_packs_share_shape",
			"signature Zip2<T..., U...> { params ((T, U)...) ~ (Int, Bool) }",
			"Zip2<T..., U... where T.shape == U.shape, T.shape == 2>"},
		{"redundant_assertions_collapse",
			"signature R<T..., U...> where T.shape == U.shape, U.shape == T.shape, T.shape == T.shape",
			"R<T..., U... where T.shape == U.shape>"},
		{"multiple_declarations",
			"signature A<T> where T == Int\nsignature B<U...> where U.shape == 1",
			"A<T where T == Int>\nB<U... where U.shape == 1>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := canonical(t, tc.input); got != tc.want {
				t.Errorf("canonical form mismatch:\nwant %s\ngot  %s", tc.want, got)
			}
		})
	}
}

// Whatever order requirements are written in, the canonical form is the
// same spanning chain over declaration-order representatives.
func TestAnalyzeOrderIndependence(t *testing.T) {
	want := "S<T..., U..., V... where T.shape == U.shape, U.shape == V.shape>"
	inputs := []string{
		"signature S<T..., U..., V...> where T.shape == U.shape, U.shape == V.shape",
		"signature S<T..., U..., V...> where U.shape == V.shape, T.shape == U.shape",
		"signature S<T..., U..., V...> where V.shape == T.shape, U.shape == T.shape",
		"signature S<T..., U..., V...> where U.shape == T.shape, V.shape == U.shape",
	}
	for _, input := range inputs {
		if got := canonical(t, input); got != want {
			t.Errorf("input %q:\nwant %s\ngot  %s", input, want, got)
		}
	}
}

func TestAnalyzeMatchAgainstConstrainedArity(t *testing.T) {
	// The derived T.shape == 2 merges with the explicit arity.
	got := canonical(t, "signature F<T...> where T.shape == 2 { tuple (T...) ~ (Int, Bool) }")
	want := "F<T... where T.shape == 2>"
	if got != want {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestAnalyzeFailingDeclarationIsDropped(t *testing.T) {
	input := "signature Bad<T...> where T.shape == 2, T.shape == 3\nsignature Good<U>"
	sigs, errs := analyzeSource(input)
	if len(errs) == 0 {
		t.Fatal("expected a diagnostic for the conflicting arities")
	}
	if len(sigs) != 1 || sigs[0].Name != "Good" {
		t.Fatalf("expected only the Good signature to survive, got %d", len(sigs))
	}
}
