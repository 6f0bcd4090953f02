package generators

import (
	"fmt"
	"math/rand"
	"strings"
)

// RandomSource is an interface for random number generation.
// It allows us to use both math/rand (for seed-based generation)
// and fuzzer data (for coverage-guided generation).
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// RandSource wraps math/rand.Rand.
type RandSource struct {
	r *rand.Rand
}

func (s *RandSource) Intn(n int) int   { return s.r.Intn(n) }
func (s *RandSource) Float64() float64 { return s.r.Float64() }

// ByteSource consumes bytes from fuzzer input for randomness.
// When bytes run out, it returns zeros, making generation deterministic
// on the remaining structure.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos]) % n
	s.pos++
	return v
}

func (s *ByteSource) Float64() float64 {
	if s.pos >= len(s.data) {
		return 0
	}
	v := float64(s.data[s.pos]) / 256.0
	s.pos++
	return v
}

// Generator produces random signature source text that is syntactically
// valid: every output must survive the lexer and parser with no
// diagnostics. Semantic conflicts (e.g. the same pack constrained to two
// different arities) are fair game and left for the analyzer to report.
type Generator struct {
	src   RandomSource
	decls int
}

// MaxSignatures bounds how many declarations one file carries.
const MaxSignatures = 3

var (
	packNames     = []string{"T", "U", "V", "S", "R"}
	concreteNames = []string{"Int", "Bool", "String", "Float", "Char"}
	labelNames    = []string{"x", "y", "head", "tail", "key"}
)

// New creates a generator seeded from math/rand.
func New(seed int64) *Generator {
	return &Generator{src: &RandSource{r: rand.New(rand.NewSource(seed))}}
}

// NewFromData creates a generator driven by fuzzer bytes.
func NewFromData(data []byte) *Generator {
	return &Generator{src: &ByteSource{data: data}}
}

// genParam tracks one generic parameter of the signature being generated,
// so requirements and statements only reference names that are declared.
type genParam struct {
	name string
	pack bool
}

// GenerateFile produces a small source file of 1..MaxSignatures
// declarations separated by noise.
func (g *Generator) GenerateFile() string {
	var sb strings.Builder
	count := g.src.Intn(MaxSignatures) + 1
	for i := 0; i < count; i++ {
		sb.WriteString(g.GenerateNoise())
		sb.WriteString(g.GenerateSignature())
		sb.WriteString("\n")
	}
	sb.WriteString(g.GenerateNoise())
	return sb.String()
}

// GenerateSignature produces one signature declaration with a fresh name,
// 1..4 generic parameters, optional where clause and optional body.
func (g *Generator) GenerateSignature() string {
	params := g.generateParams()
	g.decls++

	var sb strings.Builder
	fmt.Fprintf(&sb, "signature Gen%d<", g.decls)
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.name)
		if p.pack {
			sb.WriteString("...")
		}
	}
	sb.WriteString(">")

	if reqs := g.generateRequirements(params); len(reqs) > 0 {
		sb.WriteString(" where ")
		sb.WriteString(strings.Join(reqs, ", "))
	}

	if stmts := g.generateStatements(params); len(stmts) > 0 {
		sb.WriteString(" {\n")
		for _, stmt := range stmts {
			sb.WriteString("    ")
			sb.WriteString(stmt)
			sb.WriteString("\n")
		}
		sb.WriteString("}")
	}
	return sb.String()
}

func (g *Generator) generateParams() []genParam {
	count := g.src.Intn(4) + 1
	params := make([]genParam, 0, count)
	for i := 0; i < count; i++ {
		params = append(params, genParam{
			name: packNames[i],
			pack: g.src.Float64() < 0.6,
		})
	}
	return params
}

func filterParams(params []genParam, pack bool) []genParam {
	var out []genParam
	for _, p := range params {
		if p.pack == pack {
			out = append(out, p)
		}
	}
	return out
}

// generateRequirements emits 0..2 where clauses. Shape requirements only
// compare shape operands and type requirements only compare types; the
// parser rejects mixed forms, so the generator never produces them.
func (g *Generator) generateRequirements(params []genParam) []string {
	packs := filterParams(params, true)
	scalars := filterParams(params, false)

	var reqs []string
	count := g.src.Intn(3)
	for i := 0; i < count; i++ {
		switch g.src.Intn(3) {
		case 0:
			if len(packs) >= 2 {
				a := packs[g.src.Intn(len(packs))]
				b := packs[g.src.Intn(len(packs))]
				reqs = append(reqs, fmt.Sprintf("%s.shape == %s.shape", a.name, b.name))
				continue
			}
			fallthrough
		case 1:
			if len(packs) > 0 {
				p := packs[g.src.Intn(len(packs))]
				reqs = append(reqs, fmt.Sprintf("%s.shape == %d", p.name, g.src.Intn(4)))
				continue
			}
			fallthrough
		default:
			if len(scalars) > 0 {
				p := scalars[g.src.Intn(len(scalars))]
				reqs = append(reqs, fmt.Sprintf("%s == %s", p.name, g.concrete()))
			}
		}
	}
	return reqs
}

// generateStatements emits 0..2 body statements built from templates that
// are guaranteed to parse and to satisfy the structural rules: tuple
// expansions are last or followed by a labeled element, and parameter
// lists carry at most one expansion.
func (g *Generator) generateStatements(params []genParam) []string {
	packs := filterParams(params, true)
	if len(packs) == 0 {
		return nil
	}

	var stmts []string
	count := g.src.Intn(3)
	for i := 0; i < count; i++ {
		p := packs[g.src.Intn(len(packs))]
		switch g.src.Intn(5) {
		case 0:
			// Trailing expansion absorbing a concrete run.
			stmts = append(stmts, fmt.Sprintf("tuple (%s...) ~ (%s)",
				p.name, g.concreteList(g.src.Intn(3)+1)))
		case 1:
			// Two expansions behind a shared labeled prefix.
			label := g.label()
			c := g.concrete()
			q := packs[g.src.Intn(len(packs))]
			stmts = append(stmts, fmt.Sprintf("tuple (%s: %s, %s...) ~ (%s: %s, %s...)",
				label, c, p.name, label, c, q.name))
		case 2:
			// Expansion bounded by a labeled element.
			label := g.label()
			c := g.concrete()
			stmts = append(stmts, fmt.Sprintf("tuple (%s..., %s: %s) ~ (%s, %s: %s)",
				p.name, label, c, g.concreteList(g.src.Intn(3)+1), label, c))
		case 3:
			// Lockstep expansion of an applied pattern.
			q := packs[g.src.Intn(len(packs))]
			stmts = append(stmts, fmt.Sprintf("params (Array<%s>...) ~ (Array<%s>...)",
				p.name, q.name))
		default:
			// Shared concrete head, expansion absorbing the rest.
			c := g.concrete()
			stmts = append(stmts, fmt.Sprintf("params (%s, %s...) ~ (%s, %s)",
				c, p.name, c, g.concreteList(g.src.Intn(3)+1)))
		}
	}
	return stmts
}

func (g *Generator) concrete() string {
	return concreteNames[g.src.Intn(len(concreteNames))]
}

func (g *Generator) label() string {
	return labelNames[g.src.Intn(len(labelNames))]
}

func (g *Generator) concreteList(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.concrete()
	}
	return strings.Join(parts, ", ")
}

// GenerateNoise produces whitespace and comments that the lexer must skip.
func (g *Generator) GenerateNoise() string {
	if g.src.Float64() >= 0.3 {
		return ""
	}
	switch g.src.Intn(4) {
	case 0:
		return "\n"
	case 1:
		return "\n\n"
	case 2:
		return "// " + g.concrete() + "\n"
	default:
		return "\t\n"
	}
}
