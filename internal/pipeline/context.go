package pipeline

import (
	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/token"
	"github.com/funvibe/packsig/internal/typesystem"
)

// PipelineContext carries one source file through the stages. Each stage
// reads the fields of earlier stages, fills in its own output and appends
// diagnostics; a stage that finds its input missing leaves the context
// untouched.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	TokenStream []token.Token
	AstRoot     ast.Node
	Signatures  []typesystem.Signature
	Rendered    []string

	Errors []*diagnostics.DiagnosticError
}

// NewPipelineContext wraps raw source in a fresh context.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}
