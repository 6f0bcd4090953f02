package parser

import (
	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/pipeline"
	"github.com/funvibe/packsig/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		// This case should ideally not be hit if lexer runs first, but as a safeguard:
		err := diagnostics.NewError("P000", token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	parser := New(ctx.TokenStream, ctx)
	ctx.AstRoot = parser.ParseFile()

	if file, ok := ctx.AstRoot.(*ast.File); ok {
		file.Path = ctx.FilePath
	}

	// Ensure all errors have file path set
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}

	return ctx
}
