package analyzer

import (
	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/pipeline"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	file, ok := ctx.AstRoot.(*ast.File)
	if !ok {
		return ctx
	}

	analyzer := New()
	sigs, errors := analyzer.Analyze(file)
	ctx.Signatures = sigs

	for _, err := range errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	ctx.Errors = append(ctx.Errors, errors...)

	return ctx
}
