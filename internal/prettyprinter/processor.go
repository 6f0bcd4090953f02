package prettyprinter

import (
	"github.com/funvibe/packsig/internal/pipeline"
)

type RenderProcessor struct{}

func (rp *RenderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() {
		return ctx
	}
	for _, sig := range ctx.Signatures {
		ctx.Rendered = append(ctx.Rendered, Canonical(sig))
	}
	return ctx
}
