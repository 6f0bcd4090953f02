package prettyprinter

import (
	"strings"

	"github.com/funvibe/packsig/internal/typesystem"
)

// Canonical renders an analyzed signature on one line, with its minimized
// requirement set inside the angle brackets:
//
//	Zip<T..., U... where T.shape == U.shape>
//
// Two signatures with the same parameters and equivalent constraints render
// identically, whatever order their requirements were declared in.
func Canonical(sig typesystem.Signature) string {
	var b strings.Builder
	b.WriteString(sig.Name)
	b.WriteString("<")
	for i, gp := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(gp.Name)
		if gp.IsPack {
			b.WriteString("...")
		}
	}
	if !sig.Requirements.Empty() {
		b.WriteString(" where ")
		b.WriteString(sig.Requirements.String())
	}
	b.WriteString(">")
	return b.String()
}
