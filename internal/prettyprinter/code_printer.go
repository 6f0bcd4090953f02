package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/packsig/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
	step   string
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{step: "    "}
}

func NewCodePrinterWithIndent(width int) *CodePrinter {
	if width <= 0 {
		width = 4
	}
	return &CodePrinter{step: strings.Repeat(" ", width)}
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString(p.step)
	}
}

func (p *CodePrinter) PrintFile(file *ast.File) {
	for i, sig := range file.Signatures {
		if i > 0 {
			p.writeln()
		}
		p.PrintSignature(sig)
	}
}

func (p *CodePrinter) PrintSignature(sig *ast.SignatureDecl) {
	p.write("signature ")
	if sig.Name != nil {
		p.write(sig.Name.Value)
	} else {
		p.write("<???>")
	}
	p.write("<")
	for i, gp := range sig.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(gp.Name.Value)
		if gp.Pack {
			p.write("...")
		}
	}
	p.write(">")

	if len(sig.Where) > 0 {
		p.write(" where ")
		for i, req := range sig.Where {
			if i > 0 {
				p.write(", ")
			}
			p.printRequirement(req)
		}
	}

	// An empty body prints without braces; {} and no body read the same.
	if len(sig.Stmts) == 0 {
		p.writeln()
		return
	}

	p.write(" {")
	p.writeln()
	p.indent++
	for _, stmt := range sig.Stmts {
		p.writeIndent()
		p.printStmt(stmt)
		p.writeln()
	}
	p.indent--
	p.write("}")
	p.writeln()
}

func (p *CodePrinter) printStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.TupleMatch:
		p.write("tuple ")
		p.printType(s.Left)
		p.write(" ~ ")
		p.printType(s.Right)
	case *ast.ParamsMatch:
		p.write("params (")
		for i, t := range s.Left {
			if i > 0 {
				p.write(", ")
			}
			p.printType(t)
		}
		p.write(") ~ (")
		for i, t := range s.Right {
			if i > 0 {
				p.write(", ")
			}
			p.printType(t)
		}
		p.write(")")
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printRequirement(req ast.Requirement) {
	switch r := req.(type) {
	case *ast.TypeRequirement:
		p.printType(r.Left)
		p.write(" == ")
		p.printType(r.Right)
	case *ast.ShapeRequirement:
		p.printShapeOperand(r.Left)
		p.write(" == ")
		p.printShapeOperand(r.Right)
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printShapeOperand(op ast.ShapeOperand) {
	switch o := op.(type) {
	case *ast.ShapeOf:
		p.write(o.Param.Value)
		p.write(".shape")
	case *ast.ArityLit:
		p.write(strconv.Itoa(o.Value))
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printType(t ast.Type) {
	if t == nil {
		p.write("<???>")
		return
	}
	switch n := t.(type) {
	case *ast.NamedType:
		p.write(n.Name.Value)
		if len(n.Args) > 0 {
			p.write("<")
			for i, a := range n.Args {
				if i > 0 {
					p.write(", ")
				}
				p.printType(a)
			}
			p.write(">")
		}
	case *ast.TupleType:
		p.write("(")
		for i, el := range n.Elements {
			if i > 0 {
				p.write(", ")
			}
			if el.Label != nil {
				p.write(el.Label.Value)
				p.write(": ")
			}
			p.printType(el.Type)
		}
		p.write(")")
	case *ast.ExpansionType:
		p.printType(n.Pattern)
		p.write("...")
	case *ast.FunctionType:
		p.write("fn(")
		for i, pt := range n.Params {
			if i > 0 {
				p.write(", ")
			}
			p.printType(pt)
		}
		p.write(") -> ")
		p.printType(n.Result)
	default:
		p.write("<???>")
	}
}
