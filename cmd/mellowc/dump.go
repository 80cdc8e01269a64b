package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mellow-lang/mellowc/pkg/ast"
	"github.com/mellow-lang/mellowc/pkg/cfg"
	"github.com/mellow-lang/mellowc/pkg/symtab"
	"github.com/mellow-lang/mellowc/pkg/tac"
)

func dumpBody(w io.Writer, body ast.Body) {
	fmt.Fprintln(w, "-- ast --")
	for _, stmt := range body {
		dumpStatement(w, stmt, 0)
	}
}

func dumpStatement(w io.Writer, stmt ast.Statement, depth int) {
	indent := strings.Repeat("  ", depth)
	switch s := stmt.(type) {
	case ast.Let:
		fmt.Fprintf(w, "%slet %s (mutable=%v) = %s\n", indent, s.Identifier.Name, s.Mutable, dumpExpression(s.Value))
	case ast.Assign:
		fmt.Fprintf(w, "%s%s = %s\n", indent, s.Identifier.Name, dumpExpression(s.Value))
	case ast.While:
		fmt.Fprintf(w, "%swhile %s do\n", indent, dumpExpression(s.Condition))
		for _, inner := range s.Body {
			dumpStatement(w, inner, depth+1)
		}
		fmt.Fprintf(w, "%send\n", indent)
	case ast.Debug:
		fmt.Fprintf(w, "%sdebug %s\n", indent, dumpExpression(s.Value))
	case ast.If:
		dumpBranch(w, "if", s.If, depth)
		for _, branch := range s.Or {
			dumpBranch(w, "or", branch, depth)
		}
		if s.Else != nil {
			fmt.Fprintf(w, "%selse\n", indent)
			for _, inner := range *s.Else {
				dumpStatement(w, inner, depth+1)
			}
		}
		fmt.Fprintf(w, "%send\n", indent)
	default:
		fmt.Fprintf(w, "%s<unhandled statement %T>\n", indent, stmt)
	}
}

func dumpBranch(w io.Writer, keyword string, branch ast.Branch, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s %s then\n", indent, keyword, dumpExpression(branch.Condition))
	for _, inner := range branch.Body {
		dumpStatement(w, inner, depth+1)
	}
}

func dumpExpression(expr ast.Expression) string {
	switch e := expr.(type) {
	case ast.Integer:
		return fmt.Sprintf("%d", e.Value)
	case ast.Boolean:
		return fmt.Sprintf("%v", e.Value)
	case ast.Str:
		return fmt.Sprintf("%q", e.Value)
	case ast.Identifier:
		return e.Name
	case ast.Unary:
		return fmt.Sprintf("(%s %s)", e.Kind, dumpExpression(e.Inner))
	case ast.Binary:
		return fmt.Sprintf("(%s %s %s)", dumpExpression(e.Left), e.Kind, dumpExpression(e.Right))
	default:
		return fmt.Sprintf("<unhandled expression %T>", expr)
	}
}

func dumpTable(w io.Writer, t *symtab.Table) {
	fmt.Fprintln(w, "-- symbol table --")
	for _, name := range t.Names() {
		meta, _ := t.Variable(name)
		fmt.Fprintf(w, "var %s: %s (mutable=%v)\n", name, meta.Type, meta.Mutable)
	}
	for _, name := range t.Functions() {
		meta, _ := t.Function(name)
		fmt.Fprintf(w, "func %s (external=%v)\n", name, meta.External)
	}
}

func dumpGraph(w io.Writer, g *cfg.Graph) {
	fmt.Fprintln(w, "-- cfg --")
	for id, block := range g.Blocks {
		if block.Empty {
			fmt.Fprintf(w, "block %d: empty\n", id)
		} else {
			fmt.Fprintf(w, "block %d: %d statement(s)\n", id, len(block.Statements))
		}
		switch link := g.Links[id].(type) {
		case cfg.Direct:
			fmt.Fprintf(w, "  -> %d\n", link.To)
		case cfg.Branch:
			fmt.Fprintf(w, "  -> %d if condition else %d\n", link.True, link.False)
		}
	}
}

func dumpInstructions(w io.Writer, instructions []tac.Instruction) {
	fmt.Fprintln(w, "-- tac --")
	for _, instr := range instructions {
		fmt.Fprintln(w, instr.String())
	}
}
