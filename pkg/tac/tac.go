// Package tac lowers a control flow graph into three-address code: a flat
// instruction list over monotonically allocated temporaries, in
// single-assignment form.
package tac

import (
	"fmt"

	"github.com/mellow-lang/mellowc/pkg/ast"
	"github.com/mellow-lang/mellowc/pkg/cfg"
	"github.com/mellow-lang/mellowc/pkg/compileerr"
)

// Instruction is one three-address-code operation.
type Instruction interface {
	implInstruction()
	String() string
}

type Label struct{ ID int }

func (Label) implInstruction() {}
func (i Label) String() string { return fmt.Sprintf("@%d", i.ID) }

type Integer struct {
	To    int
	Value int64
}

func (Integer) implInstruction() {}
func (i Integer) String() string { return fmt.Sprintf("#%d int %d", i.To, i.Value) }

type Get struct {
	To   int
	Name string
}

func (Get) implInstruction() {}
func (i Get) String() string { return fmt.Sprintf("#%d get $%s", i.To, i.Name) }

type Set struct {
	Name string
	From int
}

func (Set) implInstruction() {}
func (i Set) String() string { return fmt.Sprintf("$%s set #%d", i.Name, i.From) }

type String struct {
	To    int
	Value string
}

func (String) implInstruction() {}
func (i String) String() string { return fmt.Sprintf("#%d str %q", i.To, i.Value) }

type binary struct {
	To, Left, Right int
}

type Add binary
type Subtract binary
type Multiply binary
type Divide binary
type Greater binary
type Less binary
type Equal binary

func (Add) implInstruction()      {}
func (Subtract) implInstruction() {}
func (Multiply) implInstruction() {}
func (Divide) implInstruction()   {}
func (Greater) implInstruction()  {}
func (Less) implInstruction()     {}
func (Equal) implInstruction()    {}

func (i Add) String() string      { return fmt.Sprintf("#%d add #%d #%d", i.To, i.Left, i.Right) }
func (i Subtract) String() string { return fmt.Sprintf("#%d sub #%d #%d", i.To, i.Left, i.Right) }
func (i Multiply) String() string { return fmt.Sprintf("#%d mul #%d #%d", i.To, i.Left, i.Right) }
func (i Divide) String() string   { return fmt.Sprintf("#%d div #%d #%d", i.To, i.Left, i.Right) }
func (i Greater) String() string  { return fmt.Sprintf("#%d gt #%d #%d", i.To, i.Left, i.Right) }
func (i Less) String() string     { return fmt.Sprintf("#%d lt #%d #%d", i.To, i.Left, i.Right) }
func (i Equal) String() string    { return fmt.Sprintf("#%d eq #%d #%d", i.To, i.Left, i.Right) }

type Jump struct{ To int }

func (Jump) implInstruction() {}
func (i Jump) String() string { return fmt.Sprintf("jump @%d", i.To) }

type JumpIf struct {
	Condition int
	To        int
}

func (JumpIf) implInstruction() {}
func (i JumpIf) String() string { return fmt.Sprintf("jump @%d if #%d", i.To, i.Condition) }

type Call struct {
	Label string
	Value int
}

func (Call) implInstruction() {}
func (i Call) String() string { return fmt.Sprintf("call %s #%d", i.Label, i.Value) }

// constructor holds the monotonic temporary counter and the growing
// instruction list while lowering a graph.
type constructor struct {
	output    []Instruction
	temporary int
}

func (c *constructor) push(instr Instruction) {
	c.output = append(c.output, instr)
}

func (c *constructor) allocate() int {
	id := c.temporary
	c.temporary++
	return id
}

// Construct lowers a control flow graph into a flat TAC instruction list.
// It fails with a LowerError if the graph contains an expression this tier
// cannot lower, such as an if-expression used for its value.
func Construct(g *cfg.Graph) ([]Instruction, error) {
	c := &constructor{}
	for id, block := range g.Blocks {
		c.push(Label{ID: id})
		if err := c.block(block); err != nil {
			return nil, err
		}
		if link, ok := g.Links[id]; ok {
			if err := c.link(link); err != nil {
				return nil, err
			}
		}
	}
	return c.output, nil
}

func (c *constructor) block(b cfg.Block) error {
	for _, stmt := range b.Statements {
		if err := c.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *constructor) link(l cfg.Link) error {
	switch v := l.(type) {
	case cfg.Direct:
		c.push(Jump{To: v.To})
		return nil
	case cfg.Branch:
		condition, err := c.expression(v.Condition)
		if err != nil {
			return err
		}
		c.push(JumpIf{Condition: condition, To: v.True})
		c.push(Jump{To: v.False})
		return nil
	default:
		panic("tac: unhandled link variant")
	}
}

func (c *constructor) statement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.Let:
		from, err := c.expression(s.Value)
		if err != nil {
			return err
		}
		c.push(Set{Name: s.Identifier.Name, From: from})
		return nil
	case ast.Assign:
		from, err := c.expression(s.Value)
		if err != nil {
			return err
		}
		c.push(Set{Name: s.Identifier.Name, From: from})
		return nil
	case ast.Debug:
		value, err := c.expression(s.Value)
		if err != nil {
			return err
		}
		c.push(Call{Label: "debug_i64", Value: value})
		return nil
	default:
		panic("tac: conditional statements are not present in a lowered control flow graph")
	}
}

// expression lowers an expression in post-order, returning the temporary
// id holding its result. An if-expression used for its value is rejected
// with a LowerError: this tier does not lower conditional expressions,
// only conditional statements (§9 of the specification this follows).
func (c *constructor) expression(expr ast.Expression) (int, error) {
	switch e := expr.(type) {
	case ast.Integer:
		id := c.allocate()
		c.push(Integer{To: id, Value: e.Value})
		return id, nil
	case ast.Identifier:
		id := c.allocate()
		c.push(Get{To: id, Name: e.Name})
		return id, nil
	case ast.Boolean:
		id := c.allocate()
		value := int64(0)
		if e.Value {
			value = 1
		}
		c.push(Integer{To: id, Value: value})
		return id, nil
	case ast.Str:
		id := c.allocate()
		c.push(String{To: id, Value: e.Value})
		return id, nil
	case ast.Unary:
		// No dedicated unary instruction at this tier: Negate desugars to
		// 0 - inner, Not desugars to 1 - inner (booleans are 0/1 ints).
		inner, err := c.expression(e.Inner)
		if err != nil {
			return 0, err
		}
		zero := c.allocate()
		var base int64 = 0
		if e.Kind == ast.Not {
			base = 1
		}
		c.push(Integer{To: zero, Value: base})
		id := c.allocate()
		c.push(Subtract{To: id, Left: zero, Right: inner})
		return id, nil
	case ast.Binary:
		left, err := c.expression(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := c.expression(e.Right)
		if err != nil {
			return 0, err
		}
		id := c.allocate()
		switch e.Kind {
		case ast.Add:
			c.push(Add{To: id, Left: left, Right: right})
		case ast.Subtract:
			c.push(Subtract{To: id, Left: left, Right: right})
		case ast.Multiply:
			c.push(Multiply{To: id, Left: left, Right: right})
		case ast.Divide:
			c.push(Divide{To: id, Left: left, Right: right})
		case ast.Greater:
			c.push(Greater{To: id, Left: left, Right: right})
		case ast.Less:
			c.push(Less{To: id, Left: left, Right: right})
		case ast.Equal:
			c.push(Equal{To: id, Left: left, Right: right})
		default:
			panic("tac: unhandled binary operator")
		}
		return id, nil
	case ast.If:
		return 0, compileerr.UnsupportedConstruct("if-expression value type")
	default:
		panic("tac: unhandled expression variant")
	}
}
