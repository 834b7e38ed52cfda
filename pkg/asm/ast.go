package asm

// ---------------------------------------------------------------------------
// AST: parse tree for VVM assembly
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Position
	node() // marker method
}

// Item is a single top-level element of a program: a label line, an
// instruction, a value definition, or a type definition.
type Item interface {
	Node
	item() // marker method
}

// Program is a sequence of items in source order.
type Program struct {
	Items []Item
}

// Label is a bare identifier line terminated by ':'. It marks the offset of
// the next emitted instruction and emits nothing itself.
type Label struct {
	PosVal Position
	Name   string
}

func (n *Label) Pos() Position { return n.PosVal }
func (n *Label) node()         {}
func (n *Label) item()         {}

// Operand is a raw operand token. Classification (type tag, user type,
// immediate, register, or label use) happens at encode time, not parse time.
type Operand struct {
	PosVal Position
	Text   string
}

func (n *Operand) Pos() Position { return n.PosVal }
func (n *Operand) node()         {}

// Instruction is a mnemonic followed by zero or more operands.
type Instruction struct {
	PosVal   Position
	Opcode   string
	Operands []*Operand
}

func (n *Instruction) Pos() Position { return n.PosVal }
func (n *Instruction) node()         {}
func (n *Instruction) item()         {}

// ValueDef is a constant-pool directive: REGISTER '=' value.
type ValueDef struct {
	PosVal   Position
	Register string // full register text, sigil included
	Value    Expr
}

func (n *ValueDef) Pos() Position { return n.PosVal }
func (n *ValueDef) node()         {}
func (n *ValueDef) item()         {}

// TypeDef is a type-pool directive: USER_TYPE '=' '{' typelist '}'.
type TypeDef struct {
	PosVal Position
	Name   string // full type text, '$' included
	Fields []*NamedType
}

func (n *TypeDef) Pos() Position { return n.PosVal }
func (n *TypeDef) node()         {}
func (n *TypeDef) item()         {}

// NamedType is one entry of a type list: an optional quoted field name and a
// type reference (builtin name or '$'-prefixed user type).
type NamedType struct {
	PosVal Position
	Name   string // empty when unnamed
	Type   string
}

func (n *NamedType) Pos() Position { return n.PosVal }
func (n *NamedType) node()         {}

// Expr is the right-hand side of a value definition.
type Expr interface {
	Node
	expr() // marker method
}

// IntLit is an integer literal.
type IntLit struct {
	PosVal Position
	Value  int64
}

func (n *IntLit) Pos() Position { return n.PosVal }
func (n *IntLit) node()         {}
func (n *IntLit) expr()         {}

// FloatLit is a floating-point literal.
type FloatLit struct {
	PosVal Position
	Value  float64
}

func (n *FloatLit) Pos() Position { return n.PosVal }
func (n *FloatLit) node()         {}
func (n *FloatLit) expr()         {}

// StrLit is a string literal, quotes removed.
type StrLit struct {
	PosVal Position
	Value  string
}

func (n *StrLit) Pos() Position { return n.PosVal }
func (n *StrLit) node()         {}
func (n *StrLit) expr()         {}

// FuncDef is a nested function definition:
//
//	def NAME '(' typelist? ')' type ':' NEWLINE program 'end'
type FuncDef struct {
	PosVal  Position
	Name    string
	Params  []*NamedType
	RetType string
	Body    *Program
}

func (n *FuncDef) Pos() Position { return n.PosVal }
func (n *FuncDef) node()         {}
func (n *FuncDef) expr()         {}
