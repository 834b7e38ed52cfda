package bytecode

import (
	"fmt"
	"strconv"
)

// Program is the unit of assembled output: the flattened instruction stream
// plus the constant and type pools. It is built once per Assemble call and
// handed to the execution engine as an immutable value.
type Program struct {
	Instructions []Word                 `cbor:"1,keyasint"`
	Constants    map[Operand]Value      `cbor:"2,keyasint"`
	Types        map[TypeID][]NamedType `cbor:"3,keyasint"`
}

// NewProgram creates an empty program with allocated pools.
func NewProgram() *Program {
	return &Program{
		Constants: make(map[Operand]Value),
		Types:     make(map[TypeID][]NamedType),
	}
}

// NamedType is one entry of a type definition or parameter list: a type
// reference with an optional field name.
type NamedType struct {
	Name string `cbor:"1,keyasint,omitempty"`
	Type TypeID `cbor:"2,keyasint"`
}

// String renders the entry in directive syntax.
func (nt NamedType) String() string {
	if nt.Name != "" {
		return "\"" + nt.Name + "\": " + nt.Type.String()
	}
	return nt.Type.String()
}

// FunctionDef is a nested function held in the constant pool: its signature
// and its own instruction stream. Function bodies never own constants or
// types; those namespaces are flat and global to the enclosing Program.
type FunctionDef struct {
	Name    string      `cbor:"1,keyasint"`
	Args    []NamedType `cbor:"2,keyasint,omitempty"`
	RetType TypeID      `cbor:"3,keyasint"`
	Body    []Word      `cbor:"4,keyasint"`
}

// ValueKind tags a constant-pool value with its type.
type ValueKind uint8

const (
	KindInt ValueKind = iota
	KindFloat
	KindStr
	KindFuncDef
)

// String returns a human-readable name for ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "string"
	case KindFuncDef:
		return "funcdef"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is a tagged constant-pool entry: a 64-bit integer, a 64-bit float, a
// string, or a nested function definition. Exactly the field selected by
// Kind is meaningful.
type Value struct {
	Kind  ValueKind    `cbor:"1,keyasint"`
	Int   int64        `cbor:"2,keyasint,omitempty"`
	Float float64      `cbor:"3,keyasint,omitempty"`
	Str   string       `cbor:"4,keyasint,omitempty"`
	Func  *FunctionDef `cbor:"5,keyasint,omitempty"`
}

// IntValue wraps an integer constant.
func IntValue(v int64) Value {
	return Value{Kind: KindInt, Int: v}
}

// FloatValue wraps a float constant.
func FloatValue(v float64) Value {
	return Value{Kind: KindFloat, Float: v}
}

// StrValue wraps a string constant.
func StrValue(v string) Value {
	return Value{Kind: KindStr, Str: v}
}

// FuncValue wraps a nested function definition.
func FuncValue(fd *FunctionDef) Value {
	return Value{Kind: KindFuncDef, Func: fd}
}

// String renders the value in directive syntax.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindStr:
		return "\"" + v.Str + "\""
	case KindFuncDef:
		fd := v.Func
		result := "def " + fd.Name + "("
		for i, arg := range fd.Args {
			if i > 0 {
				result += ", "
			}
			result += arg.String()
		}
		result += ") " + fd.RetType.String() + ":\n"
		result += Disassemble(fd.Body, "  ")
		result += "end\n"
		return result
	default:
		return fmt.Sprintf("value(%s)", v.Kind)
	}
}

// Constant returns the pool value stored under the given register slot and
// class, if present.
func (p *Program) Constant(slot uint64, mask OpMask) (Value, bool) {
	v, ok := p.Constants[EncodeOperandValue(slot, mask)]
	return v, ok
}
