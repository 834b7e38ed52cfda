package bytecode

import (
	"fmt"
	"os"

	"github.com/vvm-lang/vvm/pkg/asm"
)

// Assemble converts assembly text into an executable Program. When dump is
// set the finished program is also written to stdout as disassembled text;
// this is a diagnostic side effect and does not alter the returned value.
func Assemble(text string, dump bool) (*Program, error) {
	tree, err := asm.Parse(text)
	if err != nil {
		return nil, err
	}

	var a assembler
	program, err := a.program(tree)
	if err != nil {
		return nil, err
	}

	if dump {
		fmt.Fprintln(os.Stdout, program.String())
	}
	return program, nil
}

// assembler drives one top-to-bottom walk of the parse tree. All state is
// local to a single Assemble call; nothing persists between invocations.
type assembler struct{}

// program assembles one program node: a top-level program or a function
// body. Each gets its own instruction stream and its own label scope.
func (a *assembler) program(tree *asm.Program) (*Program, error) {
	p := NewProgram()
	lb := newLabeler()

	for _, item := range tree.Items {
		switch it := item.(type) {
		case *asm.Label:
			// resolves to the next instruction to be emitted
			lb.setLocation(it.Name, len(p.Instructions))

		case *asm.Instruction:
			if err := a.instruction(p, lb, it); err != nil {
				return nil, err
			}

		case *asm.ValueDef:
			if err := a.valueDef(p, it); err != nil {
				return nil, err
			}

		case *asm.TypeDef:
			if err := a.typeDef(p, it); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("unexpected item %T", item)
		}
	}

	// every program ends with exactly one implicit halt
	p.Instructions = append(p.Instructions, Word(OpHalt))

	if err := lb.resolve(p.Instructions); err != nil {
		return nil, err
	}
	return p, nil
}

// instruction encodes one opcode and its operands into the stream. An
// operand that fails strict encoding but has identifier syntax is
// reinterpreted as a label use: a placeholder word is emitted and a patch
// site registered, carrying the original failure for diagnostics.
func (a *assembler) instruction(p *Program, lb *labeler, instr *asm.Instruction) error {
	op, err := EncodeOpcode(instr.Opcode)
	if err != nil {
		return err
	}
	p.Instructions = append(p.Instructions, Word(op))

	for _, operand := range instr.Operands {
		w, err := EncodeOperand(operand.Text)
		if err != nil {
			if !isLabelName(operand.Text) {
				return err
			}
			lb.appendDep(operand.Text, len(p.Instructions), err)
			w = EncodeOperandValue(0, MaskImmediate)
		}
		p.Instructions = append(p.Instructions, Word(w))
	}
	return nil
}

// valueDef captures a constant-pool directive: REGISTER '=' value. The pool
// key is the encoded register operand, so slot and register class both
// survive into the Program.
func (a *assembler) valueDef(p *Program, def *asm.ValueDef) error {
	key, err := EncodeOperand(def.Register)
	if err != nil {
		return err
	}

	var value Value
	switch v := def.Value.(type) {
	case *asm.IntLit:
		value = IntValue(v.Value)
	case *asm.FloatLit:
		value = FloatValue(v.Value)
	case *asm.StrLit:
		value = StrValue(v.Value)
	case *asm.FuncDef:
		fd, err := a.funcDef(v)
		if err != nil {
			return err
		}
		value = FuncValue(fd)
	default:
		return fmt.Errorf("unexpected value %T", def.Value)
	}

	p.Constants[key] = value
	return nil
}

// typeDef captures a type-pool directive: USER_TYPE '=' '{' fields '}'.
func (a *assembler) typeDef(p *Program, def *asm.TypeDef) error {
	id, err := EncodeType(def.Name)
	if err != nil {
		return err
	}

	fields, err := a.typeList(def.Fields)
	if err != nil {
		return err
	}
	p.Types[id] = fields
	return nil
}

// typeList encodes a named-type list (type-definition fields or function
// parameters).
func (a *assembler) typeList(list []*asm.NamedType) ([]NamedType, error) {
	var out []NamedType
	for _, nt := range list {
		t, err := EncodeType(nt.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, NamedType{Name: nt.Name, Type: t})
	}
	return out, nil
}

// funcDef assembles a nested function body recursively, with its own
// instruction stream and label scope. A body that declares constants or
// types violates the flat-namespace invariant.
func (a *assembler) funcDef(node *asm.FuncDef) (*FunctionDef, error) {
	fd := &FunctionDef{Name: node.Name}

	args, err := a.typeList(node.Params)
	if err != nil {
		return nil, err
	}
	fd.Args = args

	fd.RetType, err = EncodeType(node.RetType)
	if err != nil {
		return nil, err
	}

	body, err := a.program(node.Body)
	if err != nil {
		return nil, err
	}
	if len(body.Constants) > 0 {
		return nil, fmt.Errorf("cannot nest a constant pool in a function: %s", fd.Name)
	}
	if len(body.Types) > 0 {
		return nil, fmt.Errorf("cannot nest type definitions in a function: %s", fd.Name)
	}
	fd.Body = body.Instructions
	return fd, nil
}

// isLabelName reports whether a token has label (identifier) syntax. Only
// such tokens take the label fallback; malformed registers, type refs, and
// immediates stay hard errors.
func isLabelName(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
