package bytecode

import (
	"sort"
	"strings"
)

// Disassemble renders an instruction stream as assembly text, one
// instruction per line, each prefixed with padding. The stream is walked by
// opcode arity; call additionally carries inline argument words counted by
// its second operand. The terminating halt is implied and not printed.
func Disassemble(code []Word, padding string) string {
	var sb strings.Builder

	ip := 0
	for ip < len(code) {
		op := Opcode(code[ip])
		info, ok := op.Info()
		if !ok {
			break
		}
		if op == OpHalt {
			break
		}
		if ip+info.Arity >= len(code) {
			break
		}

		sb.WriteString(padding)
		sb.WriteString(info.Name)
		for i := 1; i <= info.Arity; i++ {
			sb.WriteString(" ")
			sb.WriteString(Operand(code[ip+i]).String())
		}
		ip += info.Arity + 1

		if op == OpCall {
			// inline call arguments follow the fixed operands; their
			// count is the value of the second operand
			n := int(Operand(code[ip-1]).Value())
			for i := 0; i < n && ip+i < len(code); i++ {
				sb.WriteString(" ")
				sb.WriteString(Operand(code[ip+i]).String())
			}
			ip += n
		}

		sb.WriteString("\n")
	}
	return sb.String()
}

// disassembleTypes renders the type pool as directives, in id order.
func disassembleTypes(types map[TypeID][]NamedType) string {
	if len(types) == 0 {
		return ""
	}
	ids := make([]TypeID, 0, len(types))
	for id := range types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(id.String())
		sb.WriteString(" = {")
		for i, nt := range types[id] {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(nt.String())
		}
		sb.WriteString("}\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// disassembleConstants renders the constant pool as directives, in key
// order.
func disassembleConstants(constants map[Operand]Value) string {
	if len(constants) == 0 {
		return ""
	}
	keys := make([]Operand, 0, len(constants))
	for key := range constants {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(key.String())
		sb.WriteString(" = ")
		sb.WriteString(constants[key].String())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// String renders the whole program as assembly text: type directives, then
// constant directives, then the instruction listing.
func (p *Program) String() string {
	return disassembleTypes(p.Types) +
		disassembleConstants(p.Constants) +
		Disassemble(p.Instructions, "")
}
