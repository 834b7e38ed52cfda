package bytecode

import (
	"fmt"
	"strconv"
)

// Word is one fixed-width slot of the instruction stream. An instruction is
// an opcode word followed by its operand words, flattened with no explicit
// boundaries beyond what opcode arity implies.
type Word uint64

// Operand is a tagged word: the payload value shifted left by three bits,
// with the low bits holding an OpMask that says what the payload represents.
type Operand uint64

// OpMask tags an operand's least-significant bits.
type OpMask Operand

const (
	// MaskImmediate marks a small scalar integer immediate.
	MaskImmediate OpMask = 0

	// MaskLocal marks a local value register ('%' sigil).
	MaskLocal OpMask = 1

	// MaskGlobal marks a global register ('@' sigil).
	MaskGlobal OpMask = 2

	// MaskState marks a state register ('*' sigil).
	MaskState OpMask = 3

	// MaskType marks a type parameter; the payload is an encoded TypeID.
	MaskType OpMask = 4
)

const operandTagBits = 3

// String returns the sigil (or descriptive name) for an operand mask.
func (m OpMask) String() string {
	switch m {
	case MaskImmediate:
		return "immediate"
	case MaskLocal:
		return "%"
	case MaskGlobal:
		return "@"
	case MaskState:
		return "*"
	case MaskType:
		return "type"
	default:
		return fmt.Sprintf("OpMask(%d)", Operand(m))
	}
}

// TypeID is a tagged type word: the type number shifted left by one bit,
// with the low bit holding a TypeMask.
type TypeID uint64

// TypeMask tags a type with where it is defined.
type TypeMask TypeID

const (
	// TypeBuiltIn marks one of the builtin scalar/vector types.
	TypeBuiltIn TypeMask = 0

	// TypeUserDefined marks a '$'-prefixed user-defined type.
	TypeUserDefined TypeMask = 1
)

const typeTagBits = 1

// isSmallInt reports whether n survives tagging with the given bit count.
func isSmallInt(n uint64, bits uint) bool {
	return (n<<bits)>>bits == n
}

// EncodeType resolves a type name to its tagged id. Builtin names come from
// the fixed type table; '$N' references user-defined type N.
func EncodeType(s string) (TypeID, error) {
	var num uint64
	var mask TypeMask
	if len(s) > 0 && s[0] == '$' {
		n, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid user-defined type %q", s)
		}
		num = n
		mask = TypeUserDefined
	} else {
		n, err := encodeBuiltinType(s)
		if err != nil {
			return 0, err
		}
		num = n
		mask = TypeBuiltIn
	}
	if !isSmallInt(num, typeTagBits) {
		return 0, fmt.Errorf("type %d is too large to be represented in %d bytes", num, 8)
	}
	return EncodeTypeValue(num, mask), nil
}

// EncodeTypeValue tags a standalone number as a type id.
func EncodeTypeValue(num uint64, mask TypeMask) TypeID {
	return TypeID(num<<typeTagBits) | TypeID(mask)
}

// Mask returns the type's tag.
func (t TypeID) Mask() TypeMask {
	return TypeMask(t & 1)
}

// Value returns the untagged type number.
func (t TypeID) Value() uint64 {
	return uint64(t >> typeTagBits)
}

// String renders a type id back to its assembly spelling.
func (t TypeID) String() string {
	num := t.Value()
	switch t.Mask() {
	case TypeUserDefined:
		return "$" + strconv.FormatUint(num, 10)
	default:
		if int(num) < len(typeStrings) {
			return typeStrings[num]
		}
		return fmt.Sprintf("type(%d)", num)
	}
}

// EncodeOperand classifies an operand token and encodes it as a tagged word.
// The token may be an integer immediate, a sigil-prefixed register
// reference, or a type name; anything else is an encoding error.
func EncodeOperand(s string) (Operand, error) {
	if s == "" {
		return 0, fmt.Errorf("empty operand")
	}
	var num uint64
	var mask OpMask
	switch {
	case s[0] >= '0' && s[0] <= '9':
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid immediate %q", s)
		}
		num = n
		mask = MaskImmediate
	case s[0] == '%':
		n, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid register %q", s)
		}
		num = n
		mask = MaskLocal
	case s[0] == '@':
		n, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid register %q", s)
		}
		num = n
		mask = MaskGlobal
	case s[0] == '*':
		n, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid register %q", s)
		}
		num = n
		mask = MaskState
	default:
		t, err := EncodeType(s)
		if err != nil {
			return 0, err
		}
		num = uint64(t)
		mask = MaskType
	}
	if !isSmallInt(num, operandTagBits) {
		return 0, fmt.Errorf("operand %d is too large to be represented in %d bytes", num, 8)
	}
	return EncodeOperandValue(num, mask), nil
}

// EncodeOperandValue tags a standalone number as an operand word.
func EncodeOperandValue(num uint64, mask OpMask) Operand {
	return Operand(num<<operandTagBits) | Operand(mask)
}

// Mask returns the operand's tag.
func (op Operand) Mask() OpMask {
	return OpMask(op & 7)
}

// Value returns the untagged payload.
func (op Operand) Value() uint64 {
	return uint64(op >> operandTagBits)
}

// String renders an operand back to its assembly spelling.
func (op Operand) String() string {
	num := op.Value()
	switch op.Mask() {
	case MaskImmediate:
		return strconv.FormatUint(num, 10)
	case MaskLocal:
		return "%" + strconv.FormatUint(num, 10)
	case MaskGlobal:
		return "@" + strconv.FormatUint(num, 10)
	case MaskState:
		return "*" + strconv.FormatUint(num, 10)
	case MaskType:
		return TypeID(num).String()
	default:
		return fmt.Sprintf("operand(%d)", uint64(op))
	}
}

// VerifyIsType ensures an operand carries a type tag. The execution engine
// relies on this for opcodes whose first operand is a type parameter.
func VerifyIsType(op Operand) error {
	if op.Mask() != MaskType {
		return fmt.Errorf("was expecting type but got %s", op)
	}
	return nil
}

// VerifyUserDefined ensures a type id refers to a user-defined type.
func VerifyUserDefined(t TypeID) error {
	if t.Mask() != TypeUserDefined {
		return fmt.Errorf("was expecting user-defined type but got %s", t)
	}
	return nil
}
