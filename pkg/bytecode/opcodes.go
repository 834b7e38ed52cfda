package bytecode

import "fmt"

// Opcode identifies an operation; it is an index into the opcode table. The
// table and each opcode's operand arity are owned by the execution engine;
// the assembler treats them as a fixed contract.
type Opcode uint64

// OpcodeInfo provides metadata about each opcode.
type OpcodeInfo struct {
	Name  string // assembly mnemonic
	Arity int    // number of operand words following the opcode
}

// Builtin type vocabulary. Every builtin type exists in a scalar ('s'
// suffix) and vector ('v' suffix) form; the id is the index into this table.
var typeStrings []string

// opcodeTable holds every opcode's metadata, indexed by Opcode.
var opcodeTable []OpcodeInfo

// opcodeEncoder maps mnemonic text to its Opcode.
var opcodeEncoder map[string]Opcode

// OpHalt and OpCall are fixed points of the table referenced by the
// assembler and disassembler.
var (
	OpHalt Opcode
	OpCall Opcode
)

// base type short names, in type-id order
var baseTypes = []string{"i64", "f64", "b8", "S", "c8", "T", "D", "TI", "DA"}

// type groups used when generating opcode families; ordering matters because
// opcode ids are assigned in generation order
var (
	integerTypes    = []string{"i64"}
	floatTypes      = []string{"f64"}
	boolTypes       = []string{"b8"}
	stringTypes     = []string{"S"}
	charTypes       = []string{"c8"}
	timestampTypes  = []string{"T"}
	timedeltaTypes  = []string{"D"}
	timeTypes       = []string{"TI"}
	dateTypes       = []string{"DA"}
	arithmeticTypes = []string{"i64", "f64"}
	timeishTypes    = []string{"T", "TI", "DA"}
	allTypes        = []string{"i64", "f64", "b8", "S", "c8", "T", "TI", "DA", "D"}
)

// binaryForms are the scalar/vector combinations of a binary operator's two
// inputs; unaryForms likewise for one input.
var binaryForms = [][2]string{{"s", "s"}, {"s", "v"}, {"v", "s"}, {"v", "v"}}
var unaryForms = []string{"s", "v"}

func init() {
	buildTypeStrings()
	buildOpcodeTable()
}

func buildTypeStrings() {
	typeStrings = make([]string, 0, 2*len(baseTypes))
	for _, t := range baseTypes {
		typeStrings = append(typeStrings, t+"s", t+"v")
	}
}

func concatGroups(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// buildOpcodeTable constructs the full opcode table. Core opcodes come
// first, then the typed families: casts, print, binary and unary operators,
// reductions, string and time arithmetic, timedelta unit literals, and the
// vector wrappers. Ids are assigned in emission order.
func buildOpcodeTable() {
	opcodeEncoder = make(map[string]Opcode)

	emit := func(name string, arity int) {
		opcodeEncoder[name] = Opcode(len(opcodeTable))
		opcodeTable = append(opcodeTable, OpcodeInfo{Name: name, Arity: arity})
	}
	emitUnary := func(op string, types []string) {
		for _, f := range unaryForms {
			for _, t := range types {
				emit(op+"_"+t+f, 2)
			}
		}
	}
	// binary operators whose two inputs share one type
	sameType := func(ops []string, types []string) {
		for _, op := range ops {
			for _, f := range binaryForms {
				for _, t := range types {
					emit(op+"_"+t+f[0]+"_"+t+f[1], 3)
				}
			}
		}
	}

	// core opcodes
	core := []OpcodeInfo{
		{"halt", 0},
		{"alloc", 2},
		{"write", 1},
		{"save", 1},
		{"member", 3},
		{"assign", 3},
		{"append", 3},
		{"repr", 3},
		{"load", 3},
		{"store", 4},
		{"where", 4},
		{"br", 1},
		{"btrue", 2},
		{"bfalse", 2},
		{"ret", 1},
		{"call", 2},
		{"isort", 3},
		{"multidx", 4},
		{"group", 8},
		{"eqmatch", 5},
		{"asofmatch", 7},
		{"asofnear", 7},
		{"asofwithin", 8},
		{"eqasofmatch", 10},
		{"eqasofnear", 10},
		{"eqasofwithin", 11},
		{"take", 4},
		{"concat", 4},
		{"now_Ts", 1},
	}
	for _, c := range core {
		emit(c.Name, c.Arity)
	}

	// casts: target-type group paired with the source types it accepts
	castPairs := []struct{ tgts, srcs []string }{
		{stringTypes, allTypes},
		{integerTypes, allTypes},
		{floatTypes, concatGroups(floatTypes, integerTypes, stringTypes)},
		{charTypes, concatGroups(charTypes, integerTypes)},
		{boolTypes, boolTypes},
		{timestampTypes, concatGroups(timeishTypes, integerTypes, stringTypes)},
		{timedeltaTypes, concatGroups(timedeltaTypes, integerTypes, stringTypes)},
		{timeTypes, concatGroups(timestampTypes, timeTypes, integerTypes, stringTypes)},
		{dateTypes, concatGroups(timestampTypes, dateTypes, integerTypes, stringTypes)},
	}
	for _, pair := range castPairs {
		for _, tgt := range pair.tgts {
			for _, src := range pair.srcs {
				for _, f := range unaryForms {
					emit("cast_"+src+f+"_"+tgt+f, 2)
				}
			}
		}
	}

	// print
	for _, f := range unaryForms {
		for _, t := range allTypes {
			emit("print_"+t+f, 2)
		}
	}

	// binary operators
	sameType([]string{"or", "and"}, boolTypes)
	sameType([]string{"bitand", "bitor", "lshift", "rshift", "mod"}, integerTypes)
	sameType([]string{"add", "sub", "mul", "div"}, arithmeticTypes)
	sameType([]string{"lt", "gt", "eq", "ne", "lte", "gte"}, allTypes)

	// unary operators
	emitUnary("not", boolTypes)
	for _, op := range []string{"neg", "pos"} {
		emitUnary(op, arithmeticTypes)
	}
	for _, op := range []string{"sin", "cos", "tan", "asin", "acos", "atan",
		"sinh", "cosh", "tanh", "asinh", "acosh", "atanh"} {
		emitUnary(op, floatTypes)
	}

	// reduce aggregators
	for _, op := range []string{"sum", "prod"} {
		for _, t := range arithmeticTypes {
			emit(op+"_"+t+"v", 2)
		}
	}

	// string concatenation and reduction
	sameType([]string{"add"}, stringTypes)
	emit("sum_Sv", 2)

	// time arithmetic
	sameType([]string{"sub"}, timeishTypes)
	for _, op := range []string{"add", "sub", "mul", "div", "bar"} {
		for _, f := range binaryForms {
			for _, t1 := range concatGroups(timeishTypes, timedeltaTypes) {
				for _, t2 := range timedeltaTypes {
					emit(op+"_"+t1+f[0]+"_"+t2+f[1], 3)
				}
			}
		}
	}
	for _, op := range []string{"add", "mul"} {
		for _, f := range binaryForms {
			for _, t1 := range timedeltaTypes {
				for _, t2 := range timeishTypes {
					emit(op+"_"+t1+f[0]+"_"+t2+f[1], 3)
				}
			}
		}
	}
	for _, f := range binaryForms {
		for _, t1 := range dateTypes {
			for _, t2 := range timeTypes {
				emit("add_"+t1+f[0]+"_"+t2+f[1], 3)
			}
		}
	}

	// timedelta unit literals
	for _, u := range []string{"ns", "us", "ms", "s", "m", "h", "d"} {
		emit("unit_"+u+"_i64s", 2)
	}

	// vector wrappers
	for _, op := range []string{"len", "count"} {
		for _, t := range allTypes {
			emit(op+"_"+t+"v", 2)
		}
	}
	emit("range_i64s", 2)
	for _, f := range unaryForms {
		for _, t := range allTypes {
			emit("del_"+t+f, 1)
		}
	}
	for _, t := range allTypes {
		emit("idx_"+t+"v_i64s", 3)
	}

	OpHalt = opcodeEncoder["halt"]
	OpCall = opcodeEncoder["call"]
}

// encodeBuiltinType resolves a builtin type name to its type number.
func encodeBuiltinType(s string) (uint64, error) {
	for i, t := range typeStrings {
		if t == s {
			return uint64(i), nil
		}
	}
	return 0, fmt.Errorf("unknown type: %s", s)
}

// EncodeOpcode looks up a mnemonic in the opcode table.
func EncodeOpcode(name string) (Opcode, error) {
	op, ok := opcodeEncoder[name]
	if !ok {
		return 0, fmt.Errorf("unknown opcode %s", name)
	}
	return op, nil
}

// Info returns the opcode's metadata, or a zero entry for out-of-range ids.
func (op Opcode) Info() (OpcodeInfo, bool) {
	if int(op) < len(opcodeTable) {
		return opcodeTable[op], true
	}
	return OpcodeInfo{}, false
}

// String returns the opcode's mnemonic.
func (op Opcode) String() string {
	if info, ok := op.Info(); ok {
		return info.Name
	}
	return fmt.Sprintf("opcode(%d)", uint64(op))
}

// Arity returns the number of operand words following the opcode.
func (op Opcode) Arity() int {
	info, _ := op.Info()
	return info.Arity
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeTable)
}
