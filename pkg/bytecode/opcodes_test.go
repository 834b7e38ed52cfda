package bytecode

import "testing"

func TestCoreOpcodeIds(t *testing.T) {
	// core opcodes occupy the front of the table in a fixed order
	tests := []struct {
		name string
		want Opcode
	}{
		{"halt", 0},
		{"alloc", 1},
		{"write", 2},
		{"br", 11},
		{"btrue", 12},
		{"bfalse", 13},
		{"ret", 14},
		{"call", 15},
	}
	for _, tt := range tests {
		got, err := EncodeOpcode(tt.name)
		if err != nil {
			t.Fatalf("EncodeOpcode(%q) error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("EncodeOpcode(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
	if OpHalt != 0 {
		t.Errorf("OpHalt = %d, want 0", OpHalt)
	}
	if OpCall != 15 {
		t.Errorf("OpCall = %d, want 15", OpCall)
	}
}

func TestGeneratedOpcodesResolve(t *testing.T) {
	// a sample across every generated family
	names := []string{
		"cast_i64s_Ss", "cast_Sv_i64v", "cast_Ts_DAs",
		"print_i64s", "print_Sv",
		"or_b8s_b8s", "and_b8v_b8v",
		"bitand_i64s_i64v", "mod_i64v_i64v",
		"add_i64s_i64s", "div_f64v_f64v",
		"lt_Ts_Ts", "gte_DAv_DAv",
		"not_b8s", "neg_f64v", "atanh_f64s",
		"sum_i64v", "prod_f64v",
		"add_Ss_Sv", "sum_Sv",
		"sub_Ts_Tv", "add_Ts_Ds", "bar_Dv_Dv", "mul_Ds_Tv", "add_DAs_TIs",
		"unit_ms_i64s",
		"len_Sv", "count_i64v", "range_i64s",
		"del_c8v", "idx_f64v_i64s",
		"now_Ts",
	}
	for _, name := range names {
		op, err := EncodeOpcode(name)
		if err != nil {
			t.Errorf("EncodeOpcode(%q) error: %v", name, err)
			continue
		}
		if op.String() != name {
			t.Errorf("Opcode(%d).String() = %q, want %q", uint64(op), op.String(), name)
		}
	}
}

func TestOpcodeArities(t *testing.T) {
	tests := []struct {
		name  string
		arity int
	}{
		{"halt", 0},
		{"br", 1},
		{"alloc", 2},
		{"append", 3},
		{"store", 4},
		{"eqasofwithin", 11},
		{"sum_i64v", 2},
		{"add_i64s_i64s", 3},
		{"del_i64s", 1},
		{"idx_Sv_i64s", 3},
	}
	for _, tt := range tests {
		op, err := EncodeOpcode(tt.name)
		if err != nil {
			t.Fatalf("EncodeOpcode(%q) error: %v", tt.name, err)
		}
		if op.Arity() != tt.arity {
			t.Errorf("%s arity = %d, want %d", tt.name, op.Arity(), tt.arity)
		}
	}
}

func TestUnknownOpcode(t *testing.T) {
	if _, err := EncodeOpcode("frobnicate"); err == nil {
		t.Fatal("EncodeOpcode(frobnicate) succeeded, want error")
	}
}

func TestOpcodeTableConsistent(t *testing.T) {
	if OpcodeCount() == 0 {
		t.Fatal("opcode table is empty")
	}
	// encoder must agree with the table for every mnemonic
	for name, op := range opcodeEncoder {
		if int(op) >= len(opcodeTable) {
			t.Fatalf("opcode %q has out-of-range id %d", name, op)
		}
		if opcodeTable[op].Name != name {
			// later duplicates in generation order win the encoder slot
			if _, err := EncodeOpcode(opcodeTable[op].Name); err != nil {
				t.Errorf("table name %q for %q does not resolve", opcodeTable[op].Name, name)
			}
		}
	}
}
