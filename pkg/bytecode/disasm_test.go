package bytecode

import (
	"strings"
	"testing"
)

func TestDisassembleInstructions(t *testing.T) {
	text := "alloc i64v %0\n" +
		"append 1 i64s %0\n" +
		"sum_i64v %0 %1\n"
	p := mustAssemble(t, text)

	got := Disassemble(p.Instructions, "")
	want := "alloc i64v %0\n" +
		"append 1 i64s %0\n" +
		"sum_i64v %0 %1\n"
	if got != want {
		t.Errorf("Disassemble = %q, want %q", got, want)
	}
}

func TestDisassembleOmitsHalt(t *testing.T) {
	p := mustAssemble(t, "write %0\n")
	got := Disassemble(p.Instructions, "")
	if strings.Contains(got, "halt") {
		t.Errorf("halt leaked into listing: %q", got)
	}
}

func TestDisassemblePadding(t *testing.T) {
	p := mustAssemble(t, "write %0\nwrite %1\n")
	got := Disassemble(p.Instructions, "  ")
	want := "  write %0\n  write %1\n"
	if got != want {
		t.Errorf("Disassemble = %q, want %q", got, want)
	}
}

func TestDisassembleCallInlineArgs(t *testing.T) {
	// call's second operand counts the inline words that follow
	text := "call %0 3 %1 %2 %3\n" +
		"write %3\n"
	p := mustAssemble(t, text)

	got := Disassemble(p.Instructions, "")
	want := "call %0 3 %1 %2 %3\n" +
		"write %3\n"
	if got != want {
		t.Errorf("Disassemble = %q, want %q", got, want)
	}
}

func TestProgramStringSections(t *testing.T) {
	text := "$0 = {\"price\": f64v, i64v}\n" +
		"%0 = 5\n" +
		"%1 = \"hi\"\n" +
		"alloc $0 %2\n"
	p := mustAssemble(t, text)

	got := p.String()
	want := "$0 = {\"price\": f64v, i64v}\n" +
		"\n" +
		"%0 = 5\n" +
		"%1 = \"hi\"\n" +
		"\n" +
		"alloc $0 %2\n"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestProgramStringFunctionBody(t *testing.T) {
	text := "%0 = def ident(i64s) i64s:\n" +
		"  ret %0\n" +
		"end\n"
	p := mustAssemble(t, text)

	got := p.String()
	want := "%0 = def ident(i64s) i64s:\n" +
		"  ret %0\n" +
		"end\n" +
		"\n" +
		"\n"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDisassemblyRoundTrip(t *testing.T) {
	text := "$0 = {\"ts\": Tv, f64v}\n" +
		"%0 = 5\n" +
		"@1 = \"px\"\n" +
		"br body\n" +
		"alloc $0 %2\n" +
		"body:\n" +
		"append 1 i64s %2\n" +
		"sum_i64v %2 %3\n"
	first := mustAssemble(t, text)

	second := mustAssemble(t, first.String())
	if len(first.Instructions) != len(second.Instructions) {
		t.Fatalf("stream lengths differ: %d vs %d", len(first.Instructions), len(second.Instructions))
	}
	for i := range first.Instructions {
		if first.Instructions[i] != second.Instructions[i] {
			t.Errorf("word %d differs: %d vs %d", i, first.Instructions[i], second.Instructions[i])
		}
	}
	if len(first.Constants) != len(second.Constants) {
		t.Errorf("constant pools differ: %v vs %v", first.Constants, second.Constants)
	}
	if len(first.Types) != len(second.Types) {
		t.Errorf("type pools differ: %v vs %v", first.Types, second.Types)
	}
}
