package bytecode

import (
	"errors"
	"strings"
	"testing"
)

func TestLabelerBackwardReference(t *testing.T) {
	lb := newLabeler()
	code := []Word{Word(OpHalt), 0, 0}

	lb.setLocation("top", 0)
	lb.appendDep("top", 2, nil)
	if err := lb.resolve(code); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if code[2] != Word(EncodeOperandValue(0, MaskImmediate)) {
		t.Errorf("code[2] = %d, want immediate 0", code[2])
	}
}

func TestLabelerForwardReference(t *testing.T) {
	lb := newLabeler()
	code := make([]Word, 8)

	lb.appendDep("later", 1, nil)
	lb.setLocation("later", 5)
	if err := lb.resolve(code); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := Word(EncodeOperandValue(5, MaskImmediate))
	if code[1] != want {
		t.Errorf("code[1] = %d, want %d", code[1], want)
	}
}

func TestLabelerMultipleSites(t *testing.T) {
	lb := newLabeler()
	code := make([]Word, 10)

	lb.appendDep("x", 1, nil)
	lb.appendDep("x", 4, nil)
	lb.setLocation("x", 7)
	if err := lb.resolve(code); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := Word(EncodeOperandValue(7, MaskImmediate))
	if code[1] != want || code[4] != want {
		t.Errorf("patch sites = %d, %d, want both %d", code[1], code[4], want)
	}
}

func TestLabelerUnresolved(t *testing.T) {
	lb := newLabeler()
	lb.appendDep("missing", 0, nil)
	err := lb.resolve(make([]Word, 4))
	if err == nil {
		t.Fatal("resolve succeeded with undefined label")
	}
	if !strings.Contains(err.Error(), "unknown label missing") {
		t.Errorf("error = %q, want unknown label", err)
	}
}

func TestLabelerUnresolvedCarriesCause(t *testing.T) {
	lb := newLabeler()
	cause := errors.New("unknown type: i64x")
	lb.appendDep("i64x", 0, cause)
	err := lb.resolve(make([]Word, 2))
	if err == nil {
		t.Fatal("resolve succeeded with undefined label")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %q does not wrap the encoding failure", err)
	}
}

func TestLabelerRedefinitionUsesLatest(t *testing.T) {
	lb := newLabeler()
	code := make([]Word, 6)
	lb.setLocation("l", 1)
	lb.setLocation("l", 3)
	lb.appendDep("l", 0, nil)
	if err := lb.resolve(code); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if code[0] != Word(EncodeOperandValue(3, MaskImmediate)) {
		t.Errorf("code[0] = %d, want offset 3", code[0])
	}
}
