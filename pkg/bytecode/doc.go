// Package bytecode assembles VVM assembly text into executable programs for
// the vector virtual machine.
//
// An instruction is an opcode word followed by its operand words, flattened
// into a single stream of fixed-width words. Operands are tagged integers:
// the payload is shifted left three bits and the low bits select what it
// represents (an immediate, a local/global/state register, or a type
// parameter). Type ids are tagged with one bit selecting builtin versus
// user-defined.
//
// Directives pre-set the constant pool (`%0 = 5`, `@1 = "hi"`, nested `def`
// functions) and declare user-defined types (`$0 = {"price": f64v, i64v}`).
// Both namespaces are flat and global to the program; function bodies may
// not declare either.
//
// The assembler is a single-pass walk of the parse tree. Labels are
// symbolic jump targets resolved to absolute instruction offsets; a forward
// reference leaves a placeholder word and a patch site, applied once every
// label is known. An operand token that fails strict encoding but looks
// like an identifier is treated as a label use, and the original encoding
// failure travels with the patch site so an undefined label reports the
// real cause.
//
// Every assembled program (and every function body) ends with exactly one
// implicit halt opcode. Programs can be rendered back to assembly text with
// Program.String and serialized with MarshalProgram ("VVMC" wire format,
// CBOR payload).
package bytecode
