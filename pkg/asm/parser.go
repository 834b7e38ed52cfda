package asm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Parser: Recursive descent parser for VVM assembly
// ---------------------------------------------------------------------------

// Parser parses VVM assembly text into a Program tree.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	errors    []string
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Read two tokens to fill curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is the convenience entry point: it parses a whole program and
// returns the collected parse errors as a single error.
func Parse(input string) (*Program, error) {
	p := NewParser(input)
	prog := p.ParseProgram()
	if len(p.errors) > 0 {
		return nil, errors.New(strings.Join(p.errors, "\n"))
	}
	return prog, nil
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// curTokenIs checks if the current token is of the given type.
func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if the peek token is of the given type.
func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

// errorf records a parse error at the current token.
func (p *Parser) errorf(format string, args ...interface{}) {
	pos := p.curToken.Pos
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("line %d:%d: %s", pos.Line, pos.Column, msg))
}

// Errors returns the accumulated parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

// expect advances past the current token if it matches, otherwise records an
// error and leaves the token in place.
func (p *Parser) expect(t TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.curToken)
	return false
}

// syncToLine skips tokens until the start of the next line.
func (p *Parser) syncToLine() {
	for !p.curTokenIs(TokenNewline) && !p.curTokenIs(TokenEOF) {
		p.nextToken()
	}
}

// skipNewlines consumes any blank lines.
func (p *Parser) skipNewlines() {
	for p.curTokenIs(TokenNewline) {
		p.nextToken()
	}
}

// ParseProgram parses a whole program (until EOF).
func (p *Parser) ParseProgram() *Program {
	return p.parseProgram(false)
}

// parseProgram parses items until EOF, or until a bare 'end' when parsing a
// nested function body. The terminating 'end' is left for the caller.
func (p *Parser) parseProgram(nested bool) *Program {
	prog := &Program{}

	for {
		p.skipNewlines()
		if p.curTokenIs(TokenEOF) {
			if nested {
				p.errorf("unexpected EOF in function body: missing 'end'")
			}
			return prog
		}
		if nested && p.curTokenIs(TokenIdentifier) && p.curToken.Literal == "end" {
			return prog
		}

		item := p.parseItem()
		if item != nil {
			prog.Items = append(prog.Items, item)
		}
	}
}

// parseItem parses one line: a label, an instruction, a value definition, or
// a type definition.
func (p *Parser) parseItem() Item {
	switch p.curToken.Type {
	case TokenIdentifier:
		if p.peekTokenIs(TokenColon) {
			return p.parseLabel()
		}
		return p.parseInstruction()

	case TokenRegister:
		return p.parseValueDef()

	case TokenUserType:
		return p.parseTypeDef()

	default:
		p.errorf("expected instruction or directive, got %s", p.curToken)
		p.syncToLine()
		return nil
	}
}

// parseLabel parses 'IDENTIFIER :' followed by end of line.
func (p *Parser) parseLabel() *Label {
	lbl := &Label{PosVal: p.curToken.Pos, Name: p.curToken.Literal}
	p.nextToken() // identifier
	p.nextToken() // colon
	if !p.curTokenIs(TokenNewline) && !p.curTokenIs(TokenEOF) {
		p.errorf("unexpected %s after label %s", p.curToken, lbl.Name)
		p.syncToLine()
	}
	return lbl
}

// parseInstruction parses 'MNEMONIC operand*' up to end of line.
func (p *Parser) parseInstruction() *Instruction {
	instr := &Instruction{PosVal: p.curToken.Pos, Opcode: p.curToken.Literal}
	p.nextToken()

	for !p.curTokenIs(TokenNewline) && !p.curTokenIs(TokenEOF) {
		switch p.curToken.Type {
		case TokenIdentifier, TokenRegister, TokenUserType, TokenInteger:
			instr.Operands = append(instr.Operands, &Operand{
				PosVal: p.curToken.Pos,
				Text:   p.curToken.Literal,
			})
			p.nextToken()
		default:
			p.errorf("invalid operand %s for %s", p.curToken, instr.Opcode)
			p.syncToLine()
			return instr
		}
	}
	return instr
}

// parseValueDef parses 'REGISTER = (INTEGER | FLOAT | STRING | funcdef)'.
func (p *Parser) parseValueDef() *ValueDef {
	def := &ValueDef{PosVal: p.curToken.Pos, Register: p.curToken.Literal}
	p.nextToken()
	if !p.expect(TokenAssign) {
		p.syncToLine()
		return nil
	}

	switch p.curToken.Type {
	case TokenInteger:
		v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
		if err != nil {
			p.errorf("invalid integer literal %q", p.curToken.Literal)
			p.syncToLine()
			return nil
		}
		def.Value = &IntLit{PosVal: p.curToken.Pos, Value: v}
		p.nextToken()

	case TokenFloat:
		v, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.errorf("invalid float literal %q", p.curToken.Literal)
			p.syncToLine()
			return nil
		}
		def.Value = &FloatLit{PosVal: p.curToken.Pos, Value: v}
		p.nextToken()

	case TokenString:
		def.Value = &StrLit{PosVal: p.curToken.Pos, Value: p.curToken.Literal}
		p.nextToken()

	case TokenIdentifier:
		if p.curToken.Literal == "def" {
			fd := p.parseFuncDef()
			if fd == nil {
				return nil
			}
			def.Value = fd
			break
		}
		fallthrough

	default:
		p.errorf("expected integer, float, string, or function definition, got %s", p.curToken)
		p.syncToLine()
		return nil
	}

	if !p.curTokenIs(TokenNewline) && !p.curTokenIs(TokenEOF) {
		p.errorf("unexpected %s after value definition", p.curToken)
		p.syncToLine()
	}
	return def
}

// parseFuncDef parses a nested function definition:
//
//	def NAME '(' typelist? ')' type ':' NEWLINE program 'end'
func (p *Parser) parseFuncDef() *FuncDef {
	fd := &FuncDef{PosVal: p.curToken.Pos}
	p.nextToken() // 'def'

	if !p.curTokenIs(TokenIdentifier) {
		p.errorf("expected function name, got %s", p.curToken)
		p.syncToLine()
		return nil
	}
	fd.Name = p.curToken.Literal
	p.nextToken()

	if !p.expect(TokenLParen) {
		p.syncToLine()
		return nil
	}
	if !p.curTokenIs(TokenRParen) {
		fd.Params = p.parseTypeList(TokenRParen)
	}
	if !p.expect(TokenRParen) {
		p.syncToLine()
		return nil
	}

	fd.RetType = p.parseTypeName()
	if fd.RetType == "" {
		p.syncToLine()
		return nil
	}

	if !p.expect(TokenColon) {
		p.syncToLine()
		return nil
	}
	if !p.curTokenIs(TokenNewline) && !p.curTokenIs(TokenEOF) {
		p.errorf("expected newline after ':' in def %s", fd.Name)
		p.syncToLine()
	}

	fd.Body = p.parseProgram(true)

	// consume the terminating 'end'
	if p.curTokenIs(TokenIdentifier) && p.curToken.Literal == "end" {
		p.nextToken()
	}
	return fd
}

// parseTypeDef parses 'USER_TYPE = { typelist }'.
func (p *Parser) parseTypeDef() *TypeDef {
	def := &TypeDef{PosVal: p.curToken.Pos, Name: p.curToken.Literal}
	p.nextToken()
	if !p.expect(TokenAssign) {
		p.syncToLine()
		return nil
	}
	if !p.expect(TokenLBrace) {
		p.syncToLine()
		return nil
	}
	def.Fields = p.parseTypeList(TokenRBrace)
	if !p.expect(TokenRBrace) {
		p.syncToLine()
		return nil
	}
	if !p.curTokenIs(TokenNewline) && !p.curTokenIs(TokenEOF) {
		p.errorf("unexpected %s after type definition", p.curToken)
		p.syncToLine()
	}
	return def
}

// parseTypeList parses 'ntype (, ntype)*' where each entry is an optionally
// named type: ('name' ':')? type. Stops before the given closing token.
func (p *Parser) parseTypeList(closing TokenType) []*NamedType {
	var list []*NamedType
	for {
		nt := &NamedType{PosVal: p.curToken.Pos}
		if p.curTokenIs(TokenString) && p.peekTokenIs(TokenColon) {
			nt.Name = p.curToken.Literal
			p.nextToken() // name
			p.nextToken() // colon
		}
		nt.Type = p.parseTypeName()
		if nt.Type == "" {
			return list
		}
		list = append(list, nt)

		if !p.curTokenIs(TokenComma) {
			return list
		}
		p.nextToken() // comma
		if p.curTokenIs(closing) {
			p.errorf("trailing comma in type list")
			return list
		}
	}
}

// parseTypeName parses a type reference: a builtin type identifier or a
// '$'-prefixed user type. Returns "" on error.
func (p *Parser) parseTypeName() string {
	switch p.curToken.Type {
	case TokenIdentifier, TokenUserType:
		name := p.curToken.Literal
		p.nextToken()
		return name
	default:
		p.errorf("expected type, got %s", p.curToken)
		return ""
	}
}
