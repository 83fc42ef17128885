// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"fmt"
	"strconv"
	"strings"
)

type TokenType uint

func (t TokenType) String() string {
	switch t {
	case TOKEN_PLUS:
		return "+"
	case TOKEN_MINUS:
		return "-"
	case TOKEN_ASTERISK:
		return "*"
	case TOKEN_SLASH:
		return "/"
	case TOKEN_LPAREN:
		return "("
	case TOKEN_RPAREN:
		return ")"
	case TOKEN_EQUAL:
		return "="
	case TOKEN_DOT:
		return "."
	case TOKEN_COLON:
		return ":"
	case TOKEN_POUND:
		return "#"
	case TOKEN_COMMA:
		return ","
	case TOKEN_NUMBER:
		return "Number"
	case TOKEN_IDENT:
		return "Identifier"
	}

	return "<invalid>"
}

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

// Token is one lexical unit of a source line. Number is set for
// TOKEN_NUMBER, Value holds the source text of the token.
type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
	Number   uint16
}

func (token Token) String() string {
	switch token.Type {
	case TOKEN_NUMBER:
		return strconv.FormatUint(uint64(token.Number), 10)
	case TOKEN_IDENT:
		return token.Value
	}

	return token.Type.String()
}

func joinTokens(tokens []Token) string {
	parts := make([]string, 0, len(tokens))

	for _, token := range tokens {
		parts = append(parts, token.String())
	}

	return strings.Join(parts, " ")
}

type SymTable struct {
	Source    string
	Variables map[string]uint16
	Labels    map[string]uint16

	// Code address of each instruction line to the byte offset of that line
	Lines map[uint16]int64
}

func NewSymTable() *SymTable {
	return &SymTable{
		Variables: make(map[string]uint16),
		Labels:    make(map[string]uint16),
		Lines:     make(map[uint16]int64),
	}
}

// Lookup resolves name against the variables first, then the labels.
func (symtable *SymTable) Lookup(name string) (uint16, bool) {
	if symtable == nil {
		return 0, false
	}

	if value, exists := symtable.Variables[name]; exists {
		return value, true
	}

	value, exists := symtable.Labels[name]

	return value, exists
}

type TokenError interface {
	GetPosition() Cursor
}

type InvalidLiteralError struct {
	Position Cursor
	Received string
}

func (err *InvalidLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid numeric literal '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnexpectedCharacterError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected character %c",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownSymbolError struct {
	Position Cursor
	Received string
}

func (err *UnknownSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown symbol '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type ParenMismatchError struct {
	Position Cursor
}

func (err *ParenMismatchError) GetPosition() Cursor {
	return err.Position
}

func (err *ParenMismatchError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Mismatched parentheses",
		err.Position.Line,
		err.Position.Column,
	)
}

type IncompleteExpressionError struct {
	Position Cursor
}

func (err *IncompleteExpressionError) GetPosition() Cursor {
	return err.Position
}

func (err *IncompleteExpressionError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Incomplete expression",
		err.Position.Line,
		err.Position.Column,
	)
}

type UnexpectedTokenError struct {
	Position Cursor
	Received Token
}

func (err *UnexpectedTokenError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedTokenError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected token '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type ExpectedInstructionError struct {
	Position Cursor
	Received Token
}

func (err *ExpectedInstructionError) GetPosition() Cursor {
	return err.Position
}

func (err *ExpectedInstructionError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Expected instruction\n\twant:Identifier\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type InvalidAssignmentTargetError struct {
	Position Cursor
	Received []Token
}

func (err *InvalidAssignmentTargetError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidAssignmentTargetError) Error() string {
	received := joinTokens(err.Received)

	if received == "" {
		received = "<nothing>"
	}

	return fmt.Sprintf(
		"%02d:%02d: Invalid assignment target\n\twant:Identifier\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		received,
	)
}

type ArithmeticError struct {
	Position Cursor
	Operator TokenType
	Left     uint16
	Right    uint16
}

func (err *ArithmeticError) GetPosition() Cursor {
	return err.Position
}

func (err *ArithmeticError) Error() string {
	var reason string

	switch err.Operator {
	case TOKEN_MINUS:
		reason = "underflow"
	case TOKEN_SLASH:
		reason = "division by zero"
	default:
		reason = "overflow"
	}

	return fmt.Sprintf(
		"%02d:%02d: Arithmetic %s in %d %s %d",
		err.Position.Line,
		err.Position.Column,
		reason,
		err.Left,
		err.Operator,
		err.Right,
	)
}

type OversizedProgramError struct {
	Address uint32
}

func (err *OversizedProgramError) Error() string {
	return fmt.Sprintf(
		"Program exceeds address space (counter at $%X)", err.Address,
	)
}
