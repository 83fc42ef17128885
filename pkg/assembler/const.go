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

const (
	TOKEN_NONE TokenType = iota
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_ASTERISK
	TOKEN_SLASH
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_EQUAL
	TOKEN_DOT
	TOKEN_COLON
	TOKEN_POUND
	TOKEN_COMMA
	TOKEN_NUMBER
	TOKEN_IDENT
)

// Single-character punctuation
var punctuation = map[rune]TokenType{
	'+': TOKEN_PLUS,
	'-': TOKEN_MINUS,
	'*': TOKEN_ASTERISK,
	'/': TOKEN_SLASH,
	'(': TOKEN_LPAREN,
	')': TOKEN_RPAREN,
	'=': TOKEN_EQUAL,
	'.': TOKEN_DOT,
	':': TOKEN_COLON,
	'#': TOKEN_POUND,
	',': TOKEN_COMMA,
}

const (
	COMMENT_CHAR = ';'
	HEX_PREFIX   = '$'
)

const (
	// Operands above this value take two bytes
	BYTE_OPERAND_MAX = 0xFF

	// Size of the addressable code space
	ADDRESS_SPACE = 1 << 16
)
