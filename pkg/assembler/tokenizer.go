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
	"unicode"
	"unicode/utf8"

	"github.com/lassandro/symasm/pkg/encoding"
)

// Tokenize splits one line of source, with its comment already removed, into
// tokens. Positions are reported as if the text were the first line of input.
func Tokenize(line string) ([]Token, error) {
	return tokenizeLine(line, Cursor{Line: 1})
}

func isIdentStart(char rune) bool {
	return ('a' <= char && char <= 'z') || ('A' <= char && char <= 'Z') ||
		char == '_' || char == '@'
}

func isIdentPart(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsDigit(char) || char == '_'
}

func tokenizeLine(line string, cursor Cursor) ([]Token, error) {
	var tokens = make([]Token, 0, 8)

	position := func(start, end int) Cursor {
		return Cursor{
			Line:     cursor.Line,
			Column:   start + 1,
			Byte:     cursor.LineByte + int64(start),
			Size:     int64(end - start),
			LineByte: cursor.LineByte,
		}
	}

	// Advances past every rune accepted by fn, returning the new offset
	scan := func(offset int, fn func(rune) bool) int {
		for offset < len(line) {
			char, size := utf8.DecodeRuneInString(line[offset:])

			if !fn(char) {
				break
			}

			offset += size
		}

		return offset
	}

	for i := 0; i < len(line); {
		char, size := utf8.DecodeRuneInString(line[i:])
		start := i
		i += size

		if char == ' ' || char == '\t' {
			continue
		}

		if tokenType, exists := punctuation[char]; exists {
			tokens = append(tokens, Token{
				Type:     tokenType,
				Position: position(start, i),
				Value:    line[start:i],
			})

			continue
		}

		switch {
		// Decimal literal
		case encoding.IsDecimalDigit(char):
			i = scan(i, encoding.IsDecimalDigit)
			text := line[start:i]

			result, err := encoding.DecodeDecimal(text)

			if err != nil {
				return nil, &InvalidLiteralError{position(start, i), text}
			}

			tokens = append(tokens, Token{
				Type:     TOKEN_NUMBER,
				Position: position(start, i),
				Value:    text,
				Number:   result,
			})

		// Hex literal (i.e. $2A)
		case char == HEX_PREFIX:
			i = scan(i, encoding.IsHexDigit)
			text := line[start:i]

			result, err := encoding.DecodeHex(text)

			if err != nil {
				return nil, &InvalidLiteralError{position(start, i), text}
			}

			tokens = append(tokens, Token{
				Type:     TOKEN_NUMBER,
				Position: position(start, i),
				Value:    text,
				Number:   result,
			})

		// Identifier
		case isIdentStart(char):
			i = scan(i, isIdentPart)

			tokens = append(tokens, Token{
				Type:     TOKEN_IDENT,
				Position: position(start, i),
				Value:    line[start:i],
			})

		default:
			return nil, &UnexpectedCharacterError{position(start, i), char}
		}
	}

	return tokens, nil
}
