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
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
)

// Assembler scans source lines in order, recording variables and label
// addresses in its SymTable and advancing the code address by the size of
// every instruction it recognizes.
type Assembler struct {
	SymTable *SymTable

	// If set, receives each source line prefixed by its code address
	Listing io.Writer

	program uint32
	cursor  Cursor
}

func NewAssembler(symtable *SymTable) *Assembler {
	if symtable == nil {
		symtable = NewSymTable()
	}

	return &Assembler{SymTable: symtable, cursor: Cursor{Line: 1}}
}

// AssembleSource resolves the symbols of every line in input into symtable,
// stopping at the first error.
func AssembleSource(input io.Reader, symtable *SymTable) error {
	return NewAssembler(symtable).Assemble(input)
}

// Program returns the current code address.
func (asm *Assembler) Program() uint32 {
	return asm.program
}

func (asm *Assembler) Assemble(input io.Reader) error {
	var reader = bufio.NewReader(input)

	for {
		raw, err := reader.ReadString('\n')

		if len(raw) > 0 {
			line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")

			if lineErr := asm.assembleLine(line, int64(len(raw))); lineErr != nil {
				return lineErr
			}
		}

		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// AssembleLine processes the next line of source, given without its line
// terminator. Text from the first ';' onwards is a comment.
func (asm *Assembler) AssembleLine(line string) error {
	return asm.assembleLine(line, int64(len(line)+1))
}

// Size is the length of the line in the input, terminator included
func (asm *Assembler) assembleLine(line string, size int64) error {
	if asm.Listing != nil {
		fmt.Fprintf(asm.Listing, "%04X: %s\n", asm.program, line)
	}

	glog.V(1).Infof("%04X: %s", asm.program, line)

	cursor := asm.cursor
	cursor.Size = int64(len(line))

	asm.cursor.Line++
	asm.cursor.Byte += size
	asm.cursor.LineByte += size

	if i := strings.IndexRune(line, COMMENT_CHAR); i != -1 {
		line = line[:i]
	}

	tokens, err := tokenizeLine(line, cursor)

	if err != nil {
		return err
	}

	if glog.V(2) {
		glog.Infof("%02d: tokens %v", cursor.Line, tokens)
	}

	return asm.assembleTokens(tokens, cursor)
}

func (asm *Assembler) assembleTokens(tokens []Token, cursor Cursor) error {
	if len(tokens) == 0 {
		return nil
	}

	// Directives are recognized but not processed
	if tokens[0].Type == TOKEN_DOT {
		return nil
	}

	for i, token := range tokens {
		if token.Type == TOKEN_EQUAL {
			return asm.assign(tokens[:i], token, tokens[i+1:])
		}
	}

	var pos = 0

labels:
	for pos < len(tokens) {
		switch {
		case tokens[pos].Type == TOKEN_IDENT &&
			pos+1 < len(tokens) && tokens[pos+1].Type == TOKEN_COLON:
			// BEQ :+ and BNE :- branch to unnamed labels
			if pos+2 < len(tokens) {
				if next := tokens[pos+2].Type; next == TOKEN_PLUS || next == TOKEN_MINUS {
					break labels
				}
			}

			if err := asm.defineLabel(tokens[pos]); err != nil {
				return err
			}

			pos += 2

		// Unnamed label
		case pos == 0 && tokens[pos].Type == TOKEN_COLON:
			pos++

		default:
			break labels
		}
	}

	// No need to size label-only statements
	if pos == len(tokens) {
		return nil
	}

	return asm.instruction(tokens[pos], tokens[pos+1:], cursor)
}

func (asm *Assembler) assign(target []Token, equal Token, expression []Token) error {
	if len(target) != 1 || target[0].Type != TOKEN_IDENT {
		position := equal.Position

		if len(target) > 0 {
			position = target[0].Position
		}

		return &InvalidAssignmentTargetError{position, target}
	}

	end := after(equal)

	if len(expression) > 0 {
		end = after(expression[len(expression)-1])
	}

	value, err := evaluate(expression, asm.SymTable, end)

	if err != nil {
		return err
	}

	name := target[0].Value

	if _, exists := asm.SymTable.Labels[name]; exists {
		glog.Warningf(
			"%02d:%02d: variable '%s' shadows the label of the same name",
			target[0].Position.Line, target[0].Position.Column, name,
		)
	}

	asm.SymTable.Variables[name] = value

	return nil
}

func (asm *Assembler) defineLabel(label Token) error {
	if asm.program >= ADDRESS_SPACE {
		return &OversizedProgramError{asm.program}
	}

	if _, exists := asm.SymTable.Variables[label.Value]; exists {
		glog.Warningf(
			"%02d:%02d: label '%s' is shadowed by the variable of the same name",
			label.Position.Line, label.Position.Column, label.Value,
		)
	}

	if addr, exists := asm.SymTable.Labels[label.Value]; exists {
		glog.V(1).Infof(
			"%02d:%02d: label '%s' moved from %04X to %04X",
			label.Position.Line, label.Position.Column, label.Value,
			addr, asm.program,
		)
	}

	asm.SymTable.Labels[label.Value] = uint16(asm.program)

	return nil
}

// Sizes an instruction: one byte for the mnemonic and one or two for the
// operand depending on its value.
func (asm *Assembler) instruction(mnemonic Token, operands []Token, cursor Cursor) error {
	if mnemonic.Type != TOKEN_IDENT {
		return &ExpectedInstructionError{mnemonic.Position, mnemonic}
	}

	if asm.program >= ADDRESS_SPACE {
		return &OversizedProgramError{asm.program}
	}

	asm.SymTable.Lines[uint16(asm.program)] = cursor.LineByte

	if err := asm.advance(1); err != nil {
		return err
	}

	if len(operands) == 0 {
		return nil
	}

	// Branch to an unnamed label (i.e. BNE :-)
	if operands[0].Type == TOKEN_COLON {
		return asm.advance(1)
	}

	end := after(mnemonic)

	// The index register after the comma does not change the size
	for i, token := range operands {
		if token.Type == TOKEN_COMMA {
			operands = operands[:i]
			break
		}
	}

	if len(operands) > 0 && operands[0].Type == TOKEN_POUND {
		end = after(operands[0])
		operands = operands[1:]
	}

	if len(operands) > 0 {
		end = after(operands[len(operands)-1])
	}

	value, err := evaluate(operands, asm.SymTable, end)

	if err != nil {
		return err
	}

	if value > BYTE_OPERAND_MAX {
		return asm.advance(2)
	}

	return asm.advance(1)
}

func (asm *Assembler) advance(size uint32) error {
	asm.program += size

	if asm.program > ADDRESS_SPACE {
		return &OversizedProgramError{asm.program}
	}

	return nil
}
