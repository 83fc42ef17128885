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

package assembler_test

import (
	"reflect"
	"testing"

	"github.com/lassandro/symasm/pkg/assembler"
)

func evaluateString(t *testing.T, input string, symtable *assembler.SymTable) (uint16, error) {
	tokens, err := assembler.Tokenize(input)

	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %s", input, err)
	}

	return assembler.Evaluate(tokens, symtable)
}

func TestEvaluate(t *testing.T) {
	symtable := assembler.NewSymTable()
	symtable.Variables["WIDTH"] = 40
	symtable.Variables["SHARED"] = 1
	symtable.Labels["START"] = 0x0800
	symtable.Labels["SHARED"] = 2

	tests := map[string]uint16{
		"42":              42,
		"$2A":             42,
		"2+3*4":           14,
		"2*3+4":           10,
		"10-3-2":          9,
		"100/10/5":        50,
		"(1+2)*3":         9,
		"2*(3+4)":         14,
		"((7))":           7,
		"(1+2+3)":         6,
		"(2*3)+(4*5)":     26,
		"WIDTH*25":        1000,
		"START+WIDTH":     0x0828,
		"SHARED":          1,
		"START/256":       8,
		"$FFFF":           0xFFFF,
		"$FFFE+1":         0xFFFF,
		"(START+$FF)/256": 8,
	}

	for input, want := range tests {
		have, err := evaluateString(t, input, symtable)

		if err != nil {
			t.Fatalf("Evaluate(%q) failed: %s", input, err)
		}

		if have != want {
			t.Fatalf(
				"Evaluate(%q) mismatch\nwant:%d\nhave:%d",
				input, want, have,
			)
		}
	}
}

func TestEvaluateFail(t *testing.T) {
	symtable := assembler.NewSymTable()
	symtable.Variables["A"] = 1

	tests := map[string]error{
		"":        &assembler.IncompleteExpressionError{},
		"1+":      &assembler.IncompleteExpressionError{},
		"*2":      &assembler.IncompleteExpressionError{},
		")":       &assembler.IncompleteExpressionError{},
		"()":      &assembler.IncompleteExpressionError{},
		"(1+2":    &assembler.ParenMismatchError{},
		"((1)":    &assembler.ParenMismatchError{},
		"1+2)":    &assembler.ParenMismatchError{},
		"(1))":    &assembler.ParenMismatchError{},
		"1 2":     &assembler.UnexpectedTokenError{},
		"1, 2":    &assembler.UnexpectedTokenError{},
		"A = 1":   &assembler.UnexpectedTokenError{},
		"B":       &assembler.UnknownSymbolError{},
		"A+B":     &assembler.UnknownSymbolError{},
		"1-2":     &assembler.ArithmeticError{},
		"5-(1-2)": &assembler.ArithmeticError{},
		"1/0":     &assembler.ArithmeticError{},
		"8/(2-2)": &assembler.ArithmeticError{},
		"$FFFF+1": &assembler.ArithmeticError{},
		"300*300": &assembler.ArithmeticError{},
	}

	for input, want := range tests {
		_, err := evaluateString(t, input, symtable)

		if reflect.TypeOf(err) != reflect.TypeOf(want) {
			t.Fatalf(
				"Evaluate(%q) produced error of incorrect type"+
					"\nwant:%T\nhave:%T (%v)",
				input,
				want,
				err,
				err,
			)
		}
	}
}

func TestEvaluateReadOnly(t *testing.T) {
	symtable := assembler.NewSymTable()
	symtable.Variables["A"] = 3

	if _, err := evaluateString(t, "A*2", symtable); err != nil {
		t.Fatal(err)
	}

	if len(symtable.Variables) != 1 || len(symtable.Labels) != 0 {
		t.Fatalf("Evaluate modified the symbol table: %+v", symtable)
	}
}
