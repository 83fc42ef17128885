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

// Grammar, each level right-recursive:
//
//	expression := term ( ('+' | '-') expression )?
//	term       := factor ( ('*' | '/') term )?
//	factor     := NUMBER | IDENTIFIER | '(' expression ')'
//
// Chains of equal precedence therefore group to the right: 10-3-2 is
// 10-(3-2). A closing parenthesis is consumed by the expression that ends
// the group, so factor never sees it.

type evaluator struct {
	tokens   []Token
	next     int
	symtable *SymTable

	// Reported when the tokens run out
	end Cursor
}

// Evaluate computes the value of a complete expression, resolving
// identifiers against symtable. The symbol table is never modified.
func Evaluate(tokens []Token, symtable *SymTable) (uint16, error) {
	end := Cursor{Line: 1, Column: 1, Size: 1}

	if len(tokens) > 0 {
		end = after(tokens[len(tokens)-1])
	}

	return evaluate(tokens, symtable, end)
}

func evaluate(tokens []Token, symtable *SymTable, end Cursor) (uint16, error) {
	e := evaluator{tokens: tokens, symtable: symtable, end: end}

	return e.expression(0)
}

// Position of the column following token
func after(token Token) Cursor {
	position := token.Position
	position.Column += int(position.Size)
	position.Byte += position.Size
	position.Size = 1

	return position
}

func (e *evaluator) peek() (*Token, bool) {
	if e.next >= len(e.tokens) {
		return nil, false
	}

	return &e.tokens[e.next], true
}

func (e *evaluator) advance() (*Token, bool) {
	token, ok := e.peek()

	if ok {
		e.next++
	}

	return token, ok
}

func (e *evaluator) expression(level int) (uint16, error) {
	left, err := e.term(level)

	if err != nil {
		return 0, err
	}

	token, ok := e.advance()

	if !ok {
		if level != 0 {
			return 0, &ParenMismatchError{e.end}
		}

		return left, nil
	}

	switch token.Type {
	case TOKEN_PLUS, TOKEN_MINUS:
		right, err := e.expression(level)

		if err != nil {
			return 0, err
		}

		return apply(token, left, right)

	case TOKEN_RPAREN:
		if level == 0 {
			return 0, &ParenMismatchError{token.Position}
		}

		return left, nil
	}

	return 0, &UnexpectedTokenError{token.Position, *token}
}

func (e *evaluator) term(level int) (uint16, error) {
	left, err := e.factor(level)

	if err != nil {
		return 0, err
	}

	token, ok := e.peek()

	if !ok {
		if level != 0 {
			return 0, &ParenMismatchError{e.end}
		}

		return left, nil
	}

	switch token.Type {
	case TOKEN_ASTERISK, TOKEN_SLASH:
		e.next++

		right, err := e.term(level)

		if err != nil {
			return 0, err
		}

		return apply(token, left, right)

	case TOKEN_RPAREN:
		if level == 0 {
			return 0, &ParenMismatchError{token.Position}
		}
	}

	return left, nil
}

func (e *evaluator) factor(level int) (uint16, error) {
	token, ok := e.advance()

	if !ok {
		return 0, &IncompleteExpressionError{e.end}
	}

	switch token.Type {
	case TOKEN_NUMBER:
		return token.Number, nil

	case TOKEN_IDENT:
		if value, exists := e.symtable.Lookup(token.Value); exists {
			return value, nil
		}

		return 0, &UnknownSymbolError{token.Position, token.Value}

	case TOKEN_LPAREN:
		return e.expression(level + 1)
	}

	return 0, &IncompleteExpressionError{token.Position}
}

// Checked unsigned 16-bit arithmetic
func apply(operator *Token, left, right uint16) (uint16, error) {
	var result uint32

	switch operator.Type {
	case TOKEN_PLUS:
		result = uint32(left) + uint32(right)
	case TOKEN_MINUS:
		if right > left {
			return 0, &ArithmeticError{
				operator.Position, operator.Type, left, right,
			}
		}

		result = uint32(left - right)
	case TOKEN_ASTERISK:
		result = uint32(left) * uint32(right)
	case TOKEN_SLASH:
		if right == 0 {
			return 0, &ArithmeticError{
				operator.Position, operator.Type, left, right,
			}
		}

		result = uint32(left / right)
	}

	if result > 0xFFFF {
		return 0, &ArithmeticError{
			operator.Position, operator.Type, left, right,
		}
	}

	return uint16(result), nil
}
