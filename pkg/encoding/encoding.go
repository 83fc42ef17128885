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

package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Decodes a hexadecimal string in the formats: $FFFF, $FF, FFFF
func DecodeHex(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "$")

	if s == "" {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 16, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes an unsigned base-10 string
func DecodeDecimal(s string) (uint16, error) {
	result, err := strconv.ParseUint(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

func EncodeHex(value uint16) string {
	return fmt.Sprintf("$%04X", value)
}

func IsHexDigit(c rune) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') ||
		('A' <= c && c <= 'F')
}

func IsDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
