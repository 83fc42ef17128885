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

package report

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/lassandro/symasm/pkg/assembler"
	"github.com/lassandro/symasm/pkg/encoding"
)

func sortedNames(symbols map[string]uint16) []string {
	names := make([]string, 0, len(symbols))

	for name := range symbols {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// WriteSymbols writes the variables and then the labels of symtable, one
// "name $XXXX" pair per line, each group sorted by name.
func WriteSymbols(w io.Writer, symtable *assembler.SymTable) error {
	out := bufio.NewWriter(w)

	for _, symbols := range []map[string]uint16{
		symtable.Variables, symtable.Labels,
	} {
		for _, name := range sortedNames(symbols) {
			fmt.Fprintf(out, "%s %s\n", name, encoding.EncodeHex(symbols[name]))
		}
	}

	return out.Flush()
}

// WriteSource copies source to w, prefixing every line that starts an
// instruction with its code address.
func WriteSource(w io.Writer, source io.Reader, symtable *assembler.SymTable, color bool) error {
	addrs := make(map[int64]uint16, len(symtable.Lines))

	for addr, offset := range symtable.Lines {
		addrs[offset] = addr
	}

	out := bufio.NewWriter(w)
	reader := bufio.NewReader(source)

	var offset int64 = 0

	for {
		raw, err := reader.ReadString('\n')

		if len(raw) > 0 {
			line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")

			if addr, exists := addrs[offset]; exists {
				if color {
					fmt.Fprintf(out, "\033[1m[%04X]\033[0m ", addr)
				} else {
					fmt.Fprintf(out, "[%04X] ", addr)
				}
			} else {
				if color {
					fmt.Fprint(out, "\033[1;30m~~~~~~\033[0m ")
				} else {
					fmt.Fprint(out, "~~~~~~ ")
				}
			}

			fmt.Fprintln(out, line)

			offset += int64(len(raw))
		}

		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
	}

	return out.Flush()
}

// Dump pretty-prints the whole symbol table.
func Dump(w io.Writer, symtable *assembler.SymTable, color bool) error {
	printer := pp.New()
	printer.SetColoringEnabled(color)

	_, err := printer.Fprintln(w, symtable)

	return err
}

func EncodeSymTable(w io.Writer, symtable *assembler.SymTable) error {
	return gob.NewEncoder(w).Encode(symtable)
}

func DecodeSymTable(r io.Reader) (*assembler.SymTable, error) {
	symtable := assembler.NewSymTable()

	if err := gob.NewDecoder(r).Decode(symtable); err != nil {
		return nil, err
	}

	return symtable, nil
}
