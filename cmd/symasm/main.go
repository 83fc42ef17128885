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

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/lassandro/symasm/pkg/assembler"
	"github.com/lassandro/symasm/pkg/report"
)

var listingvar bool
var symbolsvar bool
var debugvar bool
var dumpvar bool
var sourcevar bool
var outvar string

var status int

const usage = "symasm [-listing] [-debug] [-out symfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   "symasm [flags] [filename]",
	Short: "Resolves the labels and variables of an 8-bit assembly source",
	Long: `Symasm scans an assembly source file, or stdin when it is not a
terminal, in a single pass. Every label receives the code address at which it
is defined and every 'name = expression' assignment is evaluated. Instruction
sizes are inferred from the value of their operand: one byte for the mnemonic
plus one or two bytes for the operand.

Symbols must be defined before they are used. Directives (lines starting with
'.') are skipped.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog reads its settings from the standard flag set
		flag.CommandLine.Parse([]string{})
	},
	Run: func(cmd *cobra.Command, args []string) {
		status = symasm(cmd, args)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect symfile",
	Short: "Prints the symbols recorded in a symbol file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		status = inspect(cmd, args[0])
	},
}

func init() {
	flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.PersistentFlags().BoolVar(
		&dumpvar, "dump", false,
		"Pretty-prints the complete symbol table to stderr",
	)
	rootCmd.Flags().BoolVar(
		&listingvar, "listing", false,
		"Writes every source line prefixed by its code address to stdout",
	)
	rootCmd.Flags().BoolVar(
		&symbolsvar, "symbols", true,
		"Writes the variables and labels to stdout after assembling",
	)
	rootCmd.Flags().BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to write the symbol table to a file. The file "+
			"will use the input filename with extension '.symdb'",
	)
	rootCmd.Flags().StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the symbol file, "+
			"overriding the default means of determining it",
	)

	inspectCmd.Flags().BoolVar(
		&sourcevar, "source", false,
		"Prints the recorded source file annotated with code addresses",
	)

	rootCmd.AddCommand(inspectCmd)
}

func bold(s string) string {
	if isTerminalWriter(log.Writer()) {
		return "\033[1m" + s + "\033[0m"
	}

	return s
}

func red(s string) string {
	if isTerminalWriter(log.Writer()) {
		return "\033[31m" + s + "\033[0m"
	}

	return s
}

// Marks the span of cursor within line, keeping tabs so the marker lines up
func underline(line string, cursor assembler.Cursor) string {
	var builder strings.Builder

	indent := cursor.Column - 1

	if indent > len(line) {
		indent = len(line)
	}

	for _, char := range line[:indent] {
		if char == '\t' {
			builder.WriteRune('\t')
		} else {
			builder.WriteRune(' ')
		}
	}

	builder.WriteRune('^')

	if cursor.Size > 1 {
		builder.WriteString(strings.Repeat("~", int(cursor.Size)-1))
	}

	return builder.String()
}

func diagnose(err error, input io.ReadSeeker) {
	var tokenErr assembler.TokenError

	if input == nil || !errors.As(err, &tokenErr) {
		log.Println(err)
		return
	}

	cursor := tokenErr.GetPosition()

	if _, seekErr := input.Seek(cursor.LineByte, io.SeekStart); seekErr != nil {
		log.Println(err)
		return
	}

	line, _ := bufio.NewReader(input).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")

	log.Printf("%s\n%s\n%s", err, line, red(underline(line, cursor)))
}

func writeSymFile(filename string, symtable *assembler.SymTable) int {
	file, err := os.OpenFile(
		filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666,
	)

	if err != nil {
		log.Println("Error creating symbol file")
		log.Println(err)
		return 1
	}

	defer file.Close()

	if err := report.EncodeSymTable(file, symtable); err != nil {
		log.Println("Error writing symbol file")
		log.Println(err)
		return 1
	}

	return 0
}

// Reports whether w is a terminal, for choosing ANSI styling
func isTerminalWriter(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return isTerminal(file)
	}

	return false
}

func dump(symtable *assembler.SymTable) int {
	if err := report.Dump(os.Stderr, symtable, isTerminal(os.Stderr)); err != nil {
		log.Println("Error dumping symbol table")
		log.Println(err)
		return 1
	}

	return 0
}

func symasm(cmd *cobra.Command, args []string) int {
	var input io.Reader
	var seeker io.ReadSeeker

	stdout := cmd.OutOrStdout()
	symfile := outvar
	symtable := assembler.NewSymTable()

	if len(args) == 0 {
		input = cmd.InOrStdin()

		if file, ok := input.(*os.File); ok {
			stat, err := file.Stat()

			if err != nil {
				log.Println(err)
				return 1
			}

			if stat.Mode()&os.ModeCharDevice != 0 {
				log.Println(usage)
				return 1
			}
		}

		log.SetPrefix(bold("<stdin>:"))

		if symfile == "" {
			symfile = "out.symdb"
		}
	} else {
		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else if stat.IsDir() {
			log.Printf("%s is not a valid assembly file", filename)
			return 1
		}

		input = file
		seeker = file
		log.SetPrefix(bold(filename + ":"))

		if symtable.Source, err = filepath.Abs(file.Name()); err != nil {
			log.Println(err)
			symtable.Source = ""
		}

		if symfile == "" {
			symfile = strings.TrimSuffix(
				filename, filepath.Ext(filename),
			) + ".symdb"
		}
	}

	asm := assembler.NewAssembler(symtable)

	var listing *bufio.Writer

	if listingvar {
		listing = bufio.NewWriter(stdout)
		asm.Listing = listing
	}

	err := asm.Assemble(input)

	if listing != nil {
		listing.Flush()
	}

	if err != nil {
		diagnose(err, seeker)
		return 1
	}

	glog.V(1).Infof("assembled %d bytes", asm.Program())

	if symbolsvar {
		if err := report.WriteSymbols(stdout, symtable); err != nil {
			log.Println(err)
			return 1
		}
	}

	if dumpvar {
		if code := dump(symtable); code != 0 {
			return code
		}
	}

	if debugvar || outvar != "" {
		return writeSymFile(symfile, symtable)
	}

	return 0
}

func inspect(cmd *cobra.Command, filename string) int {
	log.SetPrefix(bold(filepath.Base(filename) + ":"))

	stdout := cmd.OutOrStdout()

	file, err := os.Open(filename)

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	symtable, err := report.DecodeSymTable(file)

	if err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return 1
	}

	if dumpvar {
		if code := dump(symtable); code != 0 {
			return code
		}
	}

	if !sourcevar {
		if err := report.WriteSymbols(stdout, symtable); err != nil {
			log.Println(err)
			return 1
		}

		return 0
	}

	if symtable.Source == "" {
		log.Println("No source file recorded")
		return 1
	}

	source, err := os.Open(symtable.Source)

	if err != nil {
		log.Println("Error loading source file")
		log.Println(err)
		return 1
	}

	defer source.Close()

	if err := report.WriteSource(
		stdout, source, symtable, isTerminalWriter(stdout),
	); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		status = 1
	}

	glog.Flush()
	os.Exit(status)
}
