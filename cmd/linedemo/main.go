// Command linedemo is an interactive demo of the lineedit library: a
// minimal REPL that echoes back whatever line it reads, backed by a real
// history file.
//
// Flag/Cobra wiring follows examples/cobra-cli/main.go's
// hybrid-CLI pattern (flags configure behavior, the command body itself
// runs the interactive loop rather than branching into a separate TUI
// mode, since a line editor has no non-interactive mode to fall back to).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/phoenix-tui/lineedit"
	"github.com/spf13/cobra"
)

var (
	historyFile string
	multiline   bool
	prompt      string
)

var rootCmd = &cobra.Command{
	Use:   "linedemo",
	Short: "Interactive demo of the lineedit line editor",
	Long: `linedemo runs a minimal read-eval-print loop on top of lineedit.

Type a line and press Enter to see it echoed back. Up/Down recall
history, Ctrl-R starts a reverse incremental search, Ctrl-D on an empty
line exits. With --multiline, a line ending in a backslash continues
onto the next line instead of submitting.`,
	RunE: runDemo,
}

func init() {
	rootCmd.Flags().StringVar(&historyFile, "history-file", "", "path to a history file to load and save")
	rootCmd.Flags().BoolVar(&multiline, "multiline", false, "continue lines ending in '\\' instead of submitting")
	rootCmd.Flags().StringVar(&prompt, "prompt", "linedemo> ", "prompt text")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	ed, err := lineedit.Create()
	if err != nil {
		return fmt.Errorf("create editor: %w", err)
	}
	defer ed.Close()

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			loadErr := ed.LoadHistory(f)
			f.Close()
			if loadErr != nil {
				return fmt.Errorf("load history: %w", loadErr)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("open history file: %w", err)
		}
	}

	if multiline {
		ed.SetMultiline(true, func(text string) bool {
			return len(text) > 0 && text[len(text)-1] == '\\'
		})
	}

	for {
		line, err := ed.ReadLine(prompt)
		if err != nil {
			var lerr *lineedit.Error
			if errors.As(err, &lerr) {
				switch lerr.Kind {
				case lineedit.ErrKindInterrupted:
					fmt.Println("^C")
					continue
				case lineedit.ErrKindEndOfInput:
					fmt.Println()
					return saveHistory(ed)
				}
			}
			return fmt.Errorf("read line: %w", err)
		}
		fmt.Printf("=> %q\n", line)
	}
}

func saveHistory(ed *lineedit.Editor) error {
	if historyFile == "" {
		return nil
	}
	f, err := os.Create(historyFile)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	defer f.Close()
	return ed.SaveHistory(f)
}
