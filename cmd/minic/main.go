// Command minic is a thin script-runner and REPL front end over the
// minic core. The evaluator, standard-library shim, and line-editing
// are out of scope for the core itself; this command wires the host
// collaborator interfaces (platform I/O, diagnostics rendering) so
// they are exercised end to end.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/minic-lang/minic"
	"github.com/minic-lang/minic/ascii"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ascii.Color(ascii.DefaultTheme.Error, "%s", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "minic",
		Short: "A small, embeddable interpreter for a dialect of C",
	}
	root.AddCommand(newRunCmd(), newReplCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var useMMap bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Tokenise and run a translation unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			cfg := minic.NewConfig()
			cfg.SetBool("arena.use_mmap", useMMap)
			interp, err := minic.New(cfg, newCLIPlatform())
			if err != nil {
				return err
			}
			defer interp.Cleanup()

			return interp.Parse(path, source, false, func(c *minic.Cursor, tok minic.Token, val *minic.DecodedValue) {
				// Statement evaluation is an external collaborator's
				// responsibility; this front end only drives the
				// core far enough to exercise lexing, scoping, and
				// pre-processor evaluation end to end.
			})
		},
	}
	cmd.Flags().BoolVar(&useMMap, "mmap", false, "back the heap arena with an anonymous mmap region")
	return cmd
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			interp, err := minic.New(nil, newCLIPlatform())
			if err != nil {
				return err
			}
			defer interp.Cleanup()

			c := minic.NewInteractiveCursor(interp, "<stdin>")
			platform := interp.Platform.(*cliPlatform)
			for {
				if _, err := platform.stdin.Peek(1); err != nil {
					return nil
				}
				err := interp.ParseInteractiveLine(c, "minic> ", func(*minic.Cursor, minic.Token, *minic.DecodedValue) {})
				if err != nil {
					fmt.Fprintln(os.Stderr, ascii.Color(ascii.DefaultTheme.Error, "%s", err))
				}
			}
		},
	}
}

// cliPlatform implements minic.Platform over the process's stdio.
type cliPlatform struct {
	stdin *bufio.Reader
}

func newCLIPlatform() *cliPlatform {
	return &cliPlatform{stdin: bufio.NewReader(os.Stdin)}
}

func (p *cliPlatform) Putc(ch byte) { os.Stdout.Write([]byte{ch}) }

func (p *cliPlatform) GetCharacter() (byte, bool) {
	b, err := p.stdin.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

func (p *cliPlatform) GetLine(prompt string) ([]byte, bool) {
	if prompt != "" {
		fmt.Fprint(os.Stdout, ascii.Color(ascii.DefaultTheme.Accent, "%s", prompt))
	}
	line, err := p.stdin.ReadString('\n')
	if err != nil && line == "" {
		return nil, false
	}
	return []byte(line), true
}

func (p *cliPlatform) Exit(code int) { os.Exit(code) }

func (p *cliPlatform) ReadFile(path string) ([]byte, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return b, true
}
