package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/khrees2412/jobportal/internal/forms"
	"github.com/spf13/cobra"
)

// prompter fills empty form fields interactively.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{reader: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

// ask reads one line for label.
func (p *prompter) ask(label string) string {
	fmt.Fprint(p.out, labelStyle.Render(label+": "))
	line, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// fill asks for label only when *value is empty.
func (p *prompter) fill(label string, value *string) {
	if strings.TrimSpace(*value) == "" {
		*value = p.ask(label)
	}
}

// multiline reads lines until an empty one.
func (p *prompter) multiline(label string) string {
	fmt.Fprintln(p.out, labelStyle.Render(label+" (one per line, empty line to finish):"))
	var lines []string
	for {
		line, err := p.reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" || err != nil {
			if line != "" {
				lines = append(lines, line)
			}
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// reportInvalid lists field errors under the form and returns a short error
// for the command. Other errors pass through unchanged.
func reportInvalid(cmd *cobra.Command, err error) error {
	var verrs forms.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		cmd.Printf("  %s %s\n", errorStyle.Render("✗ "+f+":"), verrs[f])
	}
	return forms.ErrValidation
}
