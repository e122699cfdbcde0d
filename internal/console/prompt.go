package console

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/mamadbah2/inventory/internal/validation"
)

// CancelToken aborts the operation being filled in when typed at a
// cancelable prompt.
const CancelToken = "c"

// ErrCanceled is returned by Ask when the user typed CancelToken.
var ErrCanceled = errors.New("operation canceled")

// Field describes one prompt.
type Field struct {
	Label      string
	Rule       validation.Rule
	Cancelable bool
}

// Prompter reads answers line by line and re-prompts until one satisfies
// the field rule.
type Prompter struct {
	in      *bufio.Scanner
	console *Console
}

// NewPrompter reads from in and reports rejections on console.
func NewPrompter(in io.Reader, console *Console) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), console: console}
}

// Ask returns the first trimmed answer accepted by the field rule. It
// returns ErrCanceled on the cancel token and io.EOF once input ends.
func (p *Prompter) Ask(f Field) (string, error) {
	for {
		p.console.Prompt(f.Label)

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		value := strings.TrimSpace(p.in.Text())

		if f.Cancelable && strings.EqualFold(value, CancelToken) {
			return "", ErrCanceled
		}

		if err := f.Rule.Check(value); err != nil {
			var fieldErr *validation.FieldError
			if errors.As(err, &fieldErr) {
				p.console.Error("%s", fieldErr.Message())
			} else {
				p.console.Error("%v", err)
			}
			continue
		}

		return value, nil
	}
}

// Confirm asks a y/n question. Only the cancel token or end of input end it
// with an error.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Ask(Field{
		Label:      label,
		Rule:       validation.Rule{Options: []string{"y", "n", "Y", "N"}},
		Cancelable: true,
	})
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}
