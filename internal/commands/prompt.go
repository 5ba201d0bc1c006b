package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// errNoInput is returned when a value must be prompted for but there is no input.
var errNoInput = errors.New("no input available")

// prompter reads answers from stdin, writing prompts to errOut so stdout
// stays clean. Passwords are read without echo when stdin is a terminal.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: in, out: out}
	if in != nil {
		p.reader = bufio.NewReader(in)
	}
	return p
}

// line prompts for a single line and returns it trimmed.
func (p *prompter) line(label string) (string, error) {
	s, err := p.readLine(label)
	return strings.TrimSpace(s), err
}

// password prompts for a secret. It is returned as typed, without trimming.
func (p *prompter) password(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	s, err := p.readLine(label)
	return strings.TrimRight(s, "\r\n"), err
}

// readLine returns errNoInput when stdin is missing or already exhausted.
// A final line without a newline is accepted.
func (p *prompter) readLine(label string) (string, error) {
	if p.reader == nil {
		return "", errNoInput
	}
	fmt.Fprint(p.out, label)
	s, err := p.reader.ReadString('\n')
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, io.EOF) && s != "":
		return s, nil
	case errors.Is(err, io.EOF):
		return "", errNoInput
	default:
		return "", err
	}
}
