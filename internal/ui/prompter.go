package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Option struct {
	Label string
	Value string
}

// Prompter asks the user for input. Cancelling a Choose or Input yields "".
type Prompter interface {
	Choose(title string, options []Option) (string, error)
	Confirm(title, body string) (bool, error)
	Input(title, placeholder string) (string, error)
}

// NewPrompter returns a prompter for backend. Terminal backends are tried in
// candidate order and the line-based prompter on in/out is the last resort.
func NewPrompter(backend string, in io.Reader, out io.Writer) Prompter {
	plain := NewPlainPrompter(in, out)
	if !IsInteractiveBackend(backend) {
		return plain
	}
	return &terminalPrompter{candidates: backendCandidates(backend), fallback: plain}
}

type terminalPrompter struct {
	candidates []string
	fallback   Prompter
}

func (p *terminalPrompter) Choose(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	for _, candidate := range p.candidates {
		var (
			value string
			err   error
		)
		switch candidate {
		case BackendBubbleTea:
			value, err = chooseWithBubbleTea(title, options)
		case BackendHuh:
			value, err = chooseWithHuh(title, options)
		case BackendTView:
			value, err = chooseWithTView(title, options)
		default:
			continue
		}
		if err != nil {
			continue
		}
		return value, nil
	}
	return p.fallback.Choose(title, options)
}

func (p *terminalPrompter) Confirm(title, body string) (bool, error) {
	for _, candidate := range p.candidates {
		var (
			approved bool
			err      error
		)
		switch candidate {
		case BackendBubbleTea:
			approved, err = confirmWithBubbleTea(title, body)
		case BackendHuh:
			approved, err = confirmWithHuh(title, body)
		case BackendTView:
			approved, err = confirmWithTView(title, body)
		default:
			continue
		}
		if err != nil {
			continue
		}
		return approved, nil
	}
	return p.fallback.Confirm(title, body)
}

func (p *terminalPrompter) Input(title, placeholder string) (string, error) {
	for _, candidate := range p.candidates {
		var (
			value string
			err   error
		)
		switch candidate {
		case BackendBubbleTea:
			value, err = inputWithBubbleTea(title, placeholder)
		case BackendHuh:
			value, err = inputWithHuh(title, placeholder)
		case BackendTView:
			value, err = inputWithTView(title, placeholder)
		default:
			continue
		}
		if err != nil {
			continue
		}
		return strings.TrimSpace(value), nil
	}
	return p.fallback.Input(title, placeholder)
}

// PlainPrompter reads answers line by line. It is used for piped input and
// whenever no terminal backend can start.
type PlainPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPlainPrompter(in io.Reader, out io.Writer) *PlainPrompter {
	return &PlainPrompter{in: bufio.NewReader(in), out: out}
}

// Choose accepts an option number or value. End of input cancels.
func (p *PlainPrompter) Choose(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	fmt.Fprintln(p.out, title)
	for idx, option := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", idx+1, option.Label)
	}
	for {
		fmt.Fprint(p.out, "choice: ")
		line, eof, err := p.readLine()
		if err != nil {
			return "", err
		}
		if line == "" && eof {
			return "", nil
		}
		if value, ok := matchOption(line, options); ok {
			return value, nil
		}
		if eof {
			return "", nil
		}
		fmt.Fprintf(p.out, "invalid choice %q\n", line)
	}
}

func (p *PlainPrompter) Confirm(title, body string) (bool, error) {
	fmt.Fprintln(p.out, title)
	if strings.TrimSpace(body) != "" {
		fmt.Fprintln(p.out, body)
	}
	fmt.Fprint(p.out, "[y/N]: ")
	line, _, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *PlainPrompter) Input(title, placeholder string) (string, error) {
	if placeholder != "" {
		fmt.Fprintf(p.out, "%s (%s): ", title, placeholder)
	} else {
		fmt.Fprintf(p.out, "%s: ", title)
	}
	line, _, err := p.readLine()
	return line, err
}

func (p *PlainPrompter) readLine() (string, bool, error) {
	line, err := p.in.ReadString('\n')
	if err == io.EOF {
		return strings.TrimSpace(line), true, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(line), false, nil
}

func matchOption(answer string, options []Option) (string, bool) {
	if answer == "" {
		return "", false
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1].Value, true
		}
		return "", false
	}
	for _, option := range options {
		if strings.EqualFold(option.Value, answer) {
			return option.Value, true
		}
	}
	return "", false
}
