// Package prompt reads answers to interactive questions from a line-oriented
// input stream.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MinCodeLength is the shortest one-time code accepted before re-prompting.
const MinCodeLength = 4

var (
	// ErrNoInput is returned when the input stream ends before an answer.
	ErrNoInput = errors.New("prompt: no input")
	// ErrClosed is returned when a closed Prompter is used.
	ErrClosed = errors.New("prompt: closed")
)

// Prompter asks questions on out and reads answers from in. One Prompter is
// created per process; Close it when the command returns.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	closed bool
}

// New creates a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Close releases the Prompter. Later calls fail with ErrClosed.
func (p *Prompter) Close() error {
	p.closed = true
	return nil
}

// Out returns the writer prompts are printed to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Ask prints question and returns the trimmed answer line.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	if p.closed {
		return "", ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrNoInput
		}
		return "", fmt.Errorf("prompt: read failed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// AskDefault is Ask with a value used when the answer is empty.
func (p *Prompter) AskDefault(ctx context.Context, question, def string) (string, error) {
	answer, err := p.Ask(ctx, fmt.Sprintf("%s [%s]: ", question, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskRequired re-asks until a non-empty answer is given.
func (p *Prompter) AskRequired(ctx context.Context, question string) (string, error) {
	for {
		answer, err := p.Ask(ctx, question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(p.out, "A value is required.")
	}
}

// Confirm asks a yes/no question. Anything other than y/yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Code asks for the one-time code sent to email, re-prompting until it is
// at least MinCodeLength characters long.
func (p *Prompter) Code(ctx context.Context, email string) (string, error) {
	fmt.Fprintf(p.out, "A verification code was sent to %s.\n", email)
	for {
		code, err := p.Ask(ctx, "Enter the code: ")
		if err != nil {
			return "", err
		}
		if len(code) >= MinCodeLength {
			return code, nil
		}
		fmt.Fprintf(p.out, "The code must be at least %d characters.\n", MinCodeLength)
	}
}
