package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted by user")

// Confirmer gates destructive operations.
type Confirmer interface {
	Confirm(prompt string) error
}

// PromptConfirmer asks on out and reads the answer from in. An empty line or
// "y"/"yes" continues; anything else, including EOF, aborts.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer creates a PromptConfirmer.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *PromptConfirmer) Confirm(prompt string) error {
	fmt.Fprintf(c.out, "%s ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(c.out)
		return ErrAborted
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return nil
	default:
		return ErrAborted
	}
}

// AutoConfirmer accepts every prompt.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(string) error {
	return nil
}
