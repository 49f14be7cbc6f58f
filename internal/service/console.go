package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console reads the interactive credentials.
type Console struct {
	r   *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{r: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.fd = int(f.Fd())
		c.tty = true
	}
	return c
}

func (c *Console) Prompt(msg string) {
	fmt.Fprint(c.out, msg)
}

// ReadLine reads one line, strips the line terminator and keeps at most
// capacity bytes; the rest of the line is discarded. It returns io.EOF only
// when no input at all was available, so a blank line reads as "".
func (c *Console) ReadLine(capacity int) (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", err
		}
		if line == "" {
			return "", io.EOF
		}
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return truncate(line, capacity), nil
}

// ReadSecret reads a line without echo when the input is a terminal.
func (c *Console) ReadSecret(capacity int) (string, error) {
	if !c.tty {
		return c.ReadLine(capacity)
	}

	b, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out) // newline after hidden input
	if err != nil {
		return "", err
	}
	return truncate(string(b), capacity), nil
}

func truncate(s string, capacity int) string {
	if capacity >= 0 && len(s) > capacity {
		return s[:capacity]
	}
	return s
}
