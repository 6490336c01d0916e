// Package console is the interactive command loop of the cheats console.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/buildkite/shellwords"
)

const (
	DefaultPrompt       = "(HMM3 Cheat Console) > "
	DefaultIntro        = "Welcome to the cheats console for Heroes of Might and Magic III.\nType help or ? to list commands.\n"
	DefaultPollInterval = 100 * time.Millisecond
)

var errExit = errors.New("exit")

// Player is the remote API exposed by the injected payload.
type Player interface {
	PrintPlayer() (text string, ok bool, err error)
	SetPlayer(name string, value int) error
}

type Console struct {
	target Player
	detach func() error

	in           io.Reader
	out          io.Writer
	prompt       string
	intro        string
	pollInterval time.Duration
	interrupts   <-chan os.Signal
	termHeight   func() int
	after        func(time.Duration) <-chan time.Time

	commands map[string]Command
	lastLine string
}

type Option func(*Console)

func WithInput(r io.Reader) Option {
	return func(c *Console) { c.in = r }
}

func WithOutput(w io.Writer) Option {
	return func(c *Console) { c.out = w }
}

func WithPrompt(prompt string) Option {
	return func(c *Console) { c.prompt = prompt }
}

func WithIntro(intro string) Option {
	return func(c *Console) { c.intro = intro }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Console) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithInterrupts sets the signal channel that stops player_loop, or ends
// the session when it fires at the prompt.
func WithInterrupts(ch <-chan os.Signal) Option {
	return func(c *Console) { c.interrupts = ch }
}

func WithTermHeight(fn func() int) Option {
	return func(c *Console) { c.termHeight = fn }
}

// New creates a console driving target. detach releases the attachment
// when the session ends; it may be nil.
func New(target Player, detach func() error, opts ...Option) *Console {
	c := &Console{
		target:       target,
		detach:       detach,
		in:           os.Stdin,
		out:          os.Stdout,
		prompt:       DefaultPrompt,
		intro:        DefaultIntro,
		pollInterval: DefaultPollInterval,
		termHeight:   terminalHeight,
		after:        defaultAfter,
		commands:     make(map[string]Command),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.registerCommands()
	return c
}

// Run prints the intro and processes commands until exit, end of input or
// an interrupt at the prompt; all three release the attachment and return
// nil. A failed payload call ends the session with its error.
func (c *Console) Run() error {
	fmt.Fprint(c.out, c.intro)

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go c.readLines(lines, done)

	for {
		fmt.Fprint(c.out, c.prompt)

		select {
		case <-c.interrupts:
			fmt.Fprintln(c.out)
			return c.release()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				return c.release()
			}
			err := c.Execute(line)
			if errors.Is(err, errExit) {
				return c.release()
			}
			if err != nil {
				return err
			}
		}
	}
}

func (c *Console) readLines(lines chan<- string, done <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
}

func (c *Console) release() error {
	if c.detach == nil {
		return nil
	}
	return c.detach()
}

// Execute runs a single command line. An empty line repeats the last
// non-empty one. Usage errors are reported on the output and return nil.
func (c *Console) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		if c.lastLine == "" {
			return nil
		}
		line = c.lastLine
	}
	c.lastLine = line

	args, err := shellwords.SplitPosix(line)
	if err != nil {
		fmt.Fprintln(c.out, "Invalid command line:", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}

	name := args[0]
	if name == "?" {
		name = "help"
	}
	cmd, ok := c.commands[name]
	if !ok {
		c.unknown()
		return nil
	}

	numArgs := len(args) - 1
	if cmd.MinArgs != -1 && numArgs < cmd.MinArgs {
		fmt.Fprintln(c.out, "Missing arguments")
		return nil
	}
	if cmd.MaxArgs != -1 && numArgs > cmd.MaxArgs {
		fmt.Fprintln(c.out, "Too many arguments for", name)
		return nil
	}
	return cmd.Func(args[1:])
}
