// Command h3cheats is a cheats console for Heroes of Might and Magic III.
//
// It attaches to the running game, injects the instrumentation payload and
// reads commands from the terminal:
//
//	player                  display player informations
//	player_loop             display player informations every 100ms
//	set <variable> <value>  set the value of a variable
//	clear                   clear the console
//	exit                    exit the program
//
// Usage:
//
//	h3cheats [flags] [pid_or_exename]
//
// The target defaults to HEROES3.EXE.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rodaine/table"

	"github.com/zed-0xff/h3cheats"
	"github.com/zed-0xff/h3cheats/console"
	"github.com/zed-0xff/h3cheats/script"
)

const notFoundMessage = "Game not found or not running."

func usage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		fmt.Fprint(w,
			"Heroes of Might and Magic III cheats console v", h3cheats.Version, "\n",
			"Usage:\n",
			"    h3cheats [flags] [pid_or_exename]\n",
			"    h3cheats -ps\n",
			"Flags:\n",
		)
		fs.PrintDefaults()
	}
}

func listProcesses(w io.Writer) error {
	entries, err := h3cheats.ListProcesses()
	if err != nil {
		return err
	}
	tbl := table.New("PID", "Name").WithWriter(w)
	for _, e := range entries {
		tbl.AddRow(e.Pid, e.Name)
	}
	tbl.Print()
	return nil
}

// fail reports any attach, load or session failure the same way.
func fail(stdout io.Writer, err error) int {
	h3cheats.Debugf("%v", err)
	fmt.Fprintln(stdout, notFoundMessage)
	return 1
}

type detacher interface {
	Detach() error
}

// releaseOnExit detaches at the end of a normal session. A failed detach is
// only reported: the game is left running either way.
func releaseOnExit(p detacher) func() error {
	return func() error {
		if err := p.Detach(); err != nil {
			h3cheats.Warnf("detach from %v: %v", p, err)
			return nil
		}
		h3cheats.Infof("detached from %v", p)
		return nil
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, interrupts <-chan os.Signal) int {
	fs := flag.NewFlagSet("h3cheats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)

	cfg, err := ParseConfig(fs, args)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	h3cheats.Verbosity = cfg.Verbosity()
	h3cheats.LogOutput = stderr

	if cfg.ListProcesses {
		if err := listProcesses(stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	name, source, err := script.ReadPayload(cfg.Script)
	if err != nil {
		return fail(stdout, err)
	}

	process, err := h3cheats.Attach(cfg.Target)
	if err != nil {
		return fail(stdout, err)
	}
	defer process.Detach()
	process.PtrSize = cfg.PointerSize
	h3cheats.Infof("attached to %s", process)
	h3cheats.Debugf("pointer size %d", process.PointerSize())

	s, err := script.Inject(process, name, source, func(m script.Message) {
		fmt.Fprintln(stdout, m)
	})
	if err != nil {
		return fail(stdout, err)
	}
	defer s.Unload()
	h3cheats.Debugf("%s exports: %v", name, s.Exports())

	c := console.New(script.PlayerExports{Script: s}, releaseOnExit(process),
		console.WithInput(stdin),
		console.WithOutput(stdout),
		console.WithPollInterval(cfg.PollInterval),
		console.WithInterrupts(interrupts),
	)
	if err := c.Run(); err != nil {
		return fail(stdout, err)
	}
	return 0
}

func main() {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)

	if err := enableVirtualTerminal(); err != nil {
		h3cheats.Debugf("enable virtual terminal: %v", err)
	}

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, interrupts))
}
