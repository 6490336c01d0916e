package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Command struct {
	Func    func(args []string) error
	MinArgs int // -1 means no limit
	MaxArgs int // -1 means no limit
	Help    string
}

const setHelp = `Set the value of a variable (set <variable> <value>)

Available variables:
    Resources:
        - wood
        - mercury
        - ore
        - sulfur
        - crystal
        - gem
        - gold
    Hero:
        - xp
        - level
        - movelimit`

func (c *Console) registerCommand(name string, minArgs int, maxArgs int, help string, function func(args []string) error) {
	c.commands[name] = Command{
		Func:    function,
		MinArgs: minArgs,
		MaxArgs: maxArgs,
		Help:    help,
	}
}

func (c *Console) registerCommands() {
	c.registerCommand("player", 0, -1, "Display player informations", c.player)
	c.registerCommand("player_loop", 0, -1, fmt.Sprintf("Display player informations every %v", c.pollInterval), c.playerLoop)
	c.registerCommand("set", 2, 2, setHelp, c.set)
	c.registerCommand("clear", 0, -1, "Clear the console", c.clear)
	c.registerCommand("exit", 0, -1, "Exit the program", c.exit)
	c.registerCommand("help", 0, 1, "List available commands with \"help\" or detailed help with \"help cmd\".", c.help)
}

func (c *Console) player(args []string) error {
	text, ok, err := c.target.PrintPlayer()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	fmt.Fprintln(c.out, text)
	return nil
}

// playerLoop redraws the player screen every poll interval until an
// interrupt arrives or the payload has nothing to show.
func (c *Console) playerLoop(args []string) error {
	for {
		text, ok, err := c.target.PrintPlayer()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		// pad to a full screen so the previous frame scrolls away
		if pad := c.termHeight() - strings.Count(text, "\n") - 1; pad > 0 {
			text += strings.Repeat("\n", pad)
		}
		fmt.Fprint(c.out, text+"\r")

		select {
		case <-c.interrupts:
			return c.clear(nil)
		case <-c.after(c.pollInterval):
		}
	}
}

func (c *Console) set(args []string) error {
	value, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintln(c.out, "Invalid value")
		return nil
	}
	return c.target.SetPlayer(strings.ToLower(args[0]), value)
}

func (c *Console) clear(args []string) error {
	fmt.Fprint(c.out, "\x1b[H\x1b[2J\x1b[3J")
	return nil
}

func (c *Console) exit(args []string) error {
	return errExit
}

func (c *Console) help(args []string) error {
	if len(args) == 1 {
		cmd, ok := c.commands[args[0]]
		if !ok {
			fmt.Fprintf(c.out, "*** No help on %s\n", args[0])
			return nil
		}
		fmt.Fprintln(c.out, cmd.Help)
		return nil
	}

	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	header := "Documented commands (type help <topic>):"
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, header)
	fmt.Fprintln(c.out, strings.Repeat("=", len(header)))
	fmt.Fprintln(c.out, strings.Join(names, "  "))
	fmt.Fprintln(c.out)
	return nil
}

func (c *Console) unknown() {
	fmt.Fprintln(c.out, "Unknown command")
	fmt.Fprintln(c.out, `Type "help" or ? to list commands.`)
}

func defaultAfter(d time.Duration) <-chan time.Time {
	return time.After(d)
}
