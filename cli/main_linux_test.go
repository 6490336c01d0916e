package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zed-0xff/h3cheats"
)

const statusPayload = `
local calls = 0
rpc.exports.printplayer = function()
  calls = calls + 1
  return "status " .. calls
end
rpc.exports.setplayer = function(name, value)
  console.log("set " .. name .. " " .. value)
end
`

const brokenPayload = `
rpc.exports.printplayer = function() error("hero table moved") end
rpc.exports.setplayer = function() end
`

func writePayload(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.lua")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

// blockingInput never delivers a line or EOF until the test ends.
func blockingInput(t *testing.T) io.Reader {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		w.Close()
		r.Close()
	})
	return r
}

var sessionTests = []struct {
	name      string
	payload   string
	input     string
	interrupt bool
	code      int
	stdout    []string
	detached  bool
}{
	{
		name:     "exit",
		payload:  statusPayload,
		input:    "player\nset Wood 5\nset wood\nexit\nplayer\n",
		stdout:   []string{"status 1\n", "set wood 5\n", "Missing arguments\n"},
		detached: true,
	},
	{
		name:     "end of input",
		payload:  statusPayload,
		input:    "player\nplayer\n",
		stdout:   []string{"status 1\n", "status 2\n"},
		detached: true,
	},
	{
		name:      "interrupt at prompt",
		payload:   statusPayload,
		interrupt: true,
		stdout:    []string{"(HMM3 Cheat Console) > "},
		detached:  true,
	},
	{
		name:    "payload failure",
		payload: brokenPayload,
		input:   "player\nexit\n",
		code:    1,
		stdout:  []string{notFoundMessage + "\n"},
	},
}

func TestRunSession(t *testing.T) {
	defer func() {
		h3cheats.Verbosity = 0
		h3cheats.LogOutput = os.Stderr
	}()
	self := strconv.Itoa(os.Getpid())

	for _, test := range sessionTests {
		var in io.Reader = strings.NewReader(test.input)
		var interrupts chan os.Signal
		if test.interrupt {
			in = blockingInput(t)
			interrupts = make(chan os.Signal, 1)
			interrupts <- syscall.SIGINT
		}

		var stdout, stderr bytes.Buffer
		args := []string{"-script", writePayload(t, test.payload), self}
		code := run(args, in, &stdout, &stderr, interrupts)

		assert.Equal(t, test.code, code, test.name)
		for _, want := range test.stdout {
			assert.Contains(t, stdout.String(), want, test.name)
		}
		assert.Contains(t, stderr.String(), "[.] attached to", test.name)
		if test.detached {
			assert.Contains(t, stderr.String(), "[.] detached from", test.name)
		} else {
			assert.NotContains(t, stderr.String(), "detached from", test.name)
		}
	}
}
