package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"bitcmd/core"
)

// session feeds the interpreter directly from shell commands. Each command
// plays the interrupt and then runs one main-loop pass.
type session struct {
	interp *core.Interpreter
	bus    core.RegisterBus
}

// send pushes text byte by byte, then polls
func (s *session) send(text string) {
	for i := 0; i < len(text); i++ {
		s.interp.OnByteReceived(text[i])
	}
	s.interp.Poll()
}

func (s *session) edge() {
	s.interp.OnEdge()
	s.interp.Poll()
}

func (s *session) register(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("usage: reg <hex address>")
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(arg), "0x"), 16, 16)
	if err != nil {
		return "", fmt.Errorf("bad register address %q: %w", arg, err)
	}

	addr := core.RegisterAddr(n)
	return fmt.Sprintf("0x%02x data=%08b dir=%08b",
		uint16(addr), s.bus.Load(addr), s.bus.Load(addr.Direction())), nil
}

func (s *session) stats() string {
	st := s.interp.Stats()
	return fmt.Sprintf("state=%s commands=%d invalid=%d overflows=%d overruns=%d edges=%d",
		st.State, st.Commands, st.Invalid, st.Overflows, st.Overruns, st.Edges)
}

func runShell(s *session) {
	sh := ishell.New()
	sh.SetPrompt("bitcmd> ")
	sh.Println("Type commands like 25:3:1: with send, or help")

	sh.AddCmd(&ishell.Cmd{
		Name: "send",
		Help: "feed characters to the interpreter, e.g. send 25:3:1:",
		Func: func(c *ishell.Context) {
			s.send(strings.Join(c.Args, ""))
			c.Println("state:", s.interp.State())
		},
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "edge",
		Help: "pulse the external edge input",
		Func: func(*ishell.Context) {
			s.edge()
		},
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "reg",
		Help: "show a data register and its direction register",
		Func: func(c *ishell.Context) {
			arg := ""
			if len(c.Args) > 0 {
				arg = c.Args[0]
			}
			line, err := s.register(arg)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(line)
		},
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "stats",
		Help: "show interpreter counters",
		Func: func(c *ishell.Context) {
			c.Println(s.stats())
		},
	})

	sh.Run()
	sh.Close()
}
