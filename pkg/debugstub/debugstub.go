// Package debugstub implements the TCP debug protocol: a single
// controlling connection that can inspect registers, single-step, set
// breakpoints, and resume the core.
package debugstub

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/mvmont-sim/rvtlm/pkg/core"
)

// DefaultAddr is the address the stub listens on.
const DefaultAddr = "127.0.0.1:1234"

// Server accepts a single controlling connection and serves the line
// protocol against c until the connection closes.
type Server struct {
	c    *core.Core
	addr string
}

// New builds a Server. addr defaults to DefaultAddr when empty.
func New(c *core.Core, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{c: c, addr: addr}
}

// Serve listens, accepts exactly one connection, and processes
// commands from it until it closes or sends "quit".
func (s *Server) Serve() error {
	nl, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	defer nl.Close()
	log.Printf("debugstub: waiting for debugger to attach on %s/tcp...", nl.Addr())
	conn, err := nl.Accept()
	if err != nil {
		return err
	}
	defer conn.Close()
	return s.serveConn(conn)
}

func (s *Server) serveConn(conn net.Conn) error {
	scanner := bufio.NewScanner(conn)
	w := bufio.NewWriter(conn)
	defer w.Flush()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return nil
		}
		s.dispatch(w, line)
		w.Flush()
	}
	return scanner.Err()
}

func (s *Server) dispatch(w io.Writer, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "regs":
		s.cmdRegs(w)
	case "step":
		s.cmdStep(w)
	case "cont":
		s.cmdCont(w)
	case "break":
		s.cmdBreak(w, fields[1:])
	default:
		fmt.Fprintf(w, "error: unknown command %q\n", fields[0])
	}
}

func (s *Server) cmdRegs(w io.Writer) {
	fmt.Fprintf(w, "pc=0x%x\n", s.c.PC())
	for i := 0; i < core.NumRegisters; i++ {
		fmt.Fprintf(w, "x%d=0x%x\n", i, s.c.Reg(i))
	}
}

func (s *Server) cmdStep(w io.Writer) {
	outcome, err := s.c.Step()
	fmt.Fprintf(w, "step pc=0x%x outcome=%d", s.c.PC(), outcome)
	if err != nil {
		fmt.Fprintf(w, " trap=%s", err)
	}
	fmt.Fprintln(w)
}

func (s *Server) cmdCont(w io.Writer) {
	outcome, err := s.c.Run(0)
	fmt.Fprintf(w, "cont pc=0x%x outcome=%d", s.c.PC(), outcome)
	if err != nil {
		fmt.Fprintf(w, " err=%s", err)
	}
	fmt.Fprintln(w)
}

func (s *Server) cmdBreak(w io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(w, "error: usage: break <addr>")
		return
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 64)
	if err != nil {
		fmt.Fprintf(w, "error: bad address %q: %s\n", args[0], err)
		return
	}
	s.c.SetBreakpoint(addr)
	fmt.Fprintf(w, "breakpoint set at 0x%x\n", addr)
}
