// Package trace implements the UART-like trace device: a write-only
// byte sink mapped at a single address that concatenates every byte
// written to it into a string, optionally echoing each byte out to an
// attached connection as it arrives.
package trace

import (
	"bytes"
	"io"
	"log"
	"net"
)

// Addr is the data-bus address the device is mapped at.
const Addr uint64 = 0x40000000

// Device is the trace sink. The zero value is ready to use with no
// live echo; call AcceptEcho to wire one in later.
type Device struct {
	buf  bytes.Buffer
	echo io.Writer
}

// New builds a Device, optionally echoing every written byte to w.
// w may be nil.
func New(w io.Writer) *Device {
	return &Device{echo: w}
}

// ReadData implements core.DataMemory. The device has no readable
// state; reads always return 0.
func (d *Device) ReadData(addr uint64, size int) (uint64, error) {
	return 0, nil
}

// WriteData implements core.DataMemory. Only the low byte of value is
// significant: a byte write appends it to the accumulated trace and,
// if an echo writer is attached, forwards it there too.
func (d *Device) WriteData(addr uint64, value uint64, size int) error {
	b := byte(value)
	d.buf.WriteByte(b)
	if d.echo != nil {
		if _, err := d.echo.Write([]byte{b}); err != nil {
			log.Printf("trace: echo write failed: %s", err)
		}
	}
	return nil
}

// String returns every byte written to the device so far,
// concatenated in write order.
func (d *Device) String() string {
	return d.buf.String()
}

// Bytes returns the same content as String as a byte slice.
func (d *Device) Bytes() []byte {
	return d.buf.Bytes()
}

// AcceptEcho waits for a single controlling TCP connection and wires
// its writer in as the device's echo sink: a driver that wants to
// watch trace output live can point a client at the returned address.
func AcceptEcho(d *Device) (net.Conn, error) {
	nl, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	log.Printf("trace: waiting for console to attach on %s/tcp...", nl.Addr())
	conn, err := nl.Accept()
	if err != nil {
		return nil, err
	}
	d.echo = conn
	return conn, nil
}
