// Command rvasm assembles a small built-in demo program with
// pkg/encode and writes it out as an Intel-HEX image. The core's
// scenario tests do not load its output; they build their programs
// directly in Go.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"

	"github.com/mvmont-sim/rvtlm/pkg/encode"
	"github.com/mvmont-sim/rvtlm/pkg/loader"
)

// demoProgram computes 2+3 into x3 and traces the low byte of the
// result to the trace device before looping forever.
func demoProgram() []encode.Instruction {
	const traceAddr = 0x40000000
	return []encode.Instruction{
		encode.I("addi", 1, 0, 2),                    // x1 = 2
		encode.I("addi", 2, 0, 3),                     // x2 = 3
		encode.R("add", 3, 1, 2),                      // x3 = x1 + x2
		encode.U("lui", 4, traceAddr>>12),             // x4 = trace device high bits
		encode.S("sb", 4, 3, 0),                        // *x4 = low byte of x3
		encode.Labeled("spin", encode.J(0, "spin")),    // loop forever
	}
}

func main() {
	log.SetFlags(0)
	out := flag.String("o", "", "output Intel-HEX file")
	flag.Parse()
	if *out == "" {
		log.Fatal("usage: rvasm -o <output.hex>")
	}

	words, err := encode.Assemble(demoProgram())
	if err != nil {
		log.Fatal(err)
	}
	data := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}

	fp, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()
	if err := loader.WriteIntelHex(fp, 0, data); err != nil {
		log.Fatal(err)
	}
}
