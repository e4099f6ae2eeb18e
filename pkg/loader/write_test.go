package loader

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteIntelHexRoundTripsThroughParse(t *testing.T) {
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i * 3)
	}

	var buf bytes.Buffer
	if err := WriteIntelHex(&buf, 0x100, data); err != nil {
		t.Fatal(err)
	}

	segs, entry, err := Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("re-parsing written Intel HEX: %v", err)
	}
	if entry != nil {
		t.Fatalf("entry = %v, want nil (WriteIntelHex never emits a start-linear-address record)", entry)
	}
	if len(segs) != 1 {
		t.Fatalf("expected one merged segment, got %d", len(segs))
	}
	if segs[0].Addr != 0x100 {
		t.Fatalf("segment addr = 0x%x, want 0x100", segs[0].Addr)
	}
	if !bytes.Equal(segs[0].Data, data) {
		t.Fatalf("round-tripped data does not match: got %v, want %v", segs[0].Data, data)
	}
}

func TestWriteIntelHexChunksAt16Bytes(t *testing.T) {
	data := make([]byte, 17)
	var buf bytes.Buffer
	if err := WriteIntelHex(&buf, 0, data); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 17 bytes -> one 16-byte record, one 1-byte record, one EOF record.
	if len(lines) != 3 {
		t.Fatalf("expected 3 records for 17 bytes, got %d: %v", len(lines), lines)
	}
}

func TestWriteIntelHexRejectsBaseBeyondOneSegment(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIntelHex(&buf, 0x10000, []byte{1}); err == nil {
		t.Fatal("expected an error for a base address beyond a single 64KiB segment")
	}
}

func TestWriteIntelHexEmptyDataStillEmitsEOF(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIntelHex(&buf, 0, nil); err != nil {
		t.Fatal(err)
	}
	segs, _, err := Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 0 {
		t.Fatalf("expected no segments for empty data, got %d", len(segs))
	}
}
