package core

import "testing"

func TestMisaAdvertisesIMAC(t *testing.T) {
	c, _ := newTestCore(XLen32)
	misa := c.ReadCSR(CSRMisa)
	const extI, extM, extA, extC = 1 << 8, 1 << 12, 1 << 0, 1 << 2
	want := uint64(extI | extM | extA | extC)
	if misa&0xFFFFFFF != want {
		t.Fatalf("misa extension bits = 0x%x, want 0x%x", misa&0xFFFFFFF, want)
	}
	if mxl := misa >> 30; mxl != 1 {
		t.Fatalf("RV32 misa MXL = %d, want 1", mxl)
	}

	c64, _ := newTestCore(XLen64)
	misa64 := c64.ReadCSR(CSRMisa)
	if mxl := misa64 >> 62; mxl != 2 {
		t.Fatalf("RV64 misa MXL = %d, want 2", mxl)
	}
}

func TestMisaWriteIsIgnored(t *testing.T) {
	c, _ := newTestCore(XLen32)
	before := c.ReadCSR(CSRMisa)
	c.WriteCSR(CSRMisa, 0)
	if after := c.ReadCSR(CSRMisa); after != before {
		t.Fatalf("misa changed after write: 0x%x -> 0x%x", before, after)
	}
}

func TestUnrecognizedCSRReadsZero(t *testing.T) {
	c, _ := newTestCore(XLen32)
	if got := c.ReadCSR(0x7FF); got != 0 {
		t.Fatalf("unrecognized CSR read = 0x%x, want 0", got)
	}
	c.WriteCSR(0x7FF, 0xFFFFFFFF)
	if got := c.ReadCSR(0x7FF); got != 0 {
		t.Fatalf("unrecognized CSR read after write = 0x%x, want 0", got)
	}
}

func TestMstatusRoundTrips(t *testing.T) {
	c, _ := newTestCore(XLen32)
	c.WriteCSR(CSRMstatus, MstatusMIE)
	if got := c.ReadCSR(CSRMstatus); got&MstatusMIE == 0 {
		t.Fatalf("mstatus.MIE not set after write: 0x%x", got)
	}
}

func TestInstretTracksPerfCounter(t *testing.T) {
	c, _ := newTestCore(XLen32)
	c.Perf.InstRetired = 42
	if got := c.ReadCSR(CSRInstret); got != 42 {
		t.Fatalf("instret = %d, want 42", got)
	}
}

func TestCycleTracksTicks(t *testing.T) {
	c, _ := newTestCore(XLen32)
	c.Ticks = 123
	if got := c.ReadCSR(CSRCycle); got != 123 {
		t.Fatalf("cycle = %d, want 123", got)
	}
	if got := c.ReadCSR(CSRTime); got != 123 {
		t.Fatalf("time = %d, want 123", got)
	}
}

func TestInstrethFixesOriginalAliasBug(t *testing.T) {
	if CSRInstreth == CSRInstret {
		t.Fatal("CSRInstreth must not alias CSRInstret")
	}
	if CSRInstreth != 0xC82 {
		t.Fatalf("CSRInstreth = 0x%x, want 0xC82", CSRInstreth)
	}
}
