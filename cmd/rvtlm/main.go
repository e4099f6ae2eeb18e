// Command rvtlm runs a RISC-V program image on the simulator core.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvmont-sim/rvtlm/pkg/bus"
	"github.com/mvmont-sim/rvtlm/pkg/core"
	"github.com/mvmont-sim/rvtlm/pkg/corelog"
	"github.com/mvmont-sim/rvtlm/pkg/debugstub"
	"github.com/mvmont-sim/rvtlm/pkg/loader"
	"github.com/mvmont-sim/rvtlm/pkg/memory"
	"github.com/mvmont-sim/rvtlm/pkg/peripheral/timer"
	"github.com/mvmont-sim/rvtlm/pkg/peripheral/trace"
)

const (
	ramBase = 0x00000000
	ramSize = 1 << 24 // 16 MiB
)

var (
	flagDebug    bool
	flagDump     bool
	flagDumpLo   string
	flagDumpHi   string
	flagLogLevel int
	flagFile     string
	flagXLen     int
)

func main() {
	root := &cobra.Command{
		Use:   "rvtlm",
		Short: "Run a RISC-V RV32/RV64 IMAC program image",
		RunE:  run,
	}
	root.Flags().BoolVarP(&flagDebug, "debug", "D", false, "attach debug stub on tcp/1234")
	root.Flags().BoolVarP(&flagDump, "dump", "T", false, "signature dump on exit")
	root.Flags().StringVarP(&flagDumpLo, "dump-start", "B", "0x0", "dump range start address (hex)")
	root.Flags().StringVarP(&flagDumpHi, "dump-end", "E", "0x0", "dump range end address (hex)")
	root.Flags().IntVarP(&flagLogLevel, "log-level", "L", 1, "log level 0..3 (0=debug .. 3=error)")
	root.Flags().StringVarP(&flagFile, "file", "f", "", "Intel-HEX program image")
	root.Flags().IntVar(&flagXLen, "xlen", 32, "core register width: 32 or 64")
	root.MarkFlagRequired("file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := corelog.NewLogger(os.Stderr, levelFromFlag(flagLogLevel))

	xlen := core.XLen32
	if flagXLen == 64 {
		xlen = core.XLen64
	} else if flagXLen != 32 {
		return fmt.Errorf("rvtlm: --xlen must be 32 or 64, got %d", flagXLen)
	}

	fp, err := os.Open(flagFile)
	if err != nil {
		return err
	}
	defer fp.Close()
	segments, hexEntry, err := loader.Parse(fp)
	if err != nil {
		return fmt.Errorf("rvtlm: loading %s: %w", flagFile, err)
	}

	ram := memory.New(ramBase, ramSize)
	for _, seg := range segments {
		if err := ram.LoadAt(seg.Addr, seg.Data); err != nil {
			return fmt.Errorf("rvtlm: placing segment at 0x%x: %w", seg.Addr, err)
		}
	}

	entry := uint64(ramBase)
	if hexEntry != nil {
		entry = *hexEntry
	}

	tr := trace.New(os.Stdout)
	b := bus.New()
	b.Map(ramBase, ramSize, ram, ram)
	b.MapData(trace.Addr, 4, tr)

	c := core.New(xlen, entry, b, b, ram.Top())
	tm := timer.New(c)
	b.MapData(timer.MtimeAddr, 16, tm)

	logger.Info("rvtlm: loaded program", "file", flagFile, "xlen", flagXLen, "entry", fmt.Sprintf("0x%x", entry))

	if flagDebug {
		srv := debugstub.New(c, debugstub.DefaultAddr)
		go func() {
			if err := srv.Serve(); err != nil {
				logger.Error("debugstub exited", "err", err)
			}
		}()
	}

	stopTimer := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Microsecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tm.Advance(1000)
			case <-stopTimer:
				return
			}
		}
	}()
	defer close(stopTimer)

	if _, err := c.Run(0); err != nil {
		logger.Error("rvtlm: run stopped", "err", err)
	}

	if flagDump {
		lo, err := strconv.ParseUint(trimHex(flagDumpLo), 16, 64)
		if err != nil {
			return fmt.Errorf("rvtlm: bad -B value %q: %w", flagDumpLo, err)
		}
		hi, err := strconv.ParseUint(trimHex(flagDumpHi), 16, 64)
		if err != nil {
			return fmt.Errorf("rvtlm: bad -E value %q: %w", flagDumpHi, err)
		}
		out, err := c.DumpRange(lo, hi)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
	}

	return nil
}

func trimHex(s string) string {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func levelFromFlag(l int) slog.Level {
	switch l {
	case 0:
		return slog.LevelDebug
	case 1:
		return slog.LevelInfo
	case 2:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
