// cmd/smcprobe/trace.go
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tamzrod/smc-keys/internal/trace"
)

// dumpTrace prints every event of the capture at path, one per line.
func dumpTrace(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	events, err := trace.Decode(f)
	for _, ev := range events {
		line := fmt.Sprintf("%s %-7s session=%s op=%s",
			ev.Timestamp.Format(time.RFC3339Nano), ev.Phase, ev.SessionID, ev.Op)
		if ev.Phase == trace.PhaseCall {
			line += fmt.Sprintf(" sel=%d sub=%d key=%s size=%d result=0x%02x elapsed=%s",
				ev.Selector, ev.SubOp, ev.Key, ev.Size, ev.Result, ev.Duration)
		}
		if ev.Err != "" {
			line += " error=" + ev.Err
		}
		if _, werr := fmt.Fprintln(w, line); werr != nil {
			return werr
		}
	}
	return err
}
