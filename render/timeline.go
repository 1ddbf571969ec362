package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/storypipe/storypipe/message"
	"github.com/storypipe/storypipe/stage"
	"github.com/storypipe/storypipe/timing"
)

const timeLayout = "15:04:05.000"

var divider = strings.Repeat("=", 60)

// Timeline renders the per-stage execution timeline of a finished run.
// Parallel members are indented under the hub, followed by the batch
// summary line and the total wall time.
func Timeline(msg *message.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nPipeline Execution Timeline\n%s\n", divider, divider)

	for _, name := range []string{stage.NameA, stage.NameB, stage.NameCHub, stage.NameD} {
		rec := msg.Timestamps.Get(name)
		if rec == nil {
			continue
		}
		fmt.Fprintf(&b, "\n[%s]\n", stage.DisplayNames[name])
		writeRecord(&b, rec, "  ")

		if name == stage.NameCHub {
			writeParallelBlock(&b, msg)
		}
	}

	if total := msg.TotalDuration(); total > 0 {
		fmt.Fprintf(&b, "\nTotal pipeline duration: %s\n", formatDuration(total))
	}
	return b.String()
}

func writeParallelBlock(b *strings.Builder, msg *message.Message) {
	var memberSum time.Duration
	members := 0
	for _, name := range stage.Parallel() {
		rec := msg.Timestamps.Get(name)
		if rec == nil {
			continue
		}
		fmt.Fprintf(b, "\n  [%s]\n", stage.DisplayNames[name])
		writeRecord(b, rec, "    ")
		if rec.Completed() {
			memberSum += rec.Duration()
			members++
		}
	}

	hub := msg.Timestamps.Get(stage.NameCHub)
	if hub == nil || !hub.Completed() || members == 0 {
		return
	}
	wall := hub.Duration()
	fmt.Fprintf(b, "\n  Parallel batch: %d members, wall %s, serial sum %s",
		members, formatDuration(wall), formatDuration(memberSum))
	if wall > 0 {
		fmt.Fprintf(b, ", speed-up %.1fx", float64(memberSum)/float64(wall))
	}
	b.WriteString("\n")
}

func writeRecord(b *strings.Builder, rec *timing.Record, indent string) {
	if !rec.ReceivedAt.IsZero() {
		fmt.Fprintf(b, "%sreceived:  %s\n", indent, rec.ReceivedAt.Format(timeLayout))
	}
	if !rec.StartedAt.IsZero() {
		fmt.Fprintf(b, "%sstarted:   %s\n", indent, rec.StartedAt.Format(timeLayout))
	}
	if !rec.CompletedAt.IsZero() {
		fmt.Fprintf(b, "%scompleted: %s\n", indent, rec.CompletedAt.Format(timeLayout))
	}
	if rec.Completed() {
		fmt.Fprintf(b, "%sduration:  %s\n", indent, formatDuration(rec.Duration()))
	}
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}
