// Package monitor turns a lantern telemetry byte stream into reports and
// human-readable lines.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/slog"

	"lantern/core"
	"lantern/protocol"
)

// Monitor reads telemetry frames from a source and prints one line per report
type Monitor struct {
	src    io.Reader
	out    io.Writer
	logger *slog.Logger

	decoder *protocol.FrameDecoder
	nextSeq int // -1 until the first frame

	// StopOnEOF ends Run when the source reports io.EOF. Serial ports with a
	// read timeout report EOF on an idle line, so the CLI leaves it off.
	StopOnEOF bool

	reports    uint32
	decodeErrs uint32
	lostFrames uint32
}

// New creates a monitor. A nil logger discards log output.
func New(src io.Reader, out io.Writer, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Monitor{
		src:       src,
		out:       out,
		logger:    logger,
		decoder:   protocol.NewFrameDecoder(),
		nextSeq:   -1,
		StopOnEOF: true,
	}
}

// Run reads until ctx is cancelled or the source fails.
func (m *Monitor) Run(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		n, err := m.src.Read(buf)
		if n > 0 {
			if _, werr := m.Process(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if m.StopOnEOF {
					return nil
				}
				continue
			}
			return fmt.Errorf("telemetry read failed: %w", err)
		}
	}
}

// Process feeds raw bytes to the frame decoder and prints every report it
// completes. It returns the decoded reports.
func (m *Monitor) Process(data []byte) ([]any, error) {
	dropped := m.decoder.Dropped
	frames := m.decoder.Feed(data)
	if m.decoder.Dropped != dropped {
		m.logger.Warn("discarded corrupt frames", "count", m.decoder.Dropped-dropped)
	}

	var reports []any
	for _, f := range frames {
		m.checkSequence(f.Sequence)

		msg, err := protocol.DecodeMessage(f.Payload)
		if err != nil {
			m.decodeErrs++
			m.logger.Warn("undecodable telemetry message", "seq", f.Sequence, "err", err)
			continue
		}

		m.reports++
		reports = append(reports, msg)
		if _, err := fmt.Fprintln(m.out, Format(msg)); err != nil {
			return reports, fmt.Errorf("failed to write report: %w", err)
		}
	}
	return reports, nil
}

func (m *Monitor) checkSequence(seq uint8) {
	if m.nextSeq >= 0 && int(seq) != m.nextSeq {
		lost := (int(seq) - m.nextSeq) & protocol.MessageSeqMask
		m.lostFrames += uint32(lost)
		m.logger.Warn("telemetry frames lost", "expected", m.nextSeq, "got", seq)
	}
	m.nextSeq = int(seq+1) & protocol.MessageSeqMask
}

// Stats returns counts of printed reports, undecodable messages, frames
// missing from the sequence, and frames failing the CRC or framing checks.
func (m *Monitor) Stats() (reports, decodeErrors, lost, corrupt uint32) {
	return m.reports, m.decodeErrs, m.lostFrames, m.decoder.Dropped
}

// Format renders a decoded report as a single line
func Format(msg any) string {
	switch r := msg.(type) {
	case protocol.StateReport:
		return fmt.Sprintf("state    %-7s position=%-2d duty=%d",
			core.LanternState(r.State), r.Position, r.Duty)
	case protocol.ResyncReport:
		return fmt.Sprintf("resync   count=%d", r.Count)
	case protocol.StatsReport:
		return fmt.Sprintf("stats    advances=%d refreshes=%d driver_errors=%d telemetry_errors=%d",
			r.Advances, r.Refreshes, r.DriverErrors, r.TelemetryErrors)
	case protocol.BootReport:
		return fmt.Sprintf("boot     version=%s mode=%s", r.Version, core.Mode(r.Mode))
	default:
		return fmt.Sprintf("unknown  %v", msg)
	}
}
