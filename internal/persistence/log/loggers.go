package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"craftsim.ai/internal/protocol"
)

// Options tune a Writer. The zero value rotates hourly and flushes the
// compressed stream after every entry.
type Options struct {
	// Period is the UTC window one file covers. It must be whole minutes
	// and divide a day evenly.
	Period time.Duration

	// FlushEvery is how many entries may sit in memory before they are
	// pushed through the encoder to disk.
	FlushEvery int

	Level zstd.EncoderLevel
}

func (o Options) withDefaults() (Options, error) {
	if o.Period == 0 {
		o.Period = time.Hour
	}
	if o.Period < time.Minute || o.Period%time.Minute != 0 || (24*time.Hour)%o.Period != 0 {
		return o, fmt.Errorf("log period %s must be whole minutes dividing 24h", o.Period)
	}
	if o.FlushEvery <= 0 {
		o.FlushEvery = 1
	}
	if o.Level == 0 {
		o.Level = zstd.SpeedFastest
	}
	return o, nil
}

// windowLayout names files by hour unless the period splits hours.
func (o Options) windowLayout() string {
	if o.Period%time.Hour == 0 {
		return "2006-01-02-15"
	}
	return "2006-01-02-1504"
}

// WriterStats counts what a Writer has appended since it was created.
type WriterStats struct {
	Entries uint64
	Bytes   uint64 // uncompressed, newlines included
	Files   int    // windows opened
}

// segment is one open window file.
type segment struct {
	window  string
	f       *os.File
	enc     *zstd.Encoder
	buf     *bufio.Writer
	pending int
}

func openSegment(path, window string, level zstd.EncoderLevel) (*segment, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(level))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{window: window, f: f, enc: enc, buf: bufio.NewWriterSize(enc, 128*1024)}, nil
}

func (g *segment) flush() error {
	if err := g.buf.Flush(); err != nil {
		return err
	}
	g.pending = 0
	return g.enc.Flush()
}

func (g *segment) close() error {
	return errors.Join(g.buf.Flush(), g.enc.Close(), g.f.Close())
}

// Writer appends JSON lines to zstd files, one file per UTC window. Files
// reopened for a window get a new zstd frame appended.
type Writer struct {
	dir    string
	prefix string
	opts   Options
	now    func() time.Time

	mu    sync.Mutex
	seg   *segment
	stats WriterStats
}

func NewWriter(dir, prefix string, opts Options) (*Writer, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Writer{dir: dir, prefix: prefix, opts: opts, now: time.Now}, nil
}

func (w *Writer) Write(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	window := w.now().UTC().Truncate(w.opts.Period).Format(w.opts.windowLayout())
	if w.seg == nil || w.seg.window != window {
		if err := w.closeSegment(); err != nil {
			return err
		}
		seg, err := openSegment(w.path(window), window, w.opts.Level)
		if err != nil {
			return err
		}
		w.seg = seg
		w.stats.Files++
	}

	if _, err := w.seg.buf.Write(line); err != nil {
		return err
	}
	w.stats.Entries++
	w.stats.Bytes += uint64(len(line))
	w.seg.pending++
	if w.seg.pending >= w.opts.FlushEvery {
		return w.seg.flush()
	}
	return nil
}

// Flush pushes buffered entries of the open window to disk.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seg == nil {
		return nil
	}
	return w.seg.flush()
}

func (w *Writer) Stats() WriterStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeSegment()
}

func (w *Writer) closeSegment() error {
	if w.seg == nil {
		return nil
	}
	err := w.seg.close()
	w.seg = nil
	return err
}

func (w *Writer) path(window string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, window))
}

// RunEntry is one evaluation: the request as evaluated and exactly one of
// its report, summary or error.
type RunEntry struct {
	UnixMs  int64                    `json:"unix_ms"`
	Request protocol.RotationRequest `json:"request"`
	Report  *protocol.ReportMsg      `json:"report,omitempty"`
	Summary *protocol.SummaryMsg     `json:"summary,omitempty"`
	Error   *protocol.ErrorMsg       `json:"error,omitempty"`
}

// RunLogger writes one JSONL entry per evaluation under <dataDir>/runs.
type RunLogger struct{ w *Writer }

func NewRunLogger(dataDir string, opts Options) (*RunLogger, error) {
	w, err := NewWriter(filepath.Join(dataDir, "runs"), "runs", opts)
	if err != nil {
		return nil, err
	}
	return &RunLogger{w: w}, nil
}

func (l *RunLogger) WriteRun(e RunEntry) error {
	if e.UnixMs == 0 {
		e.UnixMs = l.w.now().UnixMilli()
	}
	return l.w.Write(e)
}

func (l *RunLogger) Flush() error       { return l.w.Flush() }
func (l *RunLogger) Stats() WriterStats { return l.w.Stats() }
func (l *RunLogger) Close() error       { return l.w.Close() }
