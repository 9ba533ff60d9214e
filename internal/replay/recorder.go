package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// DefaultRate is how many snapshots per second a recorder samples.
const DefaultRate = 30

// Recorder samples the frames a session produces and dumps them as one
// replay file per session. A nil receiver or an empty directory disables
// recording, so callers never have to branch.
type Recorder struct {
	dir      string
	interval time.Duration
	frames   []core.Frame
	last     time.Time
	next     time.Time
}

// NewRecorder returns a recorder writing into dir at the given sampling
// rate in snapshots per second. An empty dir disables it.
func NewRecorder(dir string, rate int) *Recorder {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Recorder{dir: dir, interval: time.Second / time.Duration(rate)}
}

// Enabled reports whether this recorder keeps samples at all.
func (r *Recorder) Enabled() bool {
	return r != nil && r.dir != ""
}

// Observe offers one frame to the recorder. Frames arrive every tick; the
// recorder keeps the very first one as it stands — that is the frame
// carrying the session's opening grid — and afterwards one per sampling
// interval, stamped with the real time elapsed since the previous
// sample. Samples follow a fixed schedule rather than the gap since the
// last keep, so a tick arriving slightly early shifts a sample instead
// of dropping it.
func (r *Recorder) Observe(f core.Frame, at time.Time) {
	if !r.Enabled() {
		return
	}
	if r.next.IsZero() {
		f.Delay = 0
		r.frames = append(r.frames, f.Clone())
		r.last = at
		r.next = at.Add(r.interval)
		return
	}
	if at.Before(r.next) {
		return
	}
	f.Delay = int(at.Sub(r.last).Milliseconds())
	r.frames = append(r.frames, f.Clone())
	r.last = at
	if r.next = r.next.Add(r.interval); !r.next.After(at) {
		// The loop fell behind the schedule; rebase instead of bursting.
		r.next = at.Add(r.interval)
	}
}

// Len returns how many samples the recorder holds.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.frames)
}

// Dump writes the collected samples to a timestamp-named file and
// returns its path. With recording disabled it returns "" and no error.
func (r *Recorder) Dump(at time.Time) (string, error) {
	if !r.Enabled() {
		return "", nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("replay: cannot create record directory: %w", err)
	}
	path := filepath.Join(r.dir, at.Format("2006-01-02T15:04:05")+".json")
	if err := os.WriteFile(path, Encode(r.frames), 0o644); err != nil {
		return "", fmt.Errorf("replay: cannot dump records: %w", err)
	}
	return path, nil
}

// Reset drops all samples so the recorder can serve the next session.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.frames = nil
	r.last = time.Time{}
	r.next = time.Time{}
}

// Load reads and decodes a replay file.
func Load(path string) ([]core.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot read %s: %w", path, err)
	}
	return Decode(data)
}
