package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ivlev/babaru/internal/system"
)

// Report summarises an export.
type Report struct {
	Output  string
	Frames  int
	FPS     int
	Workers int
	Elapsed time.Duration
	Bytes   int64
	Buffers system.PoolStats
}

// Throughput returns rendered frames per wall-clock second.
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// String formats the performance report printed after an export.
func (r Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Output: %s (%s)\n"+
			"Frames: %s @ %d fps (%.2fs of video)\n"+
			"Workers: %d\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Frame buffers: %d allocated for %d frames\n"+
			"----------------------------\n",
		r.Output, humanize.Bytes(uint64(max(r.Bytes, 0))),
		humanize.Comma(int64(r.Frames)), r.FPS, float64(r.Frames)/float64(max(r.FPS, 1)),
		r.Workers,
		r.Elapsed.Seconds(),
		r.Throughput(),
		r.Buffers.Allocs, r.Buffers.Gets,
	)
}

// AppendBenchmark adds a one-line record of r to path.
func (r Report) AppendBenchmark(path string, now time.Time) error {
	line := fmt.Sprintf("[%s] Output: %s | Frames: %d | Workers: %d | Total: %.2fs | FPS: %.2f | Size: %s\n",
		now.Format("2006-01-02 15:04:05"),
		filepath.Base(r.Output),
		r.Frames,
		r.Workers,
		r.Elapsed.Seconds(),
		r.Throughput(),
		humanize.Bytes(uint64(max(r.Bytes, 0))),
	)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
