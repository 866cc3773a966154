package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Resources is a snapshot of what the host can spend on rendering.
type Resources struct {
	LogicalCPUs    int
	AvailableBytes uint64
}

// Probe reads CPU and memory availability. Errors fall back to the Go
// runtime's view and unknown memory.
func Probe() Resources {
	r := Resources{LogicalCPUs: runtime.NumCPU()}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		r.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		r.AvailableBytes = vm.Available
	}
	return r
}

// Workers bounds the render worker count by CPUs and by how many frame
// buffers fit into half of the available memory. Each worker holds about
// two frames in flight. requested > 0 is honoured up to that bound.
func (r Resources) Workers(requested int, frameBytes int64) int {
	limit := r.LogicalCPUs
	if limit < 1 {
		limit = 1
	}
	if r.AvailableBytes > 0 && frameBytes > 0 {
		byMem := int(r.AvailableBytes / 2 / uint64(frameBytes*2))
		if byMem < 1 {
			byMem = 1
		}
		limit = min(limit, byMem)
	}
	if requested > 0 {
		return min(requested, limit)
	}
	return limit
}
