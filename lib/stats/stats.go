package stats

import (
	"sync/atomic"
	"time"
)

// Stats is updated from the GL thread and read by the inspector API.
type Stats struct {
	uniformWrites atomic.Uint64
	blockWrites   atomic.Uint64
	failures      atomic.Uint64
	uploadFloats  atomic.Uint64
	wsClients     atomic.Int64

	frameCounter uint64
	frameTimer   time.Time
	fps          atomic.Uint64
	start        time.Time
}

type Snapshot struct {
	UniformWrites    uint64  `json:"uniform_writes"`
	BlockWrites      uint64  `json:"block_writes"`
	Failures         uint64  `json:"failures"`
	BufferUploadKiB  float64 `json:"buffer_upload_kib"`
	Uptime           float64 `json:"uptime"`
	FPS              uint64  `json:"fps"`
	WsClients        int64   `json:"ws_clients"`
	UniformWritesAvg float64 `json:"uniform_writes_avg"`
}

func New() *Stats {
	s := &Stats{}
	s.start = time.Now()
	return s
}

func (s *Stats) UniformWrite()      { s.uniformWrites.Add(1) }
func (s *Stats) BlockWrite()        { s.blockWrites.Add(1) }
func (s *Stats) Failure()           { s.failures.Add(1) }
func (s *Stats) Uploaded(n int)     { s.uploadFloats.Add(uint64(n)) }
func (s *Stats) SetWsClients(n int) { s.wsClients.Store(int64(n)) }

// Frame must be called once per rendered frame.
func (s *Stats) Frame() {
	s.frameCounter++
	if time.Since(s.frameTimer) > 1*time.Second {
		s.fps.Store(s.frameCounter)
		s.frameCounter = 0
		s.frameTimer = time.Now()
	}
}

func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		UniformWrites:   s.uniformWrites.Load(),
		BlockWrites:     s.blockWrites.Load(),
		Failures:        s.failures.Load(),
		BufferUploadKiB: float64(s.uploadFloats.Load()*4) / 1024,
		Uptime:          float64(time.Since(s.start).Nanoseconds()) / 1e9,
		FPS:             s.fps.Load(),
		WsClients:       s.wsClients.Load(),
	}
	if snap.Uptime > 0 {
		snap.UniformWritesAvg = float64(snap.UniformWrites) / snap.Uptime
	}
	return snap
}
