package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotCounts(t *testing.T) {
	s := New()
	s.UniformWrite()
	s.UniformWrite()
	s.BlockWrite()
	s.Failure()
	s.Uploaded(256)
	s.SetWsClients(3)

	snap := s.Snapshot()
	assert.Equal(t, uint64(2), snap.UniformWrites)
	assert.Equal(t, uint64(1), snap.BlockWrites)
	assert.Equal(t, uint64(1), snap.Failures)
	assert.InDelta(t, 1.0, snap.BufferUploadKiB, 1e-9)
	assert.Equal(t, int64(3), snap.WsClients)
	assert.Greater(t, snap.Uptime, 0.0)
}
