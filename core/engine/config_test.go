package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	doc := []byte(`
offload:
  MaxWorker: 8
cursorSweep:
  spec: "0 */1 * * * *"
  maxIdle: 5m
`)
	cfg, err := LoadConfig(doc)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Offload.MaxWorker)
	require.Equal(t, "0 */1 * * * *", cfg.CursorSweep.Spec)

	idle, err := cfg.MaxIdleDuration()
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, idle)
}
