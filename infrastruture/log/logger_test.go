package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beka-birhanu/wilson-render/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("nil writer", func(t *testing.T) {
		_, err := New("APP", config.ColorGreen, nil)
		assert.ErrorIs(t, err, ErrNilWriter)
	})

	t.Run("writes prefixed lines", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("RENDER", config.ColorCyan, &buf)
		require.NoError(t, err)

		l.Info("frame written")
		l.Warning("slow sink")
		l.Error("ffmpeg exited")
		l.Debug("step 3")
		require.NoError(t, l.Sync())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		for _, line := range lines {
			assert.Contains(t, line, config.ColorCyan+"[RENDER]"+config.ColorReset)
		}
		assert.Contains(t, lines[0], "[INFO]")
		assert.Contains(t, lines[0], "frame written")
		assert.Contains(t, lines[1], "[WARNING]")
		assert.Contains(t, lines[2], "[ERROR]")
		assert.Contains(t, lines[3], "[DEBUG]")
	})
}
