package formatter

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_DrawsAndClears(t *testing.T) {
	var out lockedBuffer
	stop := StartSpinner(&out, "rebuilding")
	time.Sleep(200 * time.Millisecond)
	stop()
	stop()

	got := out.String()
	assert.Contains(t, got, "rebuilding")
	assert.Contains(t, got, "\r\033[K")
}

func TestSpinnerLine_ShowsElapsedAfterOneSecond(t *testing.T) {
	assert.Equal(t, "  ⠋ rebuilding scope trees", spinnerLine(0, "rebuilding scope trees", 300*time.Millisecond))
	assert.Equal(t, "  ⠙ rebuilding scope trees (4s)", spinnerLine(1, "rebuilding scope trees", 4200*time.Millisecond))
	assert.Contains(t, spinnerLine(len(spinnerFrames), "x", 0), spinnerFrames[0], "frames wrap around")
}

func TestSpinner_StopBeforeFirstFrame(t *testing.T) {
	var out lockedBuffer
	stop := StartSpinner(&out, "quick")
	stop()
	assert.Equal(t, clearLine, out.String())
}
