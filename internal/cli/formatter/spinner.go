package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerTick = 80 * time.Millisecond
	clearLine   = "\r\033[K"
)

// Spinner keeps one status line alive on out while a long operation such as
// a bulk rebuild runs. After the first second it shows the elapsed time.
type Spinner struct {
	out     io.Writer
	message string
	now     func() time.Time

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		message: message,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	started := s.now()
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, clearLine)
				return
			case <-ticker.C:
				fmt.Fprint(s.out, "\r"+spinnerLine(frame, s.message, s.now().Sub(started)))
			}
		}
	}()
}

// Stop clears the line and waits for the drawing goroutine. Later calls are
// no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
}

// StartSpinner starts a spinner and returns its Stop.
func StartSpinner(out io.Writer, message string) func() {
	s := NewSpinner(out, message)
	s.Start()
	return s.Stop
}

func spinnerLine(frame int, message string, elapsed time.Duration) string {
	glyph := StylePurple.Render(spinnerFrames[frame%len(spinnerFrames)])
	line := "  " + glyph + " " + Dim(message)
	if elapsed >= time.Second {
		line += " " + Dim(fmt.Sprintf("(%ds)", int(elapsed/time.Second)))
	}
	return line
}
