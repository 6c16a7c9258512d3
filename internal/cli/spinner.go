package cli

import (
	"context"
	"fmt"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner shows an animated progress indicator on stdout until the returned
// stop function is called or ctx is cancelled. The message is printed next
// to the spinner frame and the line is cleared on stop.
func spinner(ctx context.Context, message string) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-ctx.Done():
				fmt.Print("\r\033[K")
				return
			case <-done:
				fmt.Print("\r\033[K")
				return
			case <-ticker.C:
				frame := styleInfo.Render(spinnerFrames[i%len(spinnerFrames)])
				fmt.Printf("\r%s %s", frame, message)
				i++
			}
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		close(done)
		<-finished
	}
}
