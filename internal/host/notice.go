package host

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Recorder is a Notifier and StatusBar that keeps everything it is shown.
// The hook protocol returns its contents to the caller.
type Recorder struct {
	mu      sync.Mutex
	notices []string
	status  []string
}

func (r *Recorder) Notice(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
}

func (r *Recorder) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = append(r.status, text)
}

// Notices returns the notices in the order they were shown.
func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// StatusHistory returns every status text set, oldest first.
func (r *Recorder) StatusHistory() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.status...)
}

// Status returns the current status text.
func (r *Recorder) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.status) == 0 {
		return ""
	}
	return r.status[len(r.status)-1]
}

// Console prints notices to a terminal stream and sends status changes to
// the debug log.
type Console struct {
	Out    io.Writer
	Logger *zap.Logger
}

func (c Console) Notice(msg string) {
	fmt.Fprintf(c.Out, "mls: %s\n", msg)
}

func (c Console) SetText(text string) {
	if c.Logger != nil {
		c.Logger.Debug("status", zap.String("text", text))
	}
}
