package workers

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
)

const maxInputLineBytes = 64 * 1024

// InputWorker turns lines read from the local terminal into input events
// for the session loop. Reading stdin is not interruptible; on shutdown
// the pending read is abandoned with the process, which is why the worker
// never holds anything that needs cleanup.
type InputWorker struct {
	log *slog.Logger
	in  io.Reader
	out chan<- string
}

func NewInputWorker(log *slog.Logger, in io.Reader, out chan<- string) *InputWorker {
	return &InputWorker{log: log, in: in, out: out}
}

func (w *InputWorker) Run(ctx context.Context) error {
	defer close(w.out)

	scanner := bufio.NewScanner(w.in)
	scanner.Buffer(make([]byte, maxInputLineBytes), maxInputLineBytes)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case w.out <- line:
		case <-ctx.Done():
			return nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		w.log.Error("input stream failed", "err", err)
	}
	return nil
}
