package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/masmgr/vss2git-go/internal/workqueue"
)

const pollInterval = 250 * time.Millisecond

// waitForQueue blocks until q drains, printing the queue status and the counter
// returned by progress on every tick. The line is rewritten in place.
func waitForQueue(q *workqueue.Queue, progress func() string, w io.Writer, quiet bool) error {
	done := make(chan error, 1)
	go func() { done <- q.Wait() }()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	printed := false
	for {
		select {
		case err := <-done:
			if printed {
				fmt.Fprintln(w)
			}
			return err
		case <-ticker.C:
			if quiet {
				continue
			}
			color.New(color.FgHiBlack).Fprintf(w, "\r%s: %s (%s)   ",
				q.Status(), progress(), q.ActiveTime().Round(time.Second))
			printed = true
		}
	}
}
