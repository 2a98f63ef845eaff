package refresh

import (
	"time"

	"github.com/bep/debounce"
)

//DefaultQuiet is how long input has to settle before scheduled work runs
const DefaultQuiet = 300 * time.Millisecond

//Debouncer coalesces bursts of work, only the last function scheduled within
//a quiet window runs. Search keystrokes collapse into a single fetch this way.
type Debouncer struct {
	debounced func(func())
}

//NewDebouncer creates a debouncer, a non positive quiet falls back to DefaultQuiet
func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{debounced: debounce.New(quiet)}
}

//Schedule queues fn behind the quiet window, replacing any pending function
func (d *Debouncer) Schedule(fn func()) {
	d.debounced(fn)
}
