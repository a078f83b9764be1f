// Package clock notices when the local date rolls over while the calendar is
// open.
package clock

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/calendar/internal/model"
)

// DefaultInterval is how often the watcher looks at the clock.
const DefaultInterval = time.Minute

// DayChangedMsg is a tea.Msg sent when the local date changes.
type DayChangedMsg struct {
	Previous model.Date
	Today    model.Date
}

// Watcher polls the clock in the background and reports date changes.
type Watcher struct {
	now      func() time.Time
	interval time.Duration
	last     model.Date
	resultCh chan DayChangedMsg
	stopCh   chan struct{}
	mu       sync.Mutex
	running  bool
}

// New creates a watcher that checks the clock every interval.
func New(interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		now:      time.Now,
		interval: interval,
		last:     model.Today(),
		resultCh: make(chan DayChangedMsg, 1),
		stopCh:   make(chan struct{}),
	}
}

// SetClock replaces the time source and takes its current date as the last
// one seen. Call it before Start.
func (w *Watcher) SetClock(now func() time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = now
	w.last = model.DateOf(now())
}

// Start returns a tea.Cmd that starts the polling goroutine and waits for
// the first date change.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	go w.poll()

	return w.WaitForNext()
}

// Stop halts the polling goroutine.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopCh)
	w.running = false
}

// WaitForNext returns a tea.Cmd that waits for the next date change. Call it
// again after handling a DayChangedMsg to keep listening.
func (w *Watcher) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.resultCh:
			return msg
		case <-w.stopCh:
			return nil
		}
	}
}

func (w *Watcher) poll() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if msg, ok := w.check(); ok {
				w.send(msg)
			}
		}
	}
}

// check compares the clock with the last date seen and records the new one.
func (w *Watcher) check() (DayChangedMsg, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := model.DateOf(w.now())
	if today == w.last {
		return DayChangedMsg{}, false
	}
	msg := DayChangedMsg{Previous: w.last, Today: today}
	w.last = today
	return msg, true
}

// send delivers msg without blocking. An undelivered older change is
// replaced, since only the latest date matters.
func (w *Watcher) send(msg DayChangedMsg) {
	for {
		select {
		case w.resultCh <- msg:
			return
		default:
		}
		select {
		case old := <-w.resultCh:
			msg.Previous = old.Previous
		default:
		}
	}
}
