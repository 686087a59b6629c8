package dispatch

import (
	"sort"
	"sync"
	"time"
)

// PollInterval is how often polling value sources are re-evaluated.
const PollInterval = 100 * time.Millisecond

// Scheduler runs fn repeatedly on the dispatch thread until stopped.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// TickerScheduler drives repeated work from time.Ticker goroutines. Ticks
// never run fn directly; they post it to the Dispatcher.
type TickerScheduler struct {
	Dispatcher Dispatcher
}

// NewTickerScheduler returns a scheduler posting onto d.
func NewTickerScheduler(d Dispatcher) *TickerScheduler {
	return &TickerScheduler{Dispatcher: d}
}

// Every starts a ticker. The returned stop is idempotent; once it returns no
// further ticks are posted, and ticks already queued become no-ops.
func (s *TickerScheduler) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		d = PollInterval
	}
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var (
		once    sync.Once
		mu      sync.Mutex
		stopped bool
	)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.Dispatcher.Post(func() {
					mu.Lock()
					skip := stopped
					mu.Unlock()
					if !skip {
						fn()
					}
				})
			}
		}
	}()
	return func() {
		once.Do(func() {
			mu.Lock()
			stopped = true
			mu.Unlock()
			ticker.Stop()
			close(done)
		})
	}
}

// ManualScheduler records scheduled work and runs it on Tick. Tests use it
// to step polling deterministically.
type ManualScheduler struct {
	mu    sync.Mutex
	next  int
	tasks map[int]func()
}

// NewManualScheduler returns an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]func())}
}

// Every registers fn; the interval is ignored.
func (s *ManualScheduler) Every(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.tasks[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.tasks, id)
		s.mu.Unlock()
	}
}

// Tick runs every registered task once, in registration order.
func (s *ManualScheduler) Tick() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Ints(ids)
	for _, id := range ids {
		s.mu.Lock()
		fn, ok := s.tasks[id]
		s.mu.Unlock()
		if ok {
			fn()
		}
	}
}

// Active returns the number of registered tasks.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
