package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventCollectionChanged indicates records of the given collection were
	// added, edited or removed by another process.
	EventCollectionChanged EventType = iota

	// EventCollectionsInvalidated signals that a change could not be
	// attributed to one collection and callers should reload everything.
	EventCollectionsInvalidated

	// EventOrderChanged indicates only the key order index of the given
	// collection was rewritten.
	EventOrderChanged
)

func (t EventType) String() string {
	switch t {
	case EventCollectionChanged:
		return "changed"
	case EventCollectionsInvalidated:
		return "invalidated"
	case EventOrderChanged:
		return "reordered"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type       EventType
	Collection string
}

// watchDelay coalesces the several filesystem events one write produces.
const watchDelay = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. Writes made through
// this Persistence are not reported; only edits by other processes are.
// Events are dropped when the consumer falls behind, so callers should
// treat any event as a cue to reload. The channel is closed once ctx is done
// or the watcher fails.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	l := &watchLoop{p: p, watcher: watcher, watched: make(map[string]struct{})}
	dirs, err := collectDirs(p.basePath)
	if err == nil {
		for _, dir := range dirs {
			if err = l.add(dir); err != nil {
				break
			}
		}
	}
	if err != nil {
		l.close()
		return nil, fmt.Errorf("store: watch %s: %w", p.basePath, err)
	}

	out := make(chan Event, 64)
	throttle := newEventThrottle(watchDelay)
	l.emit = func(ev Event) {
		throttle.Enqueue(ev, func(ev Event) {
			select {
			case out <- ev:
			default:
			}
		})
	}

	go func() {
		defer close(out)
		defer l.close()
		defer throttle.Stop()
		l.run(ctx)
	}()
	return out, nil
}

// watchLoop turns raw filesystem events under the store into Events.
type watchLoop struct {
	p       *persistence
	watcher *fsnotify.Watcher
	watched map[string]struct{}
	emit    func(Event)

	closeOnce sync.Once
}

func (l *watchLoop) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			// An overflow or similar loses events we cannot attribute.
			l.emit(Event{Type: EventCollectionsInvalidated})
		case evt, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			l.handle(evt)
		}
	}
}

func (l *watchLoop) handle(evt fsnotify.Event) {
	if evt.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := l.add(evt.Name); err != nil {
				fmt.Fprintf(os.Stderr, "store: watch %s: %v\n", evt.Name, err)
			}
			if !l.p.own.mine(evt.Name) {
				l.emit(Event{Type: EventCollectionsInvalidated})
			}
			return
		}
	}
	if l.p.own.mine(evt.Name) {
		return
	}
	coll, file, ok := l.p.locate(evt.Name)
	switch {
	case !ok:
		l.emit(Event{Type: EventCollectionsInvalidated})
	case file == orderFile:
		l.emit(Event{Type: EventOrderChanged, Collection: coll})
	default:
		l.emit(Event{Type: EventCollectionChanged, Collection: coll})
	}
}

func (l *watchLoop) add(dir string) error {
	dir = filepath.Clean(dir)
	if _, ok := l.watched[dir]; ok {
		return nil
	}
	if l.watcher != nil {
		if err := l.watcher.Add(dir); err != nil {
			return err
		}
	}
	l.watched[dir] = struct{}{}
	return nil
}

func (l *watchLoop) close() {
	l.closeOnce.Do(func() {
		if l.watcher == nil {
			return
		}
		if err := l.watcher.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
		}
	})
}

// collectDirs returns base and every directory below it.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// locate maps a file under the store to its collection and raw file name.
// Files outside a collection directory, or with undecodable names, are not
// located.
func (p *persistence) locate(path string) (coll, file string, ok bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil {
		return "", "", false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) != 2 || parts[0] == "" || strings.HasPrefix(parts[0], ".") {
		return "", "", false
	}
	coll, err = decode(parts[0])
	if err != nil || coll == "" {
		return "", "", false
	}
	return coll, parts[1], true
}

// eventThrottle coalesces bursts of events into one per type and
// collection, delivered after delay.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	order   []Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{delay: delay, pending: make(map[Event]struct{})}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pending[ev]; !ok {
		t.pending[ev] = struct{}{}
		t.order = append(t.order, ev)
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() { t.flush(send) })
	}
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	batch := t.order
	t.pending = make(map[Event]struct{})
	t.order = nil
	t.timer = nil
	t.mu.Unlock()

	for _, ev := range collapse(batch) {
		send(ev)
	}
}

// collapse drops per-collection events made redundant by an invalidation
// and order events made redundant by a change of the same collection.
func collapse(batch []Event) []Event {
	changed := make(map[string]bool)
	for _, ev := range batch {
		if ev.Type == EventCollectionsInvalidated {
			return []Event{{Type: EventCollectionsInvalidated}}
		}
		if ev.Type == EventCollectionChanged {
			changed[ev.Collection] = true
		}
	}
	out := batch[:0:0]
	for _, ev := range batch {
		if ev.Type == EventOrderChanged && changed[ev.Collection] {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
