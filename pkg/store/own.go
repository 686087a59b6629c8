package store

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// stamp is what a path looked like right after this process wrote it.
type stamp struct {
	exists bool
	dir    bool
	size   int64
	mod    time.Time
}

func stampOf(path string) stamp {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}
	return stamp{exists: true, dir: info.IsDir(), size: info.Size(), mod: info.ModTime()}
}

// ownWrites remembers the files and directories this process changed so
// Watch can tell its own writes from edits made by someone else. A path is
// ours while a write to it is in flight, and afterwards for as long as it
// still matches the stamp taken when the write finished.
type ownWrites struct {
	mu     sync.Mutex
	busy   map[string]int
	stamps map[string]stamp
}

func newOwnWrites() *ownWrites {
	return &ownWrites{
		busy:   make(map[string]int),
		stamps: make(map[string]stamp),
	}
}

// begin marks file and its directory as being written. The returned func
// ends the write and stamps both.
func (o *ownWrites) begin(file string) (done func()) {
	paths := []string{filepath.Clean(file), filepath.Dir(filepath.Clean(file))}
	o.mu.Lock()
	for _, p := range paths {
		o.busy[p]++
	}
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for _, p := range paths {
			o.stamps[p] = stampOf(p)
			if o.busy[p]--; o.busy[p] <= 0 {
				delete(o.busy, p)
			}
		}
	}
}

// mine reports whether the current state of path was produced by this
// process.
func (o *ownWrites) mine(path string) bool {
	path = filepath.Clean(path)
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy[path] > 0 {
		return true
	}
	s, ok := o.stamps[path]
	if !ok {
		return false
	}
	if s.dir {
		// Directory mtimes move with every file added below them; only its
		// existence is ours to claim.
		return stampOf(path).exists
	}
	return s == stampOf(path)
}
