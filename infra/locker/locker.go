package locker

import "sync"

// Locker tracks which statements are being auto-matched by this process.
// It does not coordinate across processes; the database claims do that.
type Locker struct {
	mu           sync.Mutex
	inProcessMap map[int64]bool
}

func New() *Locker {
	return &Locker{
		inProcessMap: make(map[int64]bool),
	}
}

// TryLock marks a statement as processing. It returns false when the
// statement is already held.
func (l *Locker) TryLock(statementID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inProcessMap[statementID] {
		return false
	}
	l.inProcessMap[statementID] = true
	return true
}

// IsProcessing checks if a statement is already being processed.
func (l *Locker) IsProcessing(statementID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inProcessMap[statementID]
}

func (l *Locker) Unlock(statementID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inProcessMap, statementID)
}
