package booking

import "sync"

// classLocks hands out one mutex per class id. Entries are dropped once no
// goroutine holds or waits for them.
type classLocks struct {
	mu    sync.Mutex
	locks map[int]*classLock
}

type classLock struct {
	sync.Mutex
	refs int
}

func newClassLocks() *classLocks {
	return &classLocks{locks: make(map[int]*classLock)}
}

func (l *classLocks) lock(classID int) (unlock func()) {
	l.mu.Lock()
	cl, ok := l.locks[classID]
	if !ok {
		cl = &classLock{}
		l.locks[classID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.Lock()

	return func() {
		cl.Unlock()

		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, classID)
		}
		l.mu.Unlock()
	}
}

func (l *classLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
