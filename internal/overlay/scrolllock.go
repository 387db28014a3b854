package overlay

import "sync"

// ScrollLock blocks page scrolling while at least one overlay holds it.
type ScrollLock struct {
	mu       sync.Mutex
	holders  int
	onChange func(locked bool)
}

// NewScrollLock creates a lock. onChange, when set, fires on every
// transition between locked and unlocked.
func NewScrollLock(onChange func(locked bool)) *ScrollLock {
	return &ScrollLock{onChange: onChange}
}

// Acquire takes a hold on the lock. The returned release func is safe to
// call more than once; only the first call counts.
func (l *ScrollLock) Acquire() (release func()) {
	l.mu.Lock()
	l.holders++
	locked := l.holders == 1
	l.mu.Unlock()
	if locked {
		l.notify(true)
	}

	var once sync.Once
	return func() {
		once.Do(l.release)
	}
}

// Locked reports whether any holder remains.
func (l *ScrollLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holders > 0
}

// Holders returns the number of outstanding holds.
func (l *ScrollLock) Holders() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holders
}

func (l *ScrollLock) release() {
	l.mu.Lock()
	if l.holders == 0 {
		l.mu.Unlock()
		return
	}
	l.holders--
	unlocked := l.holders == 0
	l.mu.Unlock()
	if unlocked {
		l.notify(false)
	}
}

func (l *ScrollLock) notify(locked bool) {
	if l.onChange != nil {
		l.onChange(locked)
	}
}
