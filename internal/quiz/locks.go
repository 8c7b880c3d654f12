package quiz

import "sync"

// gameLocks hands out one mutex per game ID. Entries are dropped once no
// caller holds or waits on them.
type gameLocks struct {
	mu    sync.Mutex
	games map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func newGameLocks() *gameLocks {
	return &gameLocks{games: make(map[string]*gameLock)}
}

// lock blocks until id is free and returns the matching unlock func.
func (l *gameLocks) lock(id string) func() {
	l.mu.Lock()
	gl, ok := l.games[id]
	if !ok {
		gl = &gameLock{}
		l.games[id] = gl
	}
	gl.refs++
	l.mu.Unlock()

	gl.mu.Lock()
	return func() {
		gl.mu.Unlock()
		l.mu.Lock()
		gl.refs--
		if gl.refs == 0 {
			delete(l.games, id)
		}
		l.mu.Unlock()
	}
}

func (l *gameLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.games)
}
