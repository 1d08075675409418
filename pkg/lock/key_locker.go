package lock

import (
	"sync"

	"github.com/apex/log"
)

// KeyLocker hands out a mutex per key so that writers touching the same
// resource serialize while writers on different keys proceed in parallel.
type KeyLocker struct {
	mapMutex sync.Mutex
	keyMap   map[string]*sync.Mutex
}

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{
		keyMap: make(map[string]*sync.Mutex),
	}
}

func (l *KeyLocker) AcquireLock(key string) {
	l.mapMutex.Lock()
	defer l.mapMutex.Unlock()
	var m sync.Mutex
	keyMutex, ok := l.keyMap[key]
	if !ok {
		keyMutex = &m
		l.keyMap[key] = keyMutex
	}
	keyMutex.Lock()
}

func (l *KeyLocker) ReleaseLock(key string) {
	m, ok := l.keyMap[key]
	if !ok {
		log.Errorf("ReleaseLock called on key (%s) with no mutex", key)

		return
	}

	m.Unlock()
}

func (l *KeyLocker) WithLock(key string, f func() error) error {
	l.AcquireLock(key)
	defer l.ReleaseLock(key)
	return f()
}
