package post

import (
	"sync"

	"github.com/xiaonanln/gwagent/engine/gwutils"
)

// PostCallback is the type of functions to be posted
type PostCallback func()

var (
	callbacks []PostCallback
	lock      sync.Mutex
)

// Post a callback which will be executed by the simulation routine before the next tick
//
// Post might be called from other goroutine, so we use a lock to protect the data
func Post(f PostCallback) {
	lock.Lock()
	callbacks = append(callbacks, f)
	lock.Unlock()
}

// Tick runs all posted functions and returns how many ran
func Tick() (n int) {
	for { // callbacks may post more callbacks
		lock.Lock()
		if len(callbacks) == 0 {
			lock.Unlock()
			return
		}
		callbacksCopy := callbacks
		callbacks = make([]PostCallback, 0, len(callbacks))
		lock.Unlock()

		for _, f := range callbacksCopy {
			gwutils.RunPanicless(f)
		}
		n += len(callbacksCopy)
	}
}
