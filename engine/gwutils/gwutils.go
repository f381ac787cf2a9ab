package gwutils

import "github.com/xiaonanln/gwagent/engine/gwlog"

// RunPanicless calls a function panic-freely
func RunPanicless(f func()) (paniced bool) {
	defer func() {
		err := recover()
		if err != nil {
			gwlog.TraceError("%v panic: %v", f, err)
			paniced = true
		}
	}()

	f()
	return
}

// CatchPanic calls a function and returns the recovered panic value, if any
func CatchPanic(f func()) (err interface{}) {
	defer func() {
		err = recover()
	}()

	f()
	return
}
