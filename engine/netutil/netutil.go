package netutil

import (
	"io"
	"net"
	"reflect"

	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/gwlog"
)

// IsConnectionError check if the error is a connection error (close)
func IsConnectionError(_err interface{}) bool {
	err, ok := _err.(error)
	if !ok {
		return false
	}

	err = errors.Cause(err)
	if err == io.EOF {
		return true
	}

	neterr, ok := err.(net.Error)
	if !ok {
		return false
	}
	if neterr.Timeout() {
		return false
	}

	return true
}

// ServeForever runs the function with arguments until it returns normally
//
// ServeForever will restart the function call if function panics
func ServeForever(f interface{}, args ...interface{}) {
	fval := reflect.ValueOf(f)
	argVals := make([]reflect.Value, len(args))
	for i := range args {
		argVals[i] = reflect.ValueOf(args[i])
	}

	for !runServe(fval, argVals) {
	}
}

func runServe(f reflect.Value, args []reflect.Value) (returned bool) {
	defer func() {
		err := recover()
		if err != nil {
			gwlog.TraceError("ServeForever: func %v quited with error %v", f, err)
		}
	}()

	f.Call(args)
	return true
}
