package async

import (
	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/gwutils"
)

type taskResult struct {
	res interface{}
	err error
}

// Task is the pending result of a background operation.
//
// The simulation polls a Task with TryResult and never blocks on it.
type Task struct {
	ch    chan taskResult
	done  bool
	res   interface{}
	err   error
	label string
}

// NewTask creates a Task that is completed by Complete
func NewTask(label string) *Task {
	return &Task{ch: make(chan taskResult, 1), label: label}
}

// AppendTask runs routine on the worker of group and returns its Task
func AppendTask(group string, label string, routine AsyncRoutine) *Task {
	t := NewTask(label)
	AppendAsyncJob(group, func() (res interface{}, err error) {
		if perr := gwutils.CatchPanic(func() {
			res, err = routine()
		}); perr != nil {
			err = errors.Errorf("%s panic: %v", label, perr)
		}
		t.Complete(res, err)
		return res, err
	}, nil)
	return t
}

// Complete sets the result of the task. Only the first call has effect.
func (t *Task) Complete(res interface{}, err error) {
	select {
	case t.ch <- taskResult{res, err}:
	default:
	}
}

// TryResult returns the result if the task is completed.
// It is meant to be called from a single goroutine.
func (t *Task) TryResult() (res interface{}, err error, ready bool) {
	if !t.done {
		select {
		case r := <-t.ch:
			t.done, t.res, t.err = true, r.res, r.err
		default:
			return nil, nil, false
		}
	}
	return t.res, t.err, true
}

// Wait blocks until the task is completed. Never call it from a system.
func (t *Task) Wait() (interface{}, error) {
	if !t.done {
		r := <-t.ch
		t.done, t.res, t.err = true, r.res, r.err
	}
	return t.res, t.err
}

func (t *Task) String() string {
	return "Task<" + t.label + ">"
}
