package async

import (
	"sync"
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/post"
)

func TestAppendAsyncJob(t *testing.T) {
	var wait sync.WaitGroup
	wait.Add(2)
	var got interface{}
	AppendAsyncJob("1", func() (res interface{}, err error) {
		wait.Done()
		return 1, nil
	}, func(res interface{}, err error) {
		got = res
		wait.Done()
	})
	wait.Wait()
	assert.Equal(t, 1, got)
}

func TestTaskTryResult(t *testing.T) {
	release := make(chan struct{})
	task := AppendTask("task", "load", func() (interface{}, error) {
		<-release
		return "ok", nil
	})
	_, _, ready := task.TryResult()
	assert.T(t, !ready)

	close(release)
	res, err := task.Wait()
	assert.Equal(t, "ok", res)
	assert.Equal(t, nil, err)

	res, err, ready = task.TryResult()
	assert.T(t, ready)
	assert.Equal(t, "ok", res)
}

func TestTaskCompleteOnce(t *testing.T) {
	task := NewTask("manual")
	task.Complete(nil, errors.New("first"))
	task.Complete(1, nil)
	_, err, ready := task.TryResult()
	assert.T(t, ready)
	assert.Equal(t, "first", err.Error())
	assert.Equal(t, "Task<manual>", task.String())
}

func init() {
	go func() {
		for {
			post.Tick()
			time.Sleep(time.Millisecond)
		}
	}()
}
