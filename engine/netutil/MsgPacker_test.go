package netutil

import (
	"io"
	"strconv"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/pkg/errors"
)

type testMsg struct {
	ID        string
	F1        float64
	F2        int
	ListField []interface{}
	MapField  map[string]interface{}
}

func BenchmarkMessagePackMsgPacker(b *testing.B) {
	packer := MessagePackMsgPacker{}
	msg := testMsg{
		ID:        "abc",
		F1:        0.123124234,
		ListField: []interface{}{1, 2, 3, "abc", "def"},
		MapField:  map[string]interface{}{},
	}
	for i := 0; i < 100; i++ {
		msg.MapField["key"+strconv.Itoa(i)] = i
	}

	var totalSize int64
	for i := 0; i < b.N; i++ {
		buf := make([]byte, 0, 100)
		buf, _ = packer.PackMsg(msg, buf)
		totalSize += int64(len(buf))

		var restoreMsg map[string]interface{}
		_ = packer.UnpackMsg(buf, &restoreMsg)
	}
	b.Logf("average size: %d", totalSize/int64(b.N))
}

func TestMessagePackMsgPacker_UnpackMsg(t *testing.T) {
	msg := map[string]interface{}{
		"a": 1,
		"b": 2,
		"c": map[string]interface{}{
			"d": 1,
		},
	}
	buf := make([]byte, 0)
	buf, err := MSG_PACKER.PackMsg(msg, buf)
	assert.Equal(t, nil, err)
	var outmsg map[string]interface{}
	assert.Equal(t, nil, MSG_PACKER.UnpackMsg(buf, &outmsg))
	if _, ok := outmsg["c"].(map[interface{}]interface{}); ok {
		t.Errorf("should not unpack with type map[interface{}]interface{}")
	}
}

func TestIsConnectionError(t *testing.T) {
	assert.T(t, IsConnectionError(io.EOF))
	assert.T(t, IsConnectionError(errors.Wrap(io.EOF, "read")))
	assert.T(t, !IsConnectionError(errors.New("bad message")))
	assert.T(t, !IsConnectionError("not an error"))
}

func TestServeForever(t *testing.T) {
	calls := 0
	ServeForever(func(limit int) {
		calls++
		if calls < limit {
			panic("restart")
		}
	}, 3)
	assert.Equal(t, 3, calls)
}
