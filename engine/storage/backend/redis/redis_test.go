package entitystorageredis

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/typeconv"
)

func TestRedisRecordStorage(t *testing.T) {
	es, err := OpenRedis("redis://localhost:6379", 0)
	if err != nil {
		t.Skipf("redis is not available: %v", err)
	}
	defer es.Close()

	doc, err := es.Read("gwagent_test", "missing")
	assert.Equal(t, nil, err)
	assert.T(t, doc == nil)

	testData := map[string]interface{}{
		"a": 1,
		"b": "2",
		"c": true,
		"d": 1.11,
	}
	assert.Equal(t, nil, es.Write("gwagent_test", "1", testData))

	doc, err = es.Read("gwagent_test", "1")
	assert.Equal(t, nil, err)
	assert.T(t, typeconv.Int(doc["a"]) == 1)
	assert.Equal(t, "2", doc["b"])
	assert.Equal(t, true, doc["c"])
	assert.Equal(t, 1.11, doc["d"])

	exists, err := es.Exists("gwagent_test", "1")
	assert.Equal(t, nil, err)
	assert.T(t, exists)

	keys, err := es.List("gwagent_test")
	assert.Equal(t, nil, err)
	assert.T(t, len(keys) > 0)
}
