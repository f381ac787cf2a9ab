package entitystoragefilesystem

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestFileSystemRecordStorage(t *testing.T) {
	es, err := OpenDirectory(t.TempDir())
	assert.Equal(t, nil, err)
	defer es.Close()

	doc, err := es.Read("char", "1")
	assert.Equal(t, nil, err)
	assert.T(t, doc == nil)
	exists, err := es.Exists("char", "1")
	assert.Equal(t, nil, err)
	assert.T(t, !exists)

	testData := map[string]interface{}{
		"a": 1,
		"b": "2",
		"c": true,
		"d": 1.11,
	}
	assert.Equal(t, nil, es.Write("char", "1", testData))
	assert.Equal(t, nil, es.Write("charname", "1$Hero", map[string]interface{}{"id": 1}))

	doc, err = es.Read("char", "1")
	assert.Equal(t, nil, err)
	assert.Equal(t, float64(1), doc["a"])
	assert.Equal(t, "2", doc["b"])
	assert.Equal(t, true, doc["c"])
	assert.Equal(t, 1.11, doc["d"])

	exists, err = es.Exists("char", "1")
	assert.Equal(t, nil, err)
	assert.T(t, exists)

	keys, err := es.List("char")
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"1"}, keys)
	keys, err = es.List("charname")
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"1$Hero"}, keys)
}
