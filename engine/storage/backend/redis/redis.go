package entitystorageredis

import (
	"io"

	"github.com/garyburd/redigo/redis"
	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/netutil"
	"github.com/xiaonanln/gwagent/engine/storage/storage_common"
)

var (
	dataPacker = netutil.MessagePackMsgPacker{}
)

// Doer runs redis commands; both a redigo connection and a redis cluster client are Doers
type Doer interface {
	Do(cmd string, args ...interface{}) (interface{}, error)
}

type redisRecordStorage struct {
	c     Doer
	close func()
}

// OpenRedis opens redis as record storage
func OpenRedis(url string, dbindex int) (storagecommon.RecordStorage, error) {
	c, err := redis.DialURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "redis dial failed")
	}

	if _, err := c.Do("SELECT", dbindex); err != nil {
		c.Close()
		return nil, errors.Wrap(err, "redis select db failed")
	}

	return NewRecordStorage(c, func() { c.Close() }), nil
}

// NewRecordStorage creates record storage on top of any redis client
func NewRecordStorage(c Doer, close func()) storagecommon.RecordStorage {
	return &redisRecordStorage{c: c, close: close}
}

func recordKey(kind string, key string) string {
	return kind + "$" + key
}

func (es *redisRecordStorage) List(kind string) ([]string, error) {
	keyMatch := kind + "$*"
	prefixLen := len(kind) + 1
	var keys []string
	var cursor interface{} = "0"
	for {
		r, err := redis.Values(es.c.Do("SCAN", cursor, "MATCH", keyMatch, "COUNT", 10000))
		if err != nil {
			return nil, err
		}
		found, err := redis.Strings(r[1], nil)
		if err != nil {
			return nil, err
		}
		for _, key := range found {
			keys = append(keys, key[prefixLen:])
		}

		cursor = r[0]
		if isZeroCursor(cursor) {
			break
		}
	}
	return keys, nil
}

func isZeroCursor(c interface{}) bool {
	b, ok := c.([]byte)
	return ok && string(b) == "0"
}

func (es *redisRecordStorage) Write(kind string, key string, doc map[string]interface{}) error {
	b, err := dataPacker.PackMsg(doc, nil)
	if err != nil {
		return err
	}

	_, err = es.c.Do("SET", recordKey(kind, key), b)
	return err
}

func (es *redisRecordStorage) Read(kind string, key string) (map[string]interface{}, error) {
	b, err := redis.Bytes(es.c.Do("GET", recordKey(kind, key)))
	if err == redis.ErrNil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	if err = dataPacker.UnpackMsg(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (es *redisRecordStorage) Exists(kind string, key string) (bool, error) {
	return redis.Bool(es.c.Do("EXISTS", recordKey(kind, key)))
}

func (es *redisRecordStorage) Close() {
	if es.close != nil {
		es.close()
	}
}

func (es *redisRecordStorage) IsEOF(err error) bool {
	err = errors.Cause(err)
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
