package entitystoragemongodb

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/storage/storage_common"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	_DEFAULT_DB_NAME = "gwagent"
	_DIAL_TIMEOUT    = time.Second * 10
)

type mongoDBRecordStorage struct {
	db *mgo.Database
}

// OpenMongoDB opens mongodb as record storage, one collection per record kind
func OpenMongoDB(url string, dbname string) (storagecommon.RecordStorage, error) {
	gwlog.Debugf("Connecting MongoDB ...")
	session, err := mgo.DialWithTimeout(url, _DIAL_TIMEOUT)
	if err != nil {
		return nil, errors.Wrap(err, "mongodb dial failed")
	}

	session.SetMode(mgo.Monotonic, true)
	if dbname == "" {
		// if db is not specified, use default
		dbname = _DEFAULT_DB_NAME
	}
	return &mongoDBRecordStorage{
		db: session.DB(dbname),
	}, nil
}

func (es *mongoDBRecordStorage) getCollection(kind string) *mgo.Collection {
	return es.db.C(kind)
}

func (es *mongoDBRecordStorage) Write(kind string, key string, doc map[string]interface{}) error {
	_, err := es.getCollection(kind).UpsertId(key, bson.M{
		"data": doc,
	})
	return err
}

func (es *mongoDBRecordStorage) Read(kind string, key string) (map[string]interface{}, error) {
	var doc bson.M
	err := es.getCollection(kind).FindId(key).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	data, ok := doc["data"].(bson.M)
	if !ok {
		return nil, errors.Errorf("record %s$%s has no data", kind, key)
	}
	return convertM2Map(data), nil
}

func convertM2Map(m bson.M) map[string]interface{} {
	ma := map[string]interface{}(m)
	convertM2MapInMap(ma)
	return ma
}

func convertM2MapInMap(m map[string]interface{}) {
	for k, v := range m {
		switch im := v.(type) {
		case bson.M:
			m[k] = convertM2Map(im)
		case map[string]interface{}:
			convertM2MapInMap(im)
		case []interface{}:
			convertM2MapInList(im)
		}
	}
}

func convertM2MapInList(l []interface{}) {
	for i, v := range l {
		switch im := v.(type) {
		case bson.M:
			l[i] = convertM2Map(im)
		case map[string]interface{}:
			convertM2MapInMap(im)
		case []interface{}:
			convertM2MapInList(im)
		}
	}
}

func (es *mongoDBRecordStorage) List(kind string) ([]string, error) {
	var docs []bson.M
	err := es.getCollection(kind).Find(nil).Select(bson.M{"_id": 1}).All(&docs)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		if key, ok := doc["_id"].(string); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (es *mongoDBRecordStorage) Exists(kind string, key string) (bool, error) {
	n, err := es.getCollection(kind).FindId(key).Count()
	return n > 0, err
}

func (es *mongoDBRecordStorage) Close() {
	es.db.Session.Close()
}

func (es *mongoDBRecordStorage) IsEOF(err error) bool {
	err = errors.Cause(err)
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
