package storagecommon

// RecordStorage defines the interface of storage backends.
//
// Records are documents addressed by a kind and a key. Read returns a nil document without error
// when the record does not exist.
type RecordStorage interface {
	List(kind string) ([]string, error)
	Write(kind string, key string, doc map[string]interface{}) error
	Read(kind string, key string) (map[string]interface{}, error)
	Exists(kind string, key string) (bool, error)
	Close()
	IsEOF(err error) bool
}
