package entitystoragefilesystem

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/storage/storage_common"
)

type fileSystemRecordStorage struct {
	directory string
}

// OpenDirectory opens a directory as record storage, one JSON file per record
func OpenDirectory(directory string) (storagecommon.RecordStorage, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, errors.Wrap(err, "create storage directory")
	}

	return &fileSystemRecordStorage{
		directory: directory,
	}, nil
}

func getFileName(kind string, key string) string {
	return kind + "$" + base64.URLEncoding.EncodeToString([]byte(key))
}

func (es *fileSystemRecordStorage) getFilePath(kind string, key string) string {
	return filepath.Join(es.directory, getFileName(kind, key))
}

func (es *fileSystemRecordStorage) Write(kind string, key string, doc map[string]interface{}) error {
	saveFile := es.getFilePath(kind, key)
	dataBytes, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return err
	}

	if consts.DEBUG_SAVE_LOAD {
		gwlog.Debugf("Saving to file %s: %s", saveFile, string(dataBytes))
	}
	// write aside and rename so that readers never see a partial record
	tmpFile := saveFile + ".tmp"
	if err = os.WriteFile(tmpFile, dataBytes, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, saveFile)
}

func (es *fileSystemRecordStorage) Read(kind string, key string) (map[string]interface{}, error) {
	dataBytes, err := os.ReadFile(es.getFilePath(kind, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var doc map[string]interface{}
	if err = json.Unmarshal(dataBytes, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (es *fileSystemRecordStorage) Exists(kind string, key string) (bool, error) {
	_, err := os.Stat(es.getFilePath(kind, key))
	if err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (es *fileSystemRecordStorage) List(kind string) ([]string, error) {
	prefix := kind + "$"
	files, err := filepath.Glob(filepath.Join(es.directory, prefix+"*"))
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(files))
	for _, fpath := range files {
		_, fn := filepath.Split(fpath)
		if !strings.HasPrefix(fn, prefix) || strings.HasSuffix(fn, ".tmp") {
			continue
		}
		keyBytes, err := base64.URLEncoding.DecodeString(fn[len(prefix):])
		if err != nil {
			gwlog.TraceError("fail to parse file %s", fpath)
			continue
		}
		res = append(res, string(keyBytes))
	}
	return res, nil
}

func (es *fileSystemRecordStorage) Close() {
	// need to do nothing
}

func (es *fileSystemRecordStorage) IsEOF(err error) bool {
	return false
}
