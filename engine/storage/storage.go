package storage

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"
	"github.com/xiaonanln/gwagent/engine/async"
	"github.com/xiaonanln/gwagent/engine/config"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/opmon"
	"github.com/xiaonanln/gwagent/engine/storage/backend/filesystem"
	"github.com/xiaonanln/gwagent/engine/storage/backend/mongodb"
	"github.com/xiaonanln/gwagent/engine/storage/backend/redis"
	"github.com/xiaonanln/gwagent/engine/storage/backend/redis_cluster"
	"github.com/xiaonanln/gwagent/engine/storage/storage_common"
)

// Record kinds
const (
	kindCharacter      = "char"
	kindCharacterName  = "charname"
	kindUserCharacters = "chars"
	kindSequence       = "seq"
	characterSequence  = "char_id"
)

var (
	// ErrCharacterNotFound is the error of loading a character that does not exist
	ErrCharacterNotFound = errors.New("character not found")
	// ErrNameTaken is the error of creating a character with a used name
	ErrNameTaken = errors.New("character name is taken")
)

// Opener opens the storage engine; it is called again to reconnect after connection errors
type Opener func() (storagecommon.RecordStorage, error)

var (
	storageEngine            storagecommon.RecordStorage
	openStorageEngine        Opener
	operationQueue           *xnsyncutil.SyncQueue
	storageRoutineTerminated *xnsyncutil.OneTimeCond
)

type request struct {
	label string
	task  *async.Task
	run   func(es storagecommon.RecordStorage) (interface{}, error)
}

// Initialize opens the configured storage engine and starts the storage routine
func Initialize(cfg *config.StorageConfig) error {
	return Start(OpenerFor(cfg))
}

// OpenerFor returns the opener of the configured storage engine
func OpenerFor(cfg *config.StorageConfig) Opener {
	return func() (storagecommon.RecordStorage, error) {
		switch cfg.Type {
		case "filesystem":
			return entitystoragefilesystem.OpenDirectory(cfg.Directory)
		case "mongodb":
			return entitystoragemongodb.OpenMongoDB(cfg.Url, cfg.DB)
		case "redis":
			dbindex, err := strconv.Atoi(cfg.DB)
			if err != nil {
				return nil, errors.Wrap(err, "redis db must be integer")
			}
			return entitystorageredis.OpenRedis(cfg.Url, dbindex)
		case "redis_cluster":
			return entitystoragerediscluster.OpenRedisCluster(cfg.StartNodes.ToList())
		}
		return nil, errors.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Start opens the storage engine and starts the storage routine
func Start(opener Opener) error {
	openStorageEngine = opener
	storageEngine = nil
	if err := assureStorageEngineReady(); err != nil {
		return errors.Wrap(err, "storage engine is not ready")
	}
	operationQueue = xnsyncutil.NewSyncQueue()
	storageRoutineTerminated = xnsyncutil.NewOneTimeCond()
	go storageRoutine()
	return nil
}

// Shutdown finishes the queued operations and closes the storage engine
func Shutdown() {
	operationQueue.Close()
	storageRoutineTerminated.Wait()
}

func assureStorageEngineReady() (err error) {
	if storageEngine != nil {
		return
	}
	storageEngine, err = openStorageEngine()
	return
}

func push(label string, run func(es storagecommon.RecordStorage) (interface{}, error)) *async.Task {
	task := async.NewTask(label)
	operationQueue.Push(&request{label: label, task: task, run: run})
	checkOperationQueueLen()
	return task
}

var recentWarnedQueueLen = 0

func checkOperationQueueLen() {
	qlen := operationQueue.Len()
	if qlen > 100 && qlen%100 == 0 && recentWarnedQueueLen != qlen {
		gwlog.Warnf("Storage operation queue length = %d", qlen)
		recentWarnedQueueLen = qlen
	}
}

func storageRoutine() {
	defer func() {
		err := recover()
		if err != nil {
			gwlog.TraceError("storage routine paniced: %s, restarting ...", err)
			go storageRoutine() // restart the storage routine
		} else {
			// normal quit
			if storageEngine != nil {
				storageEngine.Close()
				storageEngine = nil
			}
			storageRoutineTerminated.Signal()
		}
	}()

	for {
		op := operationQueue.Pop()
		if op == nil { // storage closed
			break
		}

		req := op.(*request)
		monop := opmon.StartOperation("storage." + req.label)
		res, err := serve(req)
		monop.Finish(time.Millisecond * 100)
		if err != nil && errors.Cause(err) != ErrCharacterNotFound && errors.Cause(err) != ErrNameTaken {
			gwlog.Errorf("storage: %s failed: %s", req.label, err)
		}
		req.task.Complete(res, err)
	}
}

// serve runs a request, retrying a bounded number of times on backend errors
func serve(req *request) (res interface{}, err error) {
	for attempt := 1; attempt <= consts.STORAGE_MAX_RETRY; attempt++ {
		if consts.DEBUG_SAVE_LOAD {
			gwlog.Debugf("storage: %s attempt %d ...", req.label, attempt)
		}
		if err = assureStorageEngineReady(); err != nil {
			gwlog.Errorf("Storage engine is not ready: %s", err)
			time.Sleep(consts.STORAGE_RETRY_DELAY)
			continue
		}

		res, err = req.run(storageEngine)
		if err == nil || !isTransient(err) {
			return
		}

		gwlog.Warnf("storage: %s attempt %d failed: %s", req.label, attempt, err)
		if storageEngine.IsEOF(err) {
			storageEngine.Close()
			storageEngine = nil
		}
		time.Sleep(consts.STORAGE_RETRY_DELAY)
	}
	return nil, errors.Wrapf(err, "%s failed after %d attempts", req.label, consts.STORAGE_MAX_RETRY)
}

// domain errors are final, everything else comes from the backend
func isTransient(err error) bool {
	switch errors.Cause(err) {
	case ErrCharacterNotFound, ErrNameTaken:
		return false
	}
	_, malformed := errors.Cause(err).(malformedError)
	return !malformed
}

type malformedError struct {
	error
}

func readCharacter(es storagecommon.RecordStorage, id uint32) (*CharacterData, error) {
	doc, err := es.Read(kindCharacter, characterKey(id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.Wrapf(ErrCharacterNotFound, "character %d", id)
	}
	c, err := characterFromDoc(doc)
	if err != nil {
		return nil, malformedError{err}
	}
	return c, nil
}

func findCharacterID(es storagecommon.RecordStorage, shard uint16, name string) (uint32, bool, error) {
	doc, err := es.Read(kindCharacterName, characterNameKey(shard, name))
	if err != nil || doc == nil {
		return 0, false, err
	}
	return uint32(docInt(doc, "id")), true, nil
}

func readUserCharacterIDs(es storagecommon.RecordStorage, user uint32, shard uint16) ([]uint32, error) {
	doc, err := es.Read(kindUserCharacters, userCharactersKey(user, shard))
	if err != nil || doc == nil {
		return nil, err
	}
	list, _ := doc["ids"].([]interface{})
	ids := make([]uint32, 0, len(list))
	for _, v := range list {
		ids = append(ids, uint32(docInt(map[string]interface{}{"id": v}, "id")))
	}
	return ids, nil
}

func nextCharacterID(es storagecommon.RecordStorage) (uint32, error) {
	doc, err := es.Read(kindSequence, characterSequence)
	if err != nil {
		return 0, err
	}
	next := uint32(docInt(doc, "last")) + 1
	if err = es.Write(kindSequence, characterSequence, map[string]interface{}{"last": int64(next)}); err != nil {
		return 0, err
	}
	return next, nil
}

// LoadCharacter loads a character by id; the result is a *CharacterData
func LoadCharacter(id uint32) *async.Task {
	return push("load_character", func(es storagecommon.RecordStorage) (interface{}, error) {
		return readCharacter(es, id)
	})
}

// LoadCharacterByName loads a character by its name in shard; the result is a *CharacterData
func LoadCharacterByName(shard uint16, name string) *async.Task {
	return push("load_character_by_name", func(es storagecommon.RecordStorage) (interface{}, error) {
		id, found, err := findCharacterID(es, shard, name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Wrapf(ErrCharacterNotFound, "character %s", name)
		}
		return readCharacter(es, id)
	})
}

// ListCharacters loads all characters of a user in shard ordered by id; the result is a []*CharacterData
func ListCharacters(user uint32, shard uint16) *async.Task {
	return push("list_characters", func(es storagecommon.RecordStorage) (interface{}, error) {
		ids, err := readUserCharacterIDs(es, user, shard)
		if err != nil {
			return nil, err
		}
		chars := make([]*CharacterData, 0, len(ids))
		for _, id := range ids {
			c, err := readCharacter(es, id)
			if errors.Cause(err) == ErrCharacterNotFound {
				continue
			} else if err != nil {
				return nil, err
			}
			chars = append(chars, c)
		}
		return chars, nil
	})
}

// CheckName checks if a name is free in shard; the result is a bool
func CheckName(shard uint16, name string) *async.Task {
	return push("check_name", func(es storagecommon.RecordStorage) (interface{}, error) {
		_, found, err := findCharacterID(es, shard, name)
		return !found, err
	})
}

// CreateCharacter stores a new character with a fresh id; the result is the stored *CharacterData
func CreateCharacter(data *CharacterData) *async.Task {
	c := data.Clone()
	return push("create_character", func(es storagecommon.RecordStorage) (interface{}, error) {
		_, found, err := findCharacterID(es, c.Shard, c.Name)
		if err != nil {
			return nil, err
		}
		if found {
			return nil, errors.Wrapf(ErrNameTaken, "character %s", c.Name)
		}

		if c.ID == 0 {
			if c.ID, err = nextCharacterID(es); err != nil {
				return nil, err
			}
		}
		if err = es.Write(kindCharacter, characterKey(c.ID), c.toDoc()); err != nil {
			return nil, err
		}
		if err = es.Write(kindCharacterName, characterNameKey(c.Shard, c.Name), map[string]interface{}{"id": int64(c.ID)}); err != nil {
			return nil, err
		}

		ids, err := readUserCharacterIDs(es, c.UserID, c.Shard)
		if err != nil {
			return nil, err
		}
		list := make([]interface{}, 0, len(ids)+1)
		for _, id := range ids {
			list = append(list, int64(id))
		}
		list = append(list, int64(c.ID))
		if err = es.Write(kindUserCharacters, userCharactersKey(c.UserID, c.Shard), map[string]interface{}{"ids": list}); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// SaveCharacter writes the character record; data is copied, the caller may keep using it
func SaveCharacter(data *CharacterData) *async.Task {
	c := data.Clone()
	return push("save_character", func(es storagecommon.RecordStorage) (interface{}, error) {
		return nil, es.Write(kindCharacter, characterKey(c.ID), c.toDoc())
	})
}

// SetGM sets or clears the game master flag of a character
func SetGM(shard uint16, name string, gm bool) *async.Task {
	return push("set_gm", func(es storagecommon.RecordStorage) (interface{}, error) {
		id, found, err := findCharacterID(es, shard, name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Wrapf(ErrCharacterNotFound, "character %s", name)
		}
		c, err := readCharacter(es, id)
		if err != nil {
			return nil, err
		}
		c.GM = gm
		return nil, es.Write(kindCharacter, characterKey(c.ID), c.toDoc())
	})
}
