package entitystoragerediscluster

import (
	"time"

	rediscluster "github.com/chasex/redis-go-cluster"
	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/storage/backend/redis"
	"github.com/xiaonanln/gwagent/engine/storage/storage_common"
)

// OpenRedisCluster opens a redis cluster as record storage
func OpenRedisCluster(startNodes []string) (storagecommon.RecordStorage, error) {
	c, err := rediscluster.NewCluster(&rediscluster.Options{
		StartNodes:   startNodes,
		ConnTimeout:  10 * time.Second, // Connection timeout
		ReadTimeout:  60 * time.Second, // Read timeout
		WriteTimeout: 60 * time.Second, // Write timeout
		KeepAlive:    1,                // Maximum keep alive connecion in each node
		AliveTime:    10 * time.Minute, // Keep alive timeout
	})

	if err != nil {
		return nil, errors.Wrap(err, "connect redis cluster failed")
	}

	return entitystorageredis.NewRecordStorage(c, func() {}), nil
}
