package config

import (
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/gwagent/engine/gwlog"
)

func init() {
	SetConfigFile("../../gwagent.ini.sample")
}

func TestLoad(t *testing.T) {
	config := Get()
	if config == nil {
		t.FailNow()
	}
	gwlog.Debugf("gwagent config: \n%s", DumpPretty(config))

	agent := GetAgent()
	assert.Equal(t, uint16(1), agent.ShardID)
	assert.Equal(t, time.Millisecond*100, agent.TickInterval)
	assert.Equal(t, time.Minute, agent.ClientTimeout)
	assert.Equal(t, float32(200), agent.VisibilityRadius)
	assert.Equal(t, 45, agent.InventorySize)
	assert.Equal(t, PickupFullReject, agent.PickupFullPolicy)
	assert.Equal(t, 25000, agent.HTTPPort)

	assert.Equal(t, "data/items.yaml", GetData().Items)
	assert.Equal(t, "filesystem", GetStorage().Type)
	assert.Equal(t, "_character_storage", GetStorage().Directory)
}

func TestSpawns(t *testing.T) {
	assert.Equal(t, []int{1, 2}, GetSpawnIDs())
	spawn := GetSpawn(1)
	assert.Equal(t, uint32(1954), spawn.RefID)
	assert.Equal(t, uint16(24744), spawn.Region)
	assert.Equal(t, float32(960), spawn.X)
	assert.Equal(t, 5, spawn.Amount)
	assert.T(t, GetSpawn(3) == nil)
}

func TestReload(t *testing.T) {
	Get()
	config := Reload()
	assert.T(t, config != nil)
	assert.Equal(t, 2, len(config.Spawns))
}

func TestGetConfigDir(t *testing.T) {
	assert.Equal(t, "../../", GetConfigDir())
	assert.Equal(t, "../../gwagent.ini.sample", GetConfigFilePath())
}
