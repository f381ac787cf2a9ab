package config

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/gwlog"
)

const (
	_DEFAULT_CONFIG_FILE = "gwagent.ini"
	_DEFAULT_HTTP_IP     = "127.0.0.1"
	_DEFAULT_LOG_LEVEL   = "debug"
	_DEFAULT_STORAGE_DB  = "gwagent"
)

// Policies of granting a picked up item to a full inventory
const (
	PickupFullReject  = "reject"
	PickupFullRefund  = "refund"
	PickupFullDestroy = "destroy"
)

var (
	configFilePath = _DEFAULT_CONFIG_FILE
	gwagentConfig  *GWAgentConfig
	configLock     sync.Mutex
)

// AgentConfig defines fields of the [agent] section
type AgentConfig struct {
	ShardID            uint16
	TickInterval       time.Duration
	ClientTimeout      time.Duration
	VisibilityRadius   float32
	MovementSpeed      float32
	InventorySize      int
	LogoutDelay        time.Duration
	PickupCooldown     time.Duration
	PickupFullPolicy   string
	DropLifetime       time.Duration
	SaveInterval       time.Duration
	SpawnCheckInterval time.Duration
	LogFile            string
	LogStderr          bool
	LogLevel           string
	HTTPIp             string
	HTTPPort           int
	GoMaxProcs         int
}

// DataConfig defines the reference data files
type DataConfig struct {
	Skills     string
	Items      string
	Characters string
}

// StorageConfig defines fields of storage config
type StorageConfig struct {
	Type       string // Type of storage (filesystem, mongodb, redis, redis_cluster)
	Directory  string // Directory of filesystem storage (filesystem)
	Url        string // Connection URL (mongodb, redis)
	DB         string // Database name (mongodb, redis)
	StartNodes common.StringSet
}

// SpawnConfig places a monster spawner
type SpawnConfig struct {
	RefID  uint32
	Region uint16
	X      float32
	Y      float32
	Z      float32
	Radius float32
	Amount int
}

// GWAgentConfig defines the total config file structure
type GWAgentConfig struct {
	Agent   AgentConfig
	Data    DataConfig
	Storage StorageConfig
	Spawns  map[int]*SpawnConfig
}

// SetConfigFile sets the config file path (gwagent.ini by default)
func SetConfigFile(f string) {
	configFilePath = f
}

// GetConfigDir returns the directory of the config file
func GetConfigDir() string {
	dir, _ := path.Split(configFilePath)
	return dir
}

// GetConfigFilePath returns the config file path
func GetConfigFilePath() string {
	return configFilePath
}

// Get returns the total config
func Get() *GWAgentConfig {
	configLock.Lock()
	defer configLock.Unlock()
	if gwagentConfig == nil {
		gwagentConfig = readGWAgentConfig()
	}
	return gwagentConfig
}

// Reload forces to reload the whole config
func Reload() *GWAgentConfig {
	configLock.Lock()
	gwagentConfig = nil
	configLock.Unlock()

	return Get()
}

// GetAgent returns the agent config
func GetAgent() *AgentConfig {
	return &Get().Agent
}

// GetData returns the reference data config
func GetData() *DataConfig {
	return &Get().Data
}

// GetStorage returns the storage config
func GetStorage() *StorageConfig {
	return &Get().Storage
}

// GetSpawnIDs returns all spawn ids in order
func GetSpawnIDs() []int {
	cfg := Get()
	ids := make([]int, 0, len(cfg.Spawns))
	for id := range cfg.Spawns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// GetSpawn returns the spawn config of specified id
func GetSpawn(id int) *SpawnConfig {
	return Get().Spawns[id]
}

// DumpPretty format config to string in pretty format
func DumpPretty(cfg interface{}) string {
	s, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err.Error()
	}
	return string(s)
}

func readGWAgentConfig() *GWAgentConfig {
	config := GWAgentConfig{
		Spawns: map[int]*SpawnConfig{},
	}
	gwlog.Infof("Using config file: %s", configFilePath)
	iniFile, err := ini.Load(configFilePath)
	checkConfigError(err, "")

	readAgentConfig(iniFile.Section("agent"), &config.Agent)
	readDataConfig(iniFile.Section("data"), &config.Data)
	readStorageConfig(iniFile.Section("storage"), &config.Storage)

	for _, sec := range iniFile.Sections() {
		secName := strings.ToLower(sec.Name())
		if secName == "default" || secName == "agent" || secName == "data" || secName == "storage" {
			continue
		}

		if len(secName) > 5 && secName[:5] == "spawn" {
			id, err := strconv.Atoi(secName[5:])
			checkConfigError(err, fmt.Sprintf("invalid spawn name: %s", secName))
			config.Spawns[id] = readSpawnConfig(sec)
		} else {
			gwlog.Errorf("unknown section: %s", secName)
		}
	}

	return &config
}

func readAgentConfig(sec *ini.Section, ac *AgentConfig) {
	ac.ShardID = 1
	ac.TickInterval = consts.TICK_INTERVAL
	ac.ClientTimeout = consts.CLIENT_TIMEOUT
	ac.VisibilityRadius = consts.PLAYER_VISIBILITY_RADIUS
	ac.MovementSpeed = consts.PLAYER_MOVEMENT_SPEED
	ac.InventorySize = consts.INVENTORY_SIZE
	ac.LogoutDelay = consts.LOGOUT_DELAY
	ac.PickupCooldown = consts.PICKUP_COOLDOWN
	ac.PickupFullPolicy = PickupFullReject
	ac.DropLifetime = consts.DROP_LIFETIME
	ac.SaveInterval = consts.SAVE_INTERVAL
	ac.SpawnCheckInterval = consts.SPAWN_CHECK_INTERVAL
	ac.LogFile = "gwagent.log"
	ac.LogStderr = true
	ac.LogLevel = _DEFAULT_LOG_LEVEL
	ac.HTTPIp = _DEFAULT_HTTP_IP
	ac.HTTPPort = 0 // http server not enabled by default
	ac.GoMaxProcs = 0

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "shard_id" {
			ac.ShardID = uint16(key.MustInt(int(ac.ShardID)))
		} else if name == "tick_interval" {
			ac.TickInterval = key.MustDuration(ac.TickInterval)
		} else if name == "client_timeout" {
			ac.ClientTimeout = key.MustDuration(ac.ClientTimeout)
		} else if name == "visibility_radius" {
			ac.VisibilityRadius = float32(key.MustFloat64(float64(ac.VisibilityRadius)))
		} else if name == "movement_speed" {
			ac.MovementSpeed = float32(key.MustFloat64(float64(ac.MovementSpeed)))
		} else if name == "inventory_size" {
			ac.InventorySize = key.MustInt(ac.InventorySize)
		} else if name == "logout_delay" {
			ac.LogoutDelay = key.MustDuration(ac.LogoutDelay)
		} else if name == "pickup_cooldown" {
			ac.PickupCooldown = key.MustDuration(ac.PickupCooldown)
		} else if name == "pickup_full_policy" {
			ac.PickupFullPolicy = strings.ToLower(key.MustString(ac.PickupFullPolicy))
		} else if name == "drop_lifetime" {
			ac.DropLifetime = key.MustDuration(ac.DropLifetime)
		} else if name == "save_interval" {
			ac.SaveInterval = key.MustDuration(ac.SaveInterval)
		} else if name == "spawn_check_interval" {
			ac.SpawnCheckInterval = key.MustDuration(ac.SpawnCheckInterval)
		} else if name == "log_file" {
			ac.LogFile = key.MustString(ac.LogFile)
		} else if name == "log_stderr" {
			ac.LogStderr = key.MustBool(ac.LogStderr)
		} else if name == "log_level" {
			ac.LogLevel = key.MustString(ac.LogLevel)
		} else if name == "http_ip" {
			ac.HTTPIp = key.MustString(ac.HTTPIp)
		} else if name == "http_port" {
			ac.HTTPPort = key.MustInt(ac.HTTPPort)
		} else if name == "gomaxprocs" {
			ac.GoMaxProcs = key.MustInt(ac.GoMaxProcs)
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	validateAgentConfig(ac)
}

func validateAgentConfig(ac *AgentConfig) {
	if ac.TickInterval <= 0 {
		gwlog.Panicf("tick_interval must be positive")
	}
	if ac.InventorySize <= consts.EQUIPMENT_SLOTS || ac.InventorySize > 255 {
		gwlog.Panicf("inventory_size must be in (%d, 255]", consts.EQUIPMENT_SLOTS)
	}
	switch ac.PickupFullPolicy {
	case PickupFullReject, PickupFullRefund, PickupFullDestroy:
	default:
		gwlog.Panicf("unknown pickup_full_policy: %s", ac.PickupFullPolicy)
	}
}

func readDataConfig(sec *ini.Section, dc *DataConfig) {
	dc.Skills = "data/skills.yaml"
	dc.Items = "data/items.yaml"
	dc.Characters = "data/characters.yaml"

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "skills" {
			dc.Skills = key.MustString(dc.Skills)
		} else if name == "items" {
			dc.Items = key.MustString(dc.Items)
		} else if name == "characters" {
			dc.Characters = key.MustString(dc.Characters)
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}
}

func readStorageConfig(sec *ini.Section, config *StorageConfig) {
	// setup default values
	config.Type = "filesystem"
	config.Directory = "_character_storage"
	config.DB = _DEFAULT_STORAGE_DB
	config.Url = ""
	config.StartNodes = common.StringSet{}

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "type" {
			config.Type = key.MustString(config.Type)
		} else if name == "directory" {
			config.Directory = key.MustString(config.Directory)
		} else if name == "url" {
			config.Url = key.MustString(config.Url)
		} else if name == "db" {
			config.DB = key.MustString(config.DB)
		} else if strings.HasPrefix(name, "start_nodes_") {
			config.StartNodes.Add(key.MustString(""))
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	if config.Type == "redis" {
		if config.DB == "" || config.DB == _DEFAULT_STORAGE_DB {
			config.DB = "0"
		}
	}

	validateStorageConfig(config)
}

func validateStorageConfig(config *StorageConfig) {
	if config.Type == "filesystem" {
		// directory must be set
		if config.Directory == "" {
			gwlog.Panicf("directory is not set in %s storage config", config.Type)
		}
	} else if config.Type == "mongodb" {
		if config.Url == "" {
			gwlog.Panicf("url is not set in %s storage config", config.Type)
		}
		if config.DB == "" {
			gwlog.Panicf("db is not set in %s storage config", config.Type)
		}
	} else if config.Type == "redis" {
		if config.Url == "" {
			gwlog.Panicf("redis host is not set")
		}
		if _, err := strconv.Atoi(config.DB); err != nil {
			gwlog.Panic(errors.Wrap(err, "redis db must be integer"))
		}
	} else if config.Type == "redis_cluster" {
		if len(config.StartNodes) == 0 {
			gwlog.Panicf("must have at least 1 start_nodes for [storage].redis_cluster")
		}
		for s := range config.StartNodes {
			if s == "" {
				gwlog.Panicf("start_nodes must not be empty")
			}
		}
	} else {
		gwlog.Panicf("unknown storage type: %s", config.Type)
	}
}

func readSpawnConfig(sec *ini.Section) *SpawnConfig {
	sc := &SpawnConfig{
		Radius: 50,
		Amount: 1,
	}
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "ref_id" {
			sc.RefID = uint32(key.MustInt(0))
		} else if name == "region" {
			sc.Region = uint16(key.MustInt(0))
		} else if name == "x" {
			sc.X = float32(key.MustFloat64(0))
		} else if name == "y" {
			sc.Y = float32(key.MustFloat64(0))
		} else if name == "z" {
			sc.Z = float32(key.MustFloat64(0))
		} else if name == "radius" {
			sc.Radius = float32(key.MustFloat64(float64(sc.Radius)))
		} else if name == "amount" {
			sc.Amount = key.MustInt(sc.Amount)
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}
	if sc.RefID == 0 {
		gwlog.Panicf("ref_id is not set in %s", sec.Name())
	}
	if sc.Amount <= 0 {
		gwlog.Panicf("amount must be positive in %s", sec.Name())
	}
	return sc
}

func checkConfigError(err error, msg string) {
	if err != nil {
		if msg == "" {
			msg = err.Error()
		}
		gwlog.Panicf("read config error: %s", msg)
	}
}
