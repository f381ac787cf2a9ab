// Package world assembles the stores, the reference data and the systems of one shard and drives its ticks
package world

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	timer "github.com/xiaonanln/goTimer"
	"github.com/xiaonanln/gwagent/engine/agent"
	"github.com/xiaonanln/gwagent/engine/async"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/config"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/entitysync"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/opmon"
	"github.com/xiaonanln/gwagent/engine/post"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/refdata"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// World is the simulation of one shard
type World struct {
	Stores   *comp.Stores
	Data     *refdata.Data
	Settings *agent.Settings

	schedule     *sched.Schedule
	tickInterval time.Duration
	saving       []*async.Task
	timers       []*timer.Timer
}

// New builds a world running the simulation systems with the given settings
func New(data *refdata.Data, settings *agent.Settings, tickInterval time.Duration) (*World, error) {
	w := &World{
		Stores:       comp.NewStores(ecs.NewWorld()),
		Data:         data,
		Settings:     settings,
		tickInterval: tickInterval,
	}

	systems := agent.Systems(w.Stores, data, settings)
	systems = append(systems, entitysync.Systems(w.Stores, settings.VisibilityRadius)...)
	schedule, err := sched.NewBuilder(w.Stores.World).Add(systems...).Build()
	if err != nil {
		return nil, errors.Wrap(err, "build schedule")
	}
	w.schedule = schedule

	for phase := sched.Phase(0); phase <= sched.Cleanup; phase++ {
		gwlog.Debugf("%s levels: %v", phase, schedule.Levels(phase))
	}
	return w, nil
}

// NewFromConfig loads the reference data and the spawners of the config file
func NewFromConfig(cfg *config.GWAgentConfig) (*World, error) {
	dir := config.GetConfigDir()
	data, err := refdata.Load(relPath(dir, cfg.Data.Skills), relPath(dir, cfg.Data.Items), relPath(dir, cfg.Data.Characters))
	if err != nil {
		return nil, err
	}

	w, err := New(data, agent.SettingsFromConfig(&cfg.Agent), cfg.Agent.TickInterval)
	if err != nil {
		return nil, err
	}
	for _, id := range config.GetSpawnIDs() {
		if err := w.AddSpawner(cfg.Spawns[id]); err != nil {
			return nil, errors.Wrapf(err, "spawn%d", id)
		}
	}
	w.StartTimers(cfg.Agent.SaveInterval)
	return w, nil
}

func relPath(dir, p string) string {
	if filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// AddSpawner places a spawner; its monsters appear at the next spawn check
func (w *World) AddSpawner(sc *config.SpawnConfig) error {
	if _, ok := w.Data.Character(sc.RefID); !ok {
		return errors.Errorf("unknown character ref id %d", sc.RefID)
	}
	e := w.Stores.World.Spawn()
	w.Stores.Spawner.Insert(e, comp.Spawner{
		RefID:     sc.RefID,
		Position:  comp.Position{Region: sc.Region, X: sc.X, Y: sc.Y, Z: sc.Z},
		Radius:    sc.Radius,
		Target:    sc.Amount,
		NextCheck: w.schedule.Now(),
	})
	gwlog.Infof("spawner %s: %d x %d in region %d", e, sc.Amount, sc.RefID, sc.Region)
	return nil
}

// StartTimers starts the autosave and the operation monitor dump, both fired by Tick
func (w *World) StartTimers(saveInterval time.Duration) {
	if saveInterval > 0 {
		w.timers = append(w.timers, timer.AddTimer(saveInterval, w.SaveAll))
	}
	w.timers = append(w.timers, timer.AddTimer(consts.OPMON_DUMP_INTERVAL, dumpOpmon))
}

// dumpOpmon runs off the tick routine, sampling process stats may block
func dumpOpmon() {
	async.AppendTask("opmon", "opmon dump", func() (interface{}, error) {
		opmon.Dump()
		return nil, nil
	})
}

// Connect adds a client; the connection may be created on any goroutine
func (w *World) Connect(conn *proto.ClientConnection) {
	post.Post(func() {
		e := w.Stores.World.Spawn()
		w.Stores.Client.Insert(e, comp.Client{Conn: conn})
		w.Stores.LastAction.Insert(e, comp.LastAction{At: w.schedule.Now()})
		if consts.DEBUG_CLIENTS {
			gwlog.Debugf("%s: %s connected", e, conn)
		}
	})
}

// Schedule returns the schedule of the world
func (w *World) Schedule() *sched.Schedule {
	return w.schedule
}

// Tick runs the posted callbacks and the expired timers, then advances the simulation by one step
func (w *World) Tick() {
	op := opmon.StartOperation("tick")
	post.Tick()
	timer.Tick()
	w.pollSaves()
	w.schedule.Tick(w.tickInterval)
	op.Finish(consts.TICK_WARN_THRESHOLD)
}

// Run ticks the world at the tick interval until ctx is done
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()
	gwlog.Infof("world running, tick interval %s", w.tickInterval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Tick()
		}
	}
}

// SaveAll starts saving every online player
func (w *World) SaveAll() {
	n := 0
	w.Stores.Player.Each(func(e ecs.Entity, _ *comp.Player) {
		if data, ok := agent.Snapshot(w.Stores, e); ok {
			w.saving = append(w.saving, w.Settings.SaveCharacter(data))
			n++
		}
	})
	gwlog.Infof("saving %d players", n)
}

func (w *World) pollSaves() {
	pending := w.saving[:0]
	for _, task := range w.saving {
		_, err, ready := task.TryResult()
		if !ready {
			pending = append(pending, task)
		} else if err != nil {
			gwlog.Errorf("%s failed: %s", task, err)
		}
	}
	w.saving = pending
}

// Shutdown stops the timers, closes every client and waits until all players are saved.
// It must not be called while Run is ticking.
func (w *World) Shutdown() {
	for _, t := range w.timers {
		t.Cancel()
	}
	w.timers = nil

	post.Tick()
	w.SaveAll()
	w.Stores.Client.Each(func(e ecs.Entity, client *comp.Client) {
		client.Conn.Flush()
		client.Conn.Close()
	})

	failed := 0
	for _, task := range w.saving {
		if _, err := task.Wait(); err != nil {
			gwlog.Errorf("%s failed: %s", task, err)
			failed++
		}
	}
	gwlog.Infof("world shut down, %d saves, %d failed", len(w.saving), failed)
	w.saving = nil
}
