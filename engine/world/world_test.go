package world

import (
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/gwagent/engine/agent"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/config"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/refdata"
	"github.com/xiaonanln/gwagent/engine/sched"
	"github.com/xiaonanln/gwagent/engine/storage"
)

func newTestWorld(t *testing.T) *World {
	err := storage.Initialize(&config.StorageConfig{Type: "filesystem", Directory: t.TempDir()})
	assert.Equal(t, nil, err)
	t.Cleanup(storage.Shutdown)

	data, err := refdata.Load("../../data/skills.yaml", "../../data/items.yaml", "../../data/characters.yaml")
	assert.Equal(t, nil, err)
	w, err := New(data, agent.DefaultSettings(), 100*time.Millisecond)
	assert.Equal(t, nil, err)
	return w
}

func createHero(t *testing.T) *storage.CharacterData {
	res, err := storage.CreateCharacter(&storage.CharacterData{
		UserID: 7,
		Name:   "Hero",
		RefID:  1907,
		Level:  1,
		HP:     200,
		Region: comp.RegionID(168, 96),
		X:      100,
		Z:      100,
		Gold:   10,
	}).Wait()
	assert.Equal(t, nil, err)
	return res.(*storage.CharacterData)
}

// tickUntil ticks until cond holds, the storage routine answers asynchronously
func tickUntil(t *testing.T, w *World, cond func() bool) {
	for i := 0; i < 100; i++ {
		w.Tick()
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met after 100 ticks")
}

func TestScheduleCoversEveryPhase(t *testing.T) {
	w := newTestWorld(t)
	s := w.Schedule()
	assert.Equal(t, []string{agent.JoinSystemName}, s.Levels(sched.Input)[0])
	broadcast := s.Levels(sched.Broadcast)
	assert.Equal(t, []string{"flush"}, broadcast[len(broadcast)-1])
	assert.T(t, len(s.Levels(sched.Execute)) > 0)
	assert.T(t, len(s.Levels(sched.Cleanup)) > 0)
}

func TestConnectJoinAndShutdownSaves(t *testing.T) {
	w := newTestWorld(t)
	hero := createHero(t)

	conn := proto.NewClientConnection()
	w.Connect(conn)
	conn.Deliver(&proto.JoinRequest{UserID: 7, CharacterName: "Hero"})
	tickUntil(t, w, func() bool { return w.Stores.Player.Len() == 1 })
	w.Tick()

	msgs := conn.TakeOutbound()
	assert.T(t, len(msgs) >= 4, msgs)
	assert.Equal(t, &proto.JoinResponse{Success: true}, msgs[0])

	var player ecs.Entity
	w.Stores.Player.Each(func(e ecs.Entity, _ *comp.Player) { player = e })
	gold, _ := w.Stores.GoldPouch.Get(player)
	assert.Equal(t, uint64(10), gold.Amount)
	gold.Amount = 1234

	w.Shutdown()
	assert.T(t, conn.IsClosed())
	assert.Equal(t, 0, len(w.saving))

	res, err := storage.LoadCharacter(hero.ID).Wait()
	assert.Equal(t, nil, err)
	assert.Equal(t, uint64(1234), res.(*storage.CharacterData).Gold)
}

func TestAutosave(t *testing.T) {
	w := newTestWorld(t)
	hero := createHero(t)

	conn := proto.NewClientConnection()
	w.Connect(conn)
	conn.Deliver(&proto.JoinRequest{UserID: 7, CharacterName: "Hero"})
	tickUntil(t, w, func() bool { return w.Stores.Player.Len() == 1 })

	var player ecs.Entity
	w.Stores.Player.Each(func(e ecs.Entity, _ *comp.Player) { player = e })
	pos, _ := w.Stores.Position.Get(player)
	pos.X = 321

	w.SaveAll()
	tickUntil(t, w, func() bool { return len(w.saving) == 0 })
	res, err := storage.LoadCharacter(hero.ID).Wait()
	assert.Equal(t, nil, err)
	assert.Equal(t, float32(321), res.(*storage.CharacterData).X)
}

func TestSpawnersFromConfig(t *testing.T) {
	w := newTestWorld(t)
	err := w.AddSpawner(&config.SpawnConfig{RefID: 1954, Region: comp.RegionID(168, 96), X: 500, Z: 500, Radius: 30, Amount: 4})
	assert.Equal(t, nil, err)
	err = w.AddSpawner(&config.SpawnConfig{RefID: 999999, Amount: 1})
	assert.T(t, err != nil)

	w.Tick()
	assert.Equal(t, 4, w.Stores.Monster.Len())
	assert.Equal(t, 4, w.Stores.UniqueIndex.Len())
}

func TestRelPath(t *testing.T) {
	assert.Equal(t, "conf/data/items.yaml", relPath("conf/", "data/items.yaml"))
	assert.Equal(t, "/abs/items.yaml", relPath("conf/", "/abs/items.yaml"))
	assert.Equal(t, "data/items.yaml", relPath("", "data/items.yaml"))
}
