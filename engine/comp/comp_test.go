package comp

import (
	"math"
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/ecs"
)

func TestPositionGlobal(t *testing.T) {
	p := Position{Region: RegionID(168, 96), X: 100, Z: 200}
	assert.Equal(t, uint16(24744), p.Region)
	x, _, z := p.Global()
	assert.Equal(t, float32(168*1920+100), x)
	assert.Equal(t, float32(96*1920+200), z)

	back := PositionFromGlobal(0, x, 0, z, 90)
	assert.Equal(t, p.Region, back.Region)
	assert.Equal(t, float32(100), back.X)
	assert.Equal(t, float32(200), back.Z)
	assert.Equal(t, float32(90), back.Heading)
}

func TestDistanceAcrossRegions(t *testing.T) {
	a := Position{Region: RegionID(10, 10), X: 1900, Z: 50}
	b := Position{Region: RegionID(11, 10), X: 20, Z: 50}
	assert.Equal(t, float32(40), a.DistanceTo(b))

	dungeon := Position{Region: 0x8000 | 3, X: 1900, Z: 50}
	assert.T(t, IsDungeon(dungeon.Region))
	assert.T(t, !a.SameSpace(dungeon))
	assert.T(t, math.IsInf(float64(a.DistanceTo(dungeon)), 1))
	assert.T(t, dungeon.SameSpace(dungeon))
}

func TestMoveTowards(t *testing.T) {
	from := Position{Region: RegionID(10, 10), X: 0, Z: 0}
	to := Position{Region: RegionID(10, 10), X: 30, Z: 40}

	p, arrived := from.MoveTowards(to, 25)
	assert.T(t, !arrived)
	assert.Equal(t, float32(15), p.X)
	assert.Equal(t, float32(20), p.Z)

	p, arrived = p.MoveTowards(to, 25)
	assert.T(t, arrived)
	assert.Equal(t, to.X, p.X)
	assert.Equal(t, to.Z, p.Z)
	assert.Equal(t, HeadingOf(30, 40), p.Heading)
}

func TestUniqueIndexFollowsGameEntity(t *testing.T) {
	w := ecs.NewWorld()
	s := NewStores(w)

	e := w.Spawn()
	s.GameEntity.Insert(e, GameEntity{RefID: 1954, UniqueID: common.UniqueID(77)})
	found, ge, ok := s.Resolve(77)
	assert.T(t, ok)
	assert.Equal(t, e, found)
	assert.Equal(t, uint32(1954), ge.RefID)
	assert.Equal(t, uint32(77), s.UniqueIDOf(e))

	w.Despawn(e)
	_, _, ok = s.Resolve(77)
	assert.T(t, !ok)
	assert.Equal(t, 0, s.UniqueIndex.Len())
	assert.Equal(t, uint32(0), s.UniqueIDOf(e))
}

func TestDisconnectQueueDeduplicates(t *testing.T) {
	w := ecs.NewWorld()
	s := NewStores(w)
	a, b := w.Spawn(), w.Spawn()
	s.Disconnects.Push(a, DisconnectLogout)
	s.Disconnects.Push(b, DisconnectClosed)
	s.Disconnects.Push(a, DisconnectClosed)
	assert.Equal(t, 3, s.Disconnects.Len())

	events := s.Disconnects.Drain()
	assert.Equal(t, []Disconnect{{a, DisconnectLogout}, {b, DisconnectClosed}}, events)
	assert.Equal(t, 0, s.Disconnects.Len())
}

func TestExpiryIndex(t *testing.T) {
	w := ecs.NewWorld()
	s := NewStores(w)
	late, early, claimed := w.Spawn(), w.Spawn(), w.Spawn()
	s.Drop.Insert(late, Drop{Expires: 5 * time.Second})
	s.Drop.Insert(early, Drop{Expires: 2 * time.Second})
	s.Drop.Insert(claimed, Drop{Expires: time.Second})
	assert.Equal(t, 3, s.Expiry.Len())

	w.Despawn(claimed)
	assert.Equal(t, 0, len(s.Expiry.Expired(time.Second)))
	assert.Equal(t, []ecs.Entity{early}, s.Expiry.Expired(3*time.Second))
	assert.Equal(t, []ecs.Entity{early, late}, s.Expiry.Expired(5*time.Second))
}

func TestSynchronizeClear(t *testing.T) {
	var sync Synchronize
	assert.T(t, sync.Empty())
	sync.Despawned = append(sync.Despawned, 3)
	assert.T(t, !sync.Empty())
	sync.Clear()
	assert.T(t, sync.Empty())

	var in PlayerInput
	in.Untarget = true
	assert.T(t, !in.Empty())
	in.Reset()
	assert.T(t, in.Empty())
}
