package entitysync

import (
	"sort"

	"github.com/xiaonanln/go-aoi"
	"github.com/xiaonanln/gwagent/engine/agent"
	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// aoiNode is the broad phase state of one game entity
type aoiNode struct {
	aoi    aoi.AOI
	entity ecs.Entity
	uid    common.UniqueID
	pos    comp.Position
	near   map[ecs.Entity]struct{} // broad phase neighbors
	tick   uint64                  // last tick the entity was seen
	gone   bool
}

func (n *aoiNode) OnEnterAOI(other *aoi.AOI) {
	n.near[other.Data.(*aoiNode).entity] = struct{}{}
}

func (n *aoiNode) OnLeaveAOI(other *aoi.AOI) {
	delete(n.near, other.Data.(*aoiNode).entity)
}

// VisibilitySystem recomputes the visibility set of every player.
// The AOI manager narrows the candidates, the exact distance decides.
// Entities entering a set are spawned on the client right away, ids of leaving ones are
// queued in the Synchronize of the observer.
type VisibilitySystem struct {
	base
	radius float32
	mgr    aoi.AOIManager
	nodes  map[ecs.Entity]*aoiNode
}

func newVisibilitySystem(b base, radius float32) *VisibilitySystem {
	return &VisibilitySystem{
		base:   b,
		radius: radius,
		mgr:    aoi.NewXZListAOIManager(aoi.Coord(radius)),
		nodes:  map[ecs.Entity]*aoiNode{},
	}
}

func (sys *VisibilitySystem) Name() string       { return VisibilitySystemName }
func (sys *VisibilitySystem) Phase() sched.Phase { return sched.Broadcast }

func (sys *VisibilitySystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.GameEntity.ID(), sys.Position.ID(), sys.Agent.ID(), sys.Health.ID(), sys.Dead.ID(),
			sys.Player.ID(), sys.PlayerInventory.ID(), sys.Drop.ID(), sys.Client.ID()),
		Writes: ids(sys.Visibility.ID(), sys.Synchronize.ID()),
	}
}

func (sys *VisibilitySystem) Run(ctx *sched.Context) {
	sys.track(ctx.Tick)
	ecs.Join2(sys.Visibility, sys.Position, func(e ecs.Entity, vis *comp.Visibility, pos *comp.Position) {
		ctx.Each(e, func() {
			sys.observe(e, vis, *pos)
		})
	})
	for e, n := range sys.nodes {
		if n.gone {
			delete(sys.nodes, e)
		}
	}
}

// track moves every game entity in the AOI manager and takes out the ones that left the world
func (sys *VisibilitySystem) track(tick uint64) {
	ecs.Join2(sys.GameEntity, sys.Position, func(e ecs.Entity, ge *comp.GameEntity, pos *comp.Position) {
		x, _, z := pos.Global()
		n := sys.nodes[e]
		if n == nil {
			n = &aoiNode{entity: e, uid: ge.UniqueID, near: map[ecs.Entity]struct{}{}}
			aoi.InitAOI(&n.aoi, aoi.Coord(sys.radius), n, n)
			sys.nodes[e] = n
			n.pos = *pos
			sys.mgr.Enter(&n.aoi, aoi.Coord(x), aoi.Coord(z))
		} else if n.pos != *pos {
			n.pos = *pos
			sys.mgr.Moved(&n.aoi, aoi.Coord(x), aoi.Coord(z))
		}
		n.tick = tick
	})

	for _, n := range sys.nodes {
		if n.tick != tick {
			n.gone = true
			sys.mgr.Leave(&n.aoi)
		}
	}
}

func (sys *VisibilitySystem) visible(observer comp.Position, radius float32, e ecs.Entity) bool {
	n := sys.nodes[e]
	return n != nil && !n.gone && observer.DistanceTo(n.pos) <= radius
}

func (sys *VisibilitySystem) observe(e ecs.Entity, vis *comp.Visibility, pos comp.Position) {
	if vis.InRadius == nil {
		vis.InRadius = map[ecs.Entity]struct{}{}
	}
	if vis.Entered == nil {
		vis.Entered = map[ecs.Entity]struct{}{}
	}
	for other := range vis.Entered {
		delete(vis.Entered, other)
	}

	// the broad phase only finds entities within the radius of the system
	radius := vis.Radius
	if radius <= 0 || radius > sys.radius {
		radius = sys.radius
	}

	var left []common.UniqueID
	for other := range vis.InRadius {
		if !sys.visible(pos, radius, other) {
			delete(vis.InRadius, other)
			if n := sys.nodes[other]; n != nil {
				left = append(left, n.uid)
			}
		}
	}

	var spawns []proto.EntitySpawn
	if self := sys.nodes[e]; self != nil {
		for other := range self.near {
			if other == e {
				continue
			}
			if _, ok := vis.InRadius[other]; ok || !sys.visible(pos, radius, other) {
				continue
			}
			vis.InRadius[other] = struct{}{}
			vis.Entered[other] = struct{}{}
			spawns = append(spawns, sys.spawnOf(other))
		}
	}

	if consts.DEBUG_SYNC && (len(spawns) > 0 || len(left) > 0) {
		gwlog.Debugf("%s: %d entered, %d left, %d visible", e, len(spawns), len(left), len(vis.InRadius))
	}

	if len(left) > 0 {
		sort.Slice(left, func(i, j int) bool { return left[i] < left[j] })
		if sync, ok := sys.Synchronize.Get(e); ok {
			sync.Despawned = append(sync.Despawned, left...)
		}
	}
	sys.sendSpawns(e, spawns)
}

// spawnOf builds the full client state of e
func (sys *VisibilitySystem) spawnOf(e ecs.Entity) proto.EntitySpawn {
	n := sys.nodes[e]
	s := proto.EntitySpawn{
		Kind:     proto.SpawnMonster,
		UniqueID: uint32(n.uid),
		Position: n.pos.EntityPosition(),
		Dead:     sys.Dead.Has(e),
	}
	if ge, ok := sys.GameEntity.Get(e); ok {
		s.RefID = ge.RefID
	}
	if a, ok := sys.Agent.Get(e); ok && a.Moving {
		s.Moving = true
		s.Destination = a.Destination.Location()
	}
	if hp, ok := sys.Health.Get(e); ok {
		s.HP, s.MaxHP = hp.HP, hp.MaxHP
	}

	if player, ok := sys.Player.Get(e); ok {
		s.Kind = proto.SpawnPlayer
		s.Name = player.Name
		if inv, ok := sys.PlayerInventory.Get(e); ok {
			s.Equipment = agent.Equipment(inv.Inventory)
		}
	} else if drop, ok := sys.Drop.Get(e); ok {
		s.Kind = proto.SpawnItem
		if drop.Item.IsGold() {
			s.Amount = drop.Item.TypeData.Amount
		} else {
			s.Amount = uint64(drop.Item.Count())
		}
	}
	return s
}

// sendSpawns sends a single spawn as is and more of them in a group
func (sys *VisibilitySystem) sendSpawns(e ecs.Entity, spawns []proto.EntitySpawn) {
	switch len(spawns) {
	case 0:
		return
	case 1:
		sys.send(e, &spawns[0])
		return
	}

	sort.Slice(spawns, func(i, j int) bool { return spawns[i].UniqueID < spawns[j].UniqueID })
	sys.send(e, &proto.GroupSpawnStart{Kind: proto.GroupSpawn, Count: uint16(len(spawns))})
	sys.send(e, &proto.GroupSpawnData{Spawns: spawns})
	sys.send(e, &proto.GroupSpawnEnd{})
}
