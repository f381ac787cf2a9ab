package sched

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/gwutils"
	"github.com/xiaonanln/gwagent/engine/opmon"
)

type node struct {
	sys    System
	order  int
	reads  map[ecs.ComponentID]bool
	writes map[ecs.ComponentID]bool
	after  []*node
	level  int
	cmds   ecs.Commands
	ctx    Context
}

func (n *node) conflictsWith(o *node) (ecs.ComponentID, bool) {
	for id := range n.writes {
		if o.writes[id] || o.reads[id] {
			return id, true
		}
	}
	for id := range o.writes {
		if n.reads[id] {
			return id, true
		}
	}
	return 0, false
}

// Builder validates systems into a Schedule
type Builder struct {
	world   *ecs.World
	systems []System
}

// NewBuilder creates a schedule builder for the world
func NewBuilder(world *ecs.World) *Builder {
	return &Builder{world: world}
}

// Add adds systems; registration order decides the order commands are applied within a phase
func (b *Builder) Add(systems ...System) *Builder {
	b.systems = append(b.systems, systems...)
	return b
}

// Build checks names, ordering and access conflicts, and computes the parallel levels of every phase
func (b *Builder) Build() (*Schedule, error) {
	s := &Schedule{world: b.world}
	byName := map[string]*node{}
	for i, sys := range b.systems {
		if sys.Phase() < 0 || sys.Phase() >= numPhases {
			return nil, errors.Errorf("system %s: invalid phase %d", sys.Name(), sys.Phase())
		}
		if _, ok := byName[sys.Name()]; ok {
			return nil, errors.Errorf("system %s registered twice", sys.Name())
		}
		acc := sys.Access()
		n := &node{
			sys:    sys,
			order:  i,
			reads:  map[ecs.ComponentID]bool{},
			writes: map[ecs.ComponentID]bool{},
		}
		for _, id := range acc.Reads {
			n.reads[id] = true
		}
		for _, id := range acc.Writes {
			n.writes[id] = true
		}
		byName[sys.Name()] = n
		s.phases[sys.Phase()] = append(s.phases[sys.Phase()], n)
	}

	for _, n := range byName {
		for _, dep := range n.sys.Access().After {
			d, ok := byName[dep]
			if !ok {
				return nil, errors.Errorf("system %s: runs after unknown system %s", n.sys.Name(), dep)
			}
			if d.sys.Phase() != n.sys.Phase() {
				return nil, errors.Errorf("system %s: runs after %s of phase %s", n.sys.Name(), dep, d.sys.Phase())
			}
			n.after = append(n.after, d)
		}
	}

	for phase := Phase(0); phase < numPhases; phase++ {
		if err := s.buildPhase(phase); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schedule) buildPhase(phase Phase) error {
	nodes := s.phases[phase]
	const (
		unvisited = iota
		visiting
		visited
	)
	state := map[*node]int{}
	var visit func(n *node) error
	visit = func(n *node) error {
		switch state[n] {
		case visiting:
			return errors.Errorf("phase %s: ordering cycle through %s", phase, n.sys.Name())
		case visited:
			return nil
		}
		state[n] = visiting
		n.level = 0
		for _, d := range n.after {
			if err := visit(d); err != nil {
				return err
			}
			if d.level+1 > n.level {
				n.level = d.level + 1
			}
		}
		state[n] = visited
		return nil
	}
	for _, n := range nodes {
		if err := visit(n); err != nil {
			return err
		}
	}

	reach := map[*node]map[*node]bool{}
	var ancestors func(n *node) map[*node]bool
	ancestors = func(n *node) map[*node]bool {
		if r, ok := reach[n]; ok {
			return r
		}
		r := map[*node]bool{}
		for _, d := range n.after {
			r[d] = true
			for a := range ancestors(d) {
				r[a] = true
			}
		}
		reach[n] = r
		return r
	}

	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			id, conflict := a.conflictsWith(b)
			if !conflict || ancestors(a)[b] || ancestors(b)[a] {
				continue
			}
			return errors.Errorf("phase %s: systems %s and %s both access %s without ordering",
				phase, a.sys.Name(), b.sys.Name(), s.world.ComponentName(id))
		}
	}

	var levels [][]*node
	for _, n := range nodes {
		for len(levels) <= n.level {
			levels = append(levels, nil)
		}
		levels[n.level] = append(levels[n.level], n)
	}
	s.levels[phase] = levels
	return nil
}

// Schedule runs the systems of every phase in order
type Schedule struct {
	world  *ecs.World
	phases [numPhases][]*node
	levels [numPhases][][]*node
	tick   uint64
	now    time.Duration
}

// Levels returns the names of the systems of a phase grouped by parallel level
func (s *Schedule) Levels(phase Phase) [][]string {
	var res [][]string
	for _, level := range s.levels[phase] {
		var names []string
		for _, n := range level {
			names = append(names, n.sys.Name())
		}
		res = append(res, names)
	}
	return res
}

// TickCount returns the number of ticks run
func (s *Schedule) TickCount() uint64 {
	return s.tick
}

// Now returns the simulated time
func (s *Schedule) Now() time.Duration {
	return s.now
}

// Tick advances the simulation by dt
func (s *Schedule) Tick(dt time.Duration) {
	s.tick++
	s.now += dt
	for phase := Phase(0); phase < numPhases; phase++ {
		s.runPhase(phase, dt)
	}
}

func (s *Schedule) runPhase(phase Phase, dt time.Duration) {
	s.world.Lock()
	for _, level := range s.levels[phase] {
		if len(level) == 1 {
			s.runSystem(level[0], dt)
			continue
		}

		var wait sync.WaitGroup
		for _, n := range level {
			wait.Add(1)
			go func(n *node) {
				defer wait.Done()
				s.runSystem(n, dt)
			}(n)
		}
		wait.Wait()
	}
	s.world.Unlock()

	for _, n := range s.phases[phase] {
		s.world.Apply(&n.cmds)
	}
}

func (s *Schedule) runSystem(n *node, dt time.Duration) {
	n.ctx = Context{
		World:    s.world,
		Commands: &n.cmds,
		Delta:    dt,
		Now:      s.now,
		Tick:     s.tick,
		system:   n.sys,
	}
	op := opmon.StartOperation(n.sys.Name())
	if gwutils.RunPanicless(func() {
		n.sys.Run(&n.ctx)
	}) {
		gwlog.Errorf("system %s panicked in tick %d", n.sys.Name(), s.tick)
	}
	op.Finish(consts.SYSTEM_WARN_THRESHOLD)
}
