package sched

import (
	"time"

	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/gwutils"
)

// Phase is an ordered stage of a tick
type Phase int

const (
	// Input drains client connections and polls async tasks
	Input Phase = iota
	// Transition decides the behavioral mode of entities
	Transition
	// Execute applies the effects of the modes
	Execute
	// Broadcast turns accumulated diffs into client messages
	Broadcast
	// Cleanup clears per tick buffers and removes disconnected entities
	Cleanup

	numPhases
)

var phaseNames = [numPhases]string{"Input", "Transition", "Execute", "Broadcast", "Cleanup"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "Phase?"
	}
	return phaseNames[p]
}

// Access declares what a system touches. Systems of one phase that conflict must be ordered by After.
type Access struct {
	Reads  []ecs.ComponentID
	Writes []ecs.ComponentID
	After  []string // systems of the same phase that must finish first
}

// System is one unit of per tick logic
type System interface {
	Name() string
	Phase() Phase
	Access() Access
	Run(ctx *Context)
}

// FaultHandler is implemented by systems that can put a faulted entity into a safe state
type FaultHandler interface {
	OnEntityFault(ctx *Context, e ecs.Entity, err interface{})
}

// Context is passed to System.Run
type Context struct {
	World    *ecs.World
	Commands *ecs.Commands
	Delta    time.Duration // simulated time of this tick
	Now      time.Duration // simulated time since the schedule started, including this tick
	Tick     uint64
	Faults   int

	system System
}

// Each runs f for entity e, isolating a panic to that entity.
// A faulted entity is logged and handed to the system's FaultHandler; Each then returns false.
func (ctx *Context) Each(e ecs.Entity, f func()) bool {
	err := gwutils.CatchPanic(f)
	if err == nil {
		return true
	}

	ctx.Faults++
	gwlog.TraceError("system %s: %s faulted in tick %d: %v", ctx.system.Name(), e, ctx.Tick, err)
	if fh, ok := ctx.system.(FaultHandler); ok {
		gwutils.RunPanicless(func() {
			fh.OnEntityFault(ctx, e, err)
		})
	}
	return false
}
