// Copyright 2025 Skein Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package group turns a declarative description of an actor group —
// router, restart policy, termination policy, an exec body — into a
// Blueprint: a single-use constructor of the live group object. The
// group's config and key types are compile-time parameters of the
// builder; the Blueprint itself is monomorphic.
package group

import (
	"fmt"

	"github.com/go-kit/kit/log"

	"skein.io/internal/book"
	"skein.io/internal/identity"
	"skein.io/internal/object"
	"skein.io/internal/routers"
)

// Terminate asks a group to shut down. How mailboxes behave while
// actors wind down is the group's TerminationPolicy.
type Terminate struct{}

// UpdateConfig announces a validated configuration change.
type UpdateConfig struct {
	Config any
}

type restartMode uint8

const (
	restartOnFailures restartMode = iota
	restartAlways
	restartNever
)

// RestartPolicy is the behaviour on actor termination.
// RestartOnFailures is the default.
type RestartPolicy struct {
	mode restartMode
}

// RestartAlways restarts regardless of how the actor exited.
func RestartAlways() RestartPolicy { return RestartPolicy{mode: restartAlways} }

// RestartOnFailures restarts only actors that exited with an error.
func RestartOnFailures() RestartPolicy { return RestartPolicy{mode: restartOnFailures} }

// RestartNever lets exited actors stay down.
func RestartNever() RestartPolicy { return RestartPolicy{mode: restartNever} }

// ShouldRestart reports whether an actor that exited with err (nil on
// completion) is restarted.
func (p RestartPolicy) ShouldRestart(err error) bool {
	switch p.mode {
	case restartAlways:
		return true
	case restartNever:
		return false
	default:
		return err != nil
	}
}

// TerminationPolicy is the behaviour on the Terminate message.
// TerminationClosing is the default.
type TerminationPolicy struct {
	stopSpawning bool
	closeMailbox bool
}

// TerminationClosing stops spawning and closes mailboxes: new sends
// fail, actors drain what is left and exit.
func TerminationClosing() TerminationPolicy {
	return TerminationPolicy{stopSpawning: true, closeMailbox: true}
}

// TerminationManually stops spawning but keeps mailboxes open; actor
// bodies observe Terminate and close themselves.
func TerminationManually() TerminationPolicy {
	return TerminationPolicy{stopSpawning: true, closeMailbox: false}
}

// ActorGroup accumulates a group's description. New starts it with
// the default policies; the router must be set before Exec.
type ActorGroup[C any, K comparable] struct {
	restart     RestartPolicy
	termination TerminationPolicy
	router      routers.Router[C, K]
}

// New starts describing a group with config type C and router key
// type K.
func New[C any, K comparable]() *ActorGroup[C, K] {
	return &ActorGroup[C, K]{
		restart:     RestartOnFailures(),
		termination: TerminationClosing(),
	}
}

// Router sets the group's router.
func (g *ActorGroup[C, K]) Router(r routers.Router[C, K]) *ActorGroup[C, K] {
	g.router = r
	return g
}

// RestartPolicy overrides the default RestartOnFailures.
func (g *ActorGroup[C, K]) RestartPolicy(p RestartPolicy) *ActorGroup[C, K] {
	g.restart = p
	return g
}

// TerminationPolicy overrides the default TerminationClosing.
func (g *ActorGroup[C, K]) TerminationPolicy(p TerminationPolicy) *ActorGroup[C, K] {
	g.termination = p
	return g
}

// GroupContext is what a Blueprint needs to come alive: the group's
// own address, its validated config, and a logger.
type GroupContext struct {
	Addr    identity.Addr
	GroupNo identity.GroupNo
	Config  any
	Logger  log.Logger
}

// RuntimeManager gives supervisors access to the pieces of the
// runtime they spawn into.
type RuntimeManager struct {
	Book            *book.AddressBook
	Logger          log.Logger
	MailboxCapacity int
}

// Blueprint is a deferred, single-use constructor of a live group
// object.
type Blueprint struct {
	Run func(ctx GroupContext, name string, mgr *RuntimeManager) *object.Object
}

// Exec finishes the description with the actor body and returns the
// Blueprint. The body runs once per routed key; returning nil means
// completed, anything else is a failure consulted by the restart
// policy.
func (g *ActorGroup[C, K]) Exec(exec func(ctx *Context[C, K]) error) Blueprint {
	if g.router == nil {
		panic("group: router must be set before Exec")
	}
	restart, termination, router := g.restart, g.termination, g.router

	run := func(ctx GroupContext, name string, mgr *RuntimeManager) *object.Object {
		cfg, ok := ctx.Config.(C)
		if !ok {
			// Config typing is validated at registration; a mismatch
			// is a wiring bug, not an input error.
			panic(fmt.Sprintf("group %q: config is %T, want %T", name, ctx.Config, cfg))
		}
		sv := newSupervisor[C, K](supervisorOptions[C, K]{
			name:        name,
			group:       ctx.Addr,
			groupNo:     ctx.GroupNo,
			cfg:         cfg,
			router:      router,
			exec:        exec,
			restart:     restart,
			termination: termination,
			mgr:         mgr,
			logger:      log.With(ctx.Logger, "group", name),
		})
		return object.NewGroupObject(ctx.Addr, sv)
	}
	return Blueprint{Run: run}
}
