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

package group

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/kit/log"

	"skein.io/internal/envelope"
	"skein.io/internal/identity"
	"skein.io/internal/object"
	"skein.io/internal/routers"
	"skein.io/internal/util"
)

// restartBackoff keeps a crash-looping actor from spinning a core.
const restartBackoff = 250 * time.Millisecond

type supervisorOptions[C any, K comparable] struct {
	name        string
	group       identity.Addr
	groupNo     identity.GroupNo
	cfg         C
	router      routers.Router[C, K]
	exec        func(ctx *Context[C, K]) error
	restart     RestartPolicy
	termination TerminationPolicy
	mgr         *RuntimeManager
	logger      log.Logger
}

// supervisor owns the actors of one group: it routes envelopes,
// spawns actors for unseen keys, restarts them per policy, and winds
// the group down on Terminate.
type supervisor[C any, K comparable] struct {
	supervisorOptions[C, K]

	mu           sync.Mutex
	cells        map[K]*cell[C, K]
	stopSpawning bool
	wg           sync.WaitGroup
}

type cell[C any, K comparable] struct {
	addr  identity.Addr
	actor *object.Actor
	obj   *object.Object
}

func newSupervisor[C any, K comparable](opts supervisorOptions[C, K]) *supervisor[C, K] {
	return &supervisor[C, K]{
		supervisorOptions: opts,
		cells:             map[K]*cell[C, K]{},
	}
}

// Handle implements object.GroupHandle.
func (s *supervisor[C, K]) Handle(env *envelope.Envelope, visitor object.GroupVisitor) {
	switch msg := env.Message().(type) {
	case Terminate:
		s.terminate(env, visitor)
		return
	case UpdateConfig:
		if cfg, ok := msg.Config.(C); ok {
			s.router.UpdateConfig(cfg)
		}
	}

	outcome := s.router.Route(env)
	switch outcome.Kind() {
	case routers.KindDiscard:
		dropped.WithLabelValues(s.name).Inc()

	case routers.KindUnicast:
		if c := s.cellFor(outcome.Key(), true); c != nil {
			visitor.Visit(c.obj, env)
		} else {
			visitor.Empty(env)
		}

	case routers.KindMulticast:
		s.fanOut(env, visitor, func() []*cell[C, K] {
			cells := make([]*cell[C, K], 0, len(outcome.Keys()))
			for _, key := range outcome.Keys() {
				if c := s.cellFor(key, true); c != nil {
					cells = append(cells, c)
				}
			}
			return cells
		})

	case routers.KindBroadcast, routers.KindDefault:
		// Default routing delivers to the actors already running and
		// spawns nothing.
		s.fanOut(env, visitor, s.running)
	}
}

// Finished implements object.GroupHandle.
func (s *supervisor[C, K]) Finished() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	return done
}

// fanOut delivers env to each target, duplicating it per extra
// target so request tokens are reissued, not aliased. Targets whose
// duplicate is refused (the requester is gone) are skipped.
func (s *supervisor[C, K]) fanOut(env *envelope.Envelope, visitor object.GroupVisitor, targets func() []*cell[C, K]) {
	cells := targets()
	if len(cells) == 0 {
		visitor.Empty(env)
		return
	}
	for _, c := range cells[1:] {
		dup, ok := env.Duplicate(s.mgr.Book)
		if !ok {
			continue
		}
		visitor.Visit(c.obj, dup)
	}
	visitor.Visit(cells[0].obj, env)
}

func (s *supervisor[C, K]) running() []*cell[C, K] {
	s.mu.Lock()
	defer s.mu.Unlock()
	cells := make([]*cell[C, K], 0, len(s.cells))
	for _, c := range s.cells {
		cells = append(cells, c)
	}
	return cells
}

// cellFor returns the cell for key, spawning it when allowed. nil
// means the key is unknown and spawning is off (or the slab is full).
func (s *supervisor[C, K]) cellFor(key K, spawn bool) *cell[C, K] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cells[key]; ok {
		return c
	}
	if !spawn || s.stopSpawning {
		return nil
	}

	actor := object.NewActor(s.mgr.MailboxCapacity)
	var obj *object.Object
	addr, ok := s.mgr.Book.Insert(s.groupNo, func(addr identity.Addr) *object.Object {
		obj = object.NewActorObject(addr, actor)
		return obj
	})
	if !ok {
		s.logger.Log("op", "spawn", "key", fmt.Sprint(key), "msg", "slab is full, envelope undeliverable")
		return nil
	}

	c := &cell[C, K]{addr: addr, actor: actor, obj: obj}
	s.cells[key] = c
	s.wg.Add(1)
	spawns.WithLabelValues(s.name).Inc()
	go s.runActor(key, c)
	return c
}

func (s *supervisor[C, K]) runActor(key K, c *cell[C, K]) {
	defer func() {
		s.mu.Lock()
		delete(s.cells, key)
		s.mu.Unlock()
		s.mgr.Book.Remove(c.addr)
		s.wg.Done()
	}()

	logger := log.With(s.logger, "key", fmt.Sprint(key), "actor", c.addr.String())
	ctx := &Context[C, K]{
		key:    key,
		cfg:    s.cfg,
		addr:   c.addr,
		group:  s.group,
		actor:  c.actor,
		mgr:    s.mgr,
		logger: logger,
	}

	for {
		err := runExec(s.exec, ctx)
		if err != nil {
			failures.WithLabelValues(s.name).Inc()
			logger.Log("op", "exec", "error", util.ErrorChain{Err: err}.String(), "msg", "actor failed")
		}
		if !s.restart.ShouldRestart(err) || s.stopped() || c.actor.Closed() {
			return
		}
		restarts.WithLabelValues(s.name).Inc()
		time.Sleep(restartBackoff)
	}
}

// runExec converts an actor body panic into a failure so one actor
// cannot take the process down.
func runExec[C any, K comparable](exec func(ctx *Context[C, K]) error, ctx *Context[C, K]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actor panicked: %v", r)
		}
	}()
	return exec(ctx)
}

// terminate applies the termination policy: spawning stops, every
// running actor sees the Terminate envelope, and under the closing
// policy mailboxes stop accepting anything else.
func (s *supervisor[C, K]) terminate(env *envelope.Envelope, visitor object.GroupVisitor) {
	s.mu.Lock()
	s.stopSpawning = true
	cells := make([]*cell[C, K], 0, len(s.cells))
	for _, c := range s.cells {
		cells = append(cells, c)
	}
	s.mu.Unlock()

	if len(cells) == 0 {
		visitor.Empty(env)
		return
	}
	for _, c := range cells[1:] {
		if dup, ok := env.Duplicate(s.mgr.Book); ok {
			visitor.Visit(c.obj, dup)
		}
	}
	visitor.Visit(cells[0].obj, env)

	if s.termination.closeMailbox {
		for _, c := range cells {
			c.actor.Close()
		}
	}
}

func (s *supervisor[C, K]) stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopSpawning
}
