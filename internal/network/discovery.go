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

package network

import (
	"context"
	stdlog "log"
	"time"

	gokitlog "github.com/go-kit/kit/log"
	"github.com/hashicorp/memberlist"
	"github.com/pkg/errors"

	"skein.io/internal/envelope"
	"skein.io/internal/group"
	"skein.io/internal/util"
)

const leaveTimeout = 1 * time.Second

// discovery tracks cluster membership for this node. It is the
// single-instance actor behind the Discovery key.
type discovery struct {
	ctx        *group.Context[Config, ActorKey]
	memberlist *memberlist.Memberlist
	nodes      *NodeMap
	eventCh    chan memberlist.NodeEvent
}

// runDiscovery is the discovery actor body. The group-level restart
// policy is never, so transient failures are retried here instead of
// through the supervisor.
func runDiscovery(ctx *group.Context[Config, ActorKey]) error {
	for {
		err := runDiscoveryOnce(ctx)
		if err == nil {
			return nil
		}
		ctx.Logger().Log("op", "discovery", "error", util.ErrorChain{Err: err}.String(), "msg", "discovery failed, retrying")
		time.Sleep(restartDelay)
	}
}

const restartDelay = 5 * time.Second

func runDiscoveryOnce(ctx *group.Context[Config, ActorKey]) error {
	d, err := newDiscovery(ctx)
	if err != nil {
		return err
	}
	defer d.shutdown()

	if err := d.join(ctx.Config().Peers); err != nil {
		return err
	}
	return d.main()
}

func newDiscovery(ctx *group.Context[Config, ActorKey]) (*discovery, error) {
	cfg := ctx.Config()

	mconfig := memberlist.DefaultLANConfig()
	mconfig.Name = memberName(cfg.NodeNo, cfg.NodeName)
	mconfig.BindAddr = cfg.BindAddr
	mconfig.BindPort = cfg.BindPort
	mconfig.AdvertisePort = cfg.BindPort
	mconfig.SecretKey = cfg.Secret

	loggerout := gokitlog.NewStdlibAdapter(gokitlog.With(ctx.Logger(), "component", "MemberList"))
	mconfig.Logger = stdlog.New(loggerout, "", stdlog.Lshortfile)

	eventCh := make(chan memberlist.NodeEvent, 16)
	mconfig.Events = &memberlist.ChannelEventDelegate{Ch: eventCh}

	mlist, err := memberlist.Create(mconfig)
	if err != nil {
		return nil, errors.Wrap(err, "creating memberlist")
	}

	return &discovery{
		ctx:        ctx,
		memberlist: mlist,
		nodes:      NewNodeMap(),
		eventCh:    eventCh,
	}, nil
}

func (d *discovery) join(peers []string) error {
	if len(peers) == 0 {
		return nil
	}
	n, err := d.memberlist.Join(peers)
	d.ctx.Logger().Log("op", "startup", "msg", "memberlist join", "joined", n, "error", err)
	if err != nil && n == 0 {
		return errors.Wrap(err, "joining cluster")
	}
	return nil
}

// main watches membership events and the mailbox until Terminate.
func (d *discovery) main() error {
	envs := make(chan *envelope.Envelope)
	recvCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		defer close(envs)
		for {
			env, ok := d.ctx.Recv(recvCtx)
			if !ok {
				return
			}
			envs <- env
		}
	}()

	for {
		select {
		case event := <-d.eventCh:
			d.applyEvent(event)

		case env, ok := <-envs:
			if !ok {
				// Mailbox closed underneath us (closing-policy
				// termination); leave the cluster quietly.
				return nil
			}
			switch msg := env.Message().(type) {
			case group.Terminate:
				d.ctx.Close()
				return nil
			case group.UpdateConfig:
				if cfg, ok := msg.Config.(Config); ok {
					if err := d.join(cfg.Peers); err != nil {
						d.ctx.Logger().Log("op", "update", "error", err, "msg", "joining new peers failed")
					}
				}
			}
		}
	}
}

func (d *discovery) applyEvent(event memberlist.NodeEvent) {
	no, name, ok := parseMemberName(event.Node.Name)
	if !ok {
		d.ctx.Logger().Log("op", "discovery", "member", event.Node.Name, "msg", "ignoring member with malformed name")
		return
	}
	switch event.Event {
	case memberlist.NodeJoin, memberlist.NodeUpdate:
		d.nodes.Upsert(NodeInfo{NodeNo: no, Name: name, Addr: event.Node.Address()})
	case memberlist.NodeLeave:
		d.nodes.Delete(no)
	}
	nodeEvents.Inc()
	memberCount.Set(float64(d.memberlist.NumMembers()))
	d.ctx.Logger().Log("op", "discovery", "node", no.String(), "name", name, "event", eventString(event.Event), "msg", "node event")
}

func eventString(e memberlist.NodeEventType) string {
	return [...]string{"NodeJoin", "NodeLeave", "NodeUpdate"}[e]
}

func (d *discovery) shutdown() {
	err := d.memberlist.Leave(leaveTimeout)
	d.memberlist.Shutdown()
	d.ctx.Logger().Log("op", "shutdown", "msg", "memberlist shut down", "error", err)
}
