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

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skein.io/internal/book"
	"skein.io/internal/config"
	"skein.io/internal/envelope"
	"skein.io/internal/group"
	"skein.io/internal/identity"
	"skein.io/internal/logging"
	"skein.io/internal/network"
	"skein.io/internal/object"
	"skein.io/internal/slab"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logging.Init()

	var (
		configPath = flag.String("config", os.Getenv("SKEIN_CONFIG"), "path to the topology YAML file")
		host       = flag.String("host", os.Getenv("SKEIN_HOST"), "HTTP host address for Prometheus metrics")
		port       = flag.Int("port", 9401, "HTTP listening port for Prometheus metrics")
	)
	flag.Parse()

	if *configPath == "" {
		logging.Info(logger, "op", "startup", "error", "must specify --config or SKEIN_CONFIG", "msg", "missing configuration")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*configPath)
	if err != nil {
		logging.Info(logger, "op", "startup", "error", err, "msg", "failed to read topology")
		os.Exit(1)
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		logging.Info(logger, "op", "startup", "error", err, "msg", "failed to parse topology")
		os.Exit(1)
	}

	stopCh := make(chan struct{})
	go func() {
		c1 := make(chan os.Signal, 1)
		signal.Notify(c1, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
		<-c1
		logging.Info(logger, "op", "shutdown", "msg", "signal received, initiating shutdown")
		signal.Stop(c1)
		close(stopCh)
	}()

	launchID := identity.GenerateLaunchId()
	addressBook := book.New(launchID, slab.New(slab.DefaultConfig()))
	mgr := &group.RuntimeManager{Book: addressBook, Logger: logger}

	logging.Info(logger, "op", "startup", "node", cfg.NodeName, "node-no", cfg.NodeNo, "msg", "runtime assembled")

	// Register the networking group when configured. User groups bind
	// their blueprints through the same call.
	groups := map[string]identity.Addr{}
	if cfg.Network != nil {
		addr, err := register(addressBook, mgr, logger, "network", cfg.NetworkGroupNo, launchID, *cfg.Network, network.New())
		if err != nil {
			logging.Info(logger, "op", "startup", "error", err, "msg", "failed to register network group")
			os.Exit(1)
		}
		groups["network"] = addr
		// Wake discovery up.
		env := envelope.New(group.UpdateConfig{Config: *cfg.Network}, envelope.RegularKind(identity.Null))
		addressBook.Send(addr, env)
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", *host, *port)
		http.Handle("/metrics", promhttp.Handler())
		logging.Info(logger, "op", "startup", "error", http.ListenAndServe(addr, nil), "msg", "metrics server exited")
	}()

	<-stopCh

	for name, addr := range groups {
		terminate(addressBook, addr)
		logging.Info(logger, "op", "shutdown", "group", name, "msg", "terminate sent")
	}
	for name, addr := range groups {
		if !awaitFinished(addressBook, addr, shutdownTimeout) {
			logging.Info(logger, "op", "shutdown", "group", name, "msg", "group did not finish in time")
		}
	}
	logging.Info(logger, "op", "shutdown", "msg", "done")
}

// register builds the group object in place inside the slab, so the
// group's own address exists before the blueprint runs.
func register(b *book.AddressBook, mgr *group.RuntimeManager, logger log.Logger,
	name string, no uint8, launchID identity.NodeLaunchId, cfg any, blueprint group.Blueprint) (identity.Addr, error) {

	groupNo, ok := identity.NewGroupNo(no, launchID)
	if !ok {
		return identity.Null, fmt.Errorf("invalid group number %d", no)
	}
	addr, ok := b.Insert(groupNo, func(addr identity.Addr) *object.Object {
		return blueprint.Run(group.GroupContext{
			Addr:    addr,
			GroupNo: groupNo,
			Config:  cfg,
			Logger:  logger,
		}, name, mgr)
	})
	if !ok {
		return identity.Null, fmt.Errorf("slab is full")
	}
	return addr, nil
}

func terminate(b *book.AddressBook, addr identity.Addr) {
	obj, ok := b.Get(addr)
	if !ok {
		return
	}
	handle, ok := obj.AsGroup()
	if !ok {
		return
	}
	env := envelope.New(group.Terminate{}, envelope.RegularKind(identity.Null))
	handle.Handle(env, object.DeliverVisitor{})
}

func awaitFinished(b *book.AddressBook, addr identity.Addr, timeout time.Duration) bool {
	obj, ok := b.Get(addr)
	if !ok {
		return true
	}
	handle, ok := obj.AsGroup()
	if !ok {
		return true
	}
	select {
	case <-handle.Finished():
		return true
	case <-time.After(timeout):
		return false
	}
}
