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

// Package "config" provides code for parsing and validating
// topology configuration data.
package config

import (
	"encoding/base64"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"skein.io/internal/group"
	"skein.io/internal/identity"
	"skein.io/internal/network"
	skeinv1 "skein.io/pkg/apis/v1"
)

// Group is one parsed and validated actor group declaration.
type Group struct {
	Name            string
	No              uint8
	Restart         group.RestartPolicy
	Termination     group.TerminationPolicy
	MailboxCapacity int
}

// Config is a parsed and validated topology.
type Config struct {
	NodeNo   uint16
	NodeName string

	// Groups to register, by name.
	Groups map[string]Group

	// Network is nil on standalone nodes.
	Network *network.Config
	// NetworkGroupNo is the group number of the networking group.
	NetworkGroupNo uint8
}

// Parse reads a topology YAML document and validates it.
func Parse(data []byte) (*Config, error) {
	var spec skeinv1.TopologySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "parsing topology")
	}

	if spec.Node.No == 0 {
		return nil, errors.New("node number must be 1..65535; 0 means the local node")
	}
	cfg := &Config{
		NodeNo:   spec.Node.No,
		NodeName: spec.Node.Name,
		Groups:   map[string]Group{},
	}
	if cfg.NodeName == "" {
		cfg.NodeName = fmt.Sprintf("node-%d", spec.Node.No)
	}

	seenNos := map[uint8]string{}
	for i, gspec := range spec.Groups {
		g, err := parseGroup(gspec)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing group #%d", i+1)
		}

		// Check that the group isn't already defined
		if _, ok := cfg.Groups[g.Name]; ok {
			return nil, errors.Errorf("duplicate definition of group %q", g.Name)
		}
		if other, ok := seenNos[g.No]; ok {
			return nil, errors.Errorf("group %q reuses number %d of group %q", g.Name, g.No, other)
		}
		seenNos[g.No] = g.Name

		cfg.Groups[g.Name] = g
	}

	if spec.Network != nil {
		net, err := parseNetwork(cfg, *spec.Network, seenNos)
		if err != nil {
			return nil, errors.Wrap(err, "parsing network")
		}
		cfg.Network = net
		cfg.NetworkGroupNo = spec.Network.No
	}

	return cfg, nil
}

func parseGroup(spec skeinv1.GroupSpec) (Group, error) {
	if spec.Name == "" {
		return Group{}, errors.New("group name must not be empty")
	}
	if spec.No == 0 {
		return Group{}, errors.New("group number must be 1..255; 0 is reserved for the null address")
	}

	g := Group{
		Name:            spec.Name,
		No:              spec.No,
		MailboxCapacity: spec.MailboxCapacity,
	}

	switch spec.Restart {
	case "", "on-failures":
		g.Restart = group.RestartOnFailures()
	case "always":
		g.Restart = group.RestartAlways()
	case "never":
		g.Restart = group.RestartNever()
	default:
		return Group{}, errors.Errorf("unknown restart policy %q", spec.Restart)
	}

	switch spec.Termination {
	case "", "closing":
		g.Termination = group.TerminationClosing()
	case "manually":
		g.Termination = group.TerminationManually()
	default:
		return Group{}, errors.Errorf("unknown termination policy %q", spec.Termination)
	}

	return g, nil
}

func parseNetwork(cfg *Config, spec skeinv1.NetworkSpec, seenNos map[uint8]string) (*network.Config, error) {
	if spec.No == 0 {
		return nil, errors.New("network group number must be 1..255")
	}
	if other, ok := seenNos[spec.No]; ok {
		return nil, errors.Errorf("network group reuses number %d of group %q", spec.No, other)
	}

	host, port, err := network.SplitBind(spec.Bind)
	if err != nil {
		return nil, err
	}

	var secret []byte
	if spec.Secret != "" {
		secret, err = base64.StdEncoding.DecodeString(spec.Secret)
		if err != nil {
			return nil, errors.Wrap(err, "decoding secret")
		}
		switch len(secret) {
		case 16, 24, 32:
		default:
			return nil, errors.Errorf("secret must be 16, 24, or 32 bytes, got %d", len(secret))
		}
	}

	nodeNo, ok := identity.NodeNoFromBits(cfg.NodeNo)
	if !ok {
		return nil, errors.New("network requires a nonzero node number")
	}

	return &network.Config{
		NodeNo:   nodeNo,
		NodeName: cfg.NodeName,
		BindAddr: host,
		BindPort: port,
		Peers:    spec.Peers,
		Secret:   secret,
	}, nil
}
