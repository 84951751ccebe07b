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
	"net"
	"strconv"

	"github.com/pkg/errors"

	"skein.io/internal/identity"
)

// Config is the network group's validated configuration.
type Config struct {
	// NodeNo is this node's number as announced to peers.
	NodeNo identity.NodeNo
	// NodeName is the human-readable name used in discovery.
	NodeName string
	// BindAddr and BindPort are where discovery gossip listens.
	BindAddr string
	BindPort int
	// Peers are host:port addresses joined at startup.
	Peers []string
	// Secret, when non-empty, authenticates and encrypts gossip.
	Secret []byte
}

// SplitBind parses a host:port bind string.
func SplitBind(bind string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(bind)
	if err != nil {
		return "", 0, errors.Wrap(err, "parsing bind address")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, errors.Errorf("invalid bind port %q", portStr)
	}
	return host, port, nil
}
