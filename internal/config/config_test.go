// Copyright 2025 Skein Authors
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

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skein.io/internal/group"
	"skein.io/internal/identity"
	"skein.io/internal/network"
)

func TestParse(t *testing.T) {
	raw := []byte(`
node:
  no: 7
  name: alpha
groups:
  - name: pinger
    no: 3
  - name: ponger
    no: 4
    restart: always
    termination: manually
    mailboxCapacity: 64
network:
  no: 250
  bind: 0.0.0.0:9400
  peers: ["10.0.0.2:9400", "10.0.0.3:9400"]
`)

	cfg, err := Parse(raw)
	require.NoError(t, err)

	nodeNo, _ := identity.NodeNoFromBits(7)
	want := &Config{
		NodeNo:   7,
		NodeName: "alpha",
		Groups: map[string]Group{
			"pinger": {
				Name:        "pinger",
				No:          3,
				Restart:     group.RestartOnFailures(),
				Termination: group.TerminationClosing(),
			},
			"ponger": {
				Name:            "ponger",
				No:              4,
				Restart:         group.RestartAlways(),
				Termination:     group.TerminationManually(),
				MailboxCapacity: 64,
			},
		},
		Network: &network.Config{
			NodeNo:   nodeNo,
			NodeName: "alpha",
			BindAddr: "0.0.0.0",
			BindPort: 9400,
			Peers:    []string{"10.0.0.2:9400", "10.0.0.3:9400"},
		},
		NetworkGroupNo: 250,
	}

	if diff := cmp.Diff(want, cfg, cmp.AllowUnexported(group.RestartPolicy{}, group.TerminationPolicy{})); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefaultsNodeName(t *testing.T) {
	cfg, err := Parse([]byte("node:\n  no: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "node-3", cfg.NodeName)
	assert.Nil(t, cfg.Network, "a topology without a network section is standalone")
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		desc string
		raw  string
	}{
		{"not yaml", ":\t:"},
		{"zero node number", "node:\n  no: 0\n"},
		{"zero group number", "node:\n  no: 1\ngroups:\n  - name: a\n    no: 0\n"},
		{"empty group name", "node:\n  no: 1\ngroups:\n  - name: \"\"\n    no: 1\n"},
		{"duplicate group name", "node:\n  no: 1\ngroups:\n  - name: a\n    no: 1\n  - name: a\n    no: 2\n"},
		{"duplicate group number", "node:\n  no: 1\ngroups:\n  - name: a\n    no: 1\n  - name: b\n    no: 1\n"},
		{"unknown restart policy", "node:\n  no: 1\ngroups:\n  - name: a\n    no: 1\n    restart: sometimes\n"},
		{"unknown termination policy", "node:\n  no: 1\ngroups:\n  - name: a\n    no: 1\n    termination: eventually\n"},
		{"network reuses group number", "node:\n  no: 1\ngroups:\n  - name: a\n    no: 1\nnetwork:\n  no: 1\n  bind: 0.0.0.0:9400\n"},
		{"network missing port", "node:\n  no: 1\nnetwork:\n  no: 2\n  bind: 0.0.0.0\n"},
		{"bad secret", "node:\n  no: 1\nnetwork:\n  no: 2\n  bind: 0.0.0.0:9400\n  secret: \"****\"\n"},
		{"short secret", "node:\n  no: 1\nnetwork:\n  no: 2\n  bind: 0.0.0.0:9400\n  secret: \"c2hvcnQ=\"\n"},
	}

	for _, c := range cases {
		_, err := Parse([]byte(c.raw))
		assert.Error(t, err, c.desc)
	}
}
