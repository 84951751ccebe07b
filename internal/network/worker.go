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

	"skein.io/internal/group"
	"skein.io/internal/identity"
)

// OutboundAddr rewrites a local address into the form it takes on the
// wire: tagged with this node's number so the peer can route replies
// back. Null and already-remote addresses pass through unchanged.
func OutboundAddr(addr identity.Addr, localNode identity.NodeNo) identity.Addr {
	return addr.IntoRemote(localNode)
}

// InboundAddr strips the node tag from an address the peer sent us,
// yielding the local form the address book resolves.
func InboundAddr(addr identity.Addr) identity.Addr {
	return addr.IntoLocal()
}

// runWorker is the body of the connection worker for one local/remote
// group pair. It logs each HandleConnection it receives and exits when
// its mailbox closes or on Terminate. No transport session is attached
// to it, so it does not forward envelopes anywhere.
func runWorker(ctx *group.Context[Config, ActorKey]) error {
	key := ctx.Key()
	logger := ctx.Logger()

	sessions.Inc()
	defer sessions.Dec()

	bg := context.Background()
	for {
		env, ok := ctx.Recv(bg)
		if !ok {
			return nil
		}
		switch env.Message().(type) {
		case HandleConnection:
			logger.Log("op", "session", "key", key.String(), "msg", "session established")
		case group.Terminate:
			ctx.Close()
			return nil
		default:
			// Forwarding onto the socket belongs to the codec layer,
			// which is not attached here: every other envelope is
			// logged and dropped, whether or not a HandleConnection
			// came first.
			logger.Log("op", "forward", "key", key.String(), "sender", env.Sender().String(), "msg", "no live session, dropping envelope")
		}
	}
}
