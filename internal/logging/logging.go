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

// Package logging sets up structured logging in a uniform way.
package logging

import (
	"os"
	"strings"

	"github.com/go-kit/kit/log"
)

// Provided by ldflags during build
var (
	release string
	commit  string
	branch  string
)

// Init returns a logger configured with common settings like
// timestamping and source code locations.
//
// Init should be called as early as possible in main(), before any
// application-specific logging occurs.
func Init() log.Logger {
	l := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	l = &filterLogger{downstream: l}

	logger := log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	logger.Log("release", release, "commit", commit, "git-branch", branch, "msg", "Starting")

	return logger
}

// Info logs keyvals at the default level, ignoring write errors: by
// the time stdout fails there is nowhere left to report it.
func Info(logger log.Logger, keyvals ...interface{}) {
	_ = logger.Log(keyvals...)
}

type filterLogger struct {
	downstream log.Logger
}

// Log implements the gokit logging Log() function. This version looks
// for memberlist DEBUG-level messages and sends them to the bit
// bucket. They're much more annoying than they are useful.
func (l *filterLogger) Log(keyvals ...interface{}) error {
	for i, arg := range keyvals {
		str, ok := arg.(string)

		// look for the "msg" key - the next item will contain the message
		// from memberlist
		if ok && str == "msg" && i+1 < len(keyvals) {
			message, ok := keyvals[i+1].(string)

			// if the message is a memberlist DEBUG message then we don't
			// want to see it
			if ok && strings.Contains(message, "[DEBUG] memberlist: ") {
				return nil
			}
		}
	}

	// it's *not* a memberlist DEBUG message so pass it through
	return l.downstream.Log(keyvals...)
}
