// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/viper"
)

// SetupLogging configures the process-wide zerolog logger from the
// log.* configuration keys: level, output destination, pretty printing,
// and caller reporting. An unknown level falls back to warn so a typo
// in the config never silences the server outright.
func SetupLogging() {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log.level")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Info().Str("Level", level.String()).Msg("logging level set")

	if viper.GetBool("log.report_caller") {
		log.Logger = log.With().Caller().Logger()
	}

	log.Logger = log.Output(logDestination(viper.GetString("log.output")))

	// render pkg/errors stack traces on Stack() events
	//nolint:reassign
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// logDestination resolves log.output: stdout, stderr, or a file path
// opened for append. Pretty printing applies to the console writers
// only; file output stays structured.
func logDestination(output string) io.Writer {
	var w io.Writer
	switch output {
	case "stderr":
		w = os.Stderr
	case "stdout", "":
		w = os.Stdout
	default:
		fh, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			panic(err)
		}
		return fh
	}

	if viper.GetBool("log.pretty") {
		return zerolog.ConsoleWriter{Out: w}
	}
	return w
}
