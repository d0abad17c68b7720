// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rewrite-history/cmd/rewrite-history/commands"
	"github.com/walteh/rewrite-history/cmd/rewrite-history/opts"
	"github.com/walteh/rewrite-history/pkg/config"
	"github.com/walteh/rewrite-history/pkg/log"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
	verbose    bool
}

// newRootCmd wires the commands to a RootOpts that is filled in once flags
// have been parsed
func newRootCmd() *cobra.Command {
	var flags rootFlags
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "rewrite-history",
		Short: "Convert generated images between formats without losing their infotext",
		Long: `rewrite-history re-saves images (png, jpg, jpeg, webp) under a new format
while carrying the embedded generation parameters forward, and copies those
parameters from one image into another.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(cmd.ErrOrStderr(), flags.debug)

			mirror := zerolog.Nop()
			if flags.debug {
				mirror = logger
			}

			ctx := logger.WithContext(cmd.Context())
			ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), mirror))
			cmd.SetContext(ctx)

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			o.Config = cfg
			o.Verbose = flags.verbose
			return nil
		},
	}

	addRootFlags(rootCmd, &flags)

	rootCmd.AddCommand(
		commands.NewConvertCmd(o),
		commands.NewTransferCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", config.DefaultPath, "defaults file (.yaml, .yml, .hcl or .json)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print one line per file")
}

// loadConfig requires the defaults file only when --config was given
func loadConfig(cmd *cobra.Command, flags rootFlags) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(cmd.Context(), flags.configFile)
	}
	return config.LoadOrDefault(cmd.Context(), flags.configFile)
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}
