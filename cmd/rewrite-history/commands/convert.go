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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rewrite-history/cmd/rewrite-history/opts"
	"github.com/walteh/rewrite-history/pkg/config"
	"github.com/walteh/rewrite-history/pkg/log"
	"github.com/walteh/rewrite-history/pkg/migrate"
	"github.com/walteh/rewrite-history/pkg/status"
)

type convertFlags struct {
	from        string
	to          string
	concurrency int
	recursive   bool
	delete      bool
	force       bool
	summary     bool
}

// NewConvertCmd creates the batch conversion command
func NewConvertCmd(o *opts.RootOpts) *cobra.Command {
	var flags convertFlags
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "convert PATH",
		Short: "Convert images to another format, keeping their infotext",
		Long: `Convert re-saves every image ending in --from under --to, carrying the
embedded generation parameters forward.

PATH may be a single image or a folder. Images without infotext are skipped
unless --force is set. Flags override the defaults file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "convert").Logger().WithContext(cmd.Context())
			console := log.FromContext(ctx)

			cfg := *o.Config
			applyConvertFlags(cmd, &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("invalid options: %w", err)
			}

			m, err := migrate.New(migrate.Options{Notifier: console, Codec: cfg.CodecOptions()})
			if err != nil {
				return errors.Errorf("creating migrator: %w", err)
			}

			console.Header("migrating infotext")
			report, err := m.RunBatch(ctx, cfg.Request(args[0]))
			if err != nil {
				// already reported to the user as a warning
				zerolog.Ctx(ctx).Debug().Err(err).Str("kind", migrate.KindOf(err).String()).Msg("batch not started")
				return nil
			}

			formatter := status.NewDefaultFileFormatter()
			for _, outcome := range report.Outcomes {
				if outcome.Result == status.ResultFailed {
					zerolog.Ctx(ctx).Debug().Err(outcome.Err).Msg(formatter.FormatOutcome(outcome))
				}
			}

			if o.Verbose {
				console.StartBatchOperation(ctx, log.BatchOperation{
					Root:  args[0],
					From:  cfg.From,
					To:    cfg.To,
					Files: report.Total,
				})
				for _, outcome := range report.Outcomes {
					console.LogFileOperation(ctx, log.FileOperationFromOutcome(outcome, cfg.To))
				}
				console.EndBatchOperation(ctx)
			}

			console.Success(formatter.FormatSummary(report))

			if flags.summary {
				if err := RenderSummary(cmd.OutOrStdout(), report); err != nil {
					return errors.Errorf("rendering summary: %w", err)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.from, "from", defaults.From, "source extension")
	f.StringVar(&flags.to, "to", defaults.To, "target extension")
	f.IntVarP(&flags.concurrency, "concurrency", "j", defaults.Concurrency, "number of images converted at once")
	f.BoolVarP(&flags.recursive, "recursive", "r", defaults.Recursive, "search sub folders")
	f.BoolVar(&flags.delete, "delete", defaults.Delete, "remove the original after a successful conversion")
	f.BoolVarP(&flags.force, "force", "f", defaults.Force, "convert images without infotext too")
	f.BoolVar(&flags.summary, "summary", false, "print a table of every file")

	return cmd
}

// applyConvertFlags overrides cfg with the flags the user actually set
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config, flags convertFlags) {
	f := cmd.Flags()
	if f.Changed("from") {
		cfg.From = flags.from
	}
	if f.Changed("to") {
		cfg.To = flags.to
	}
	if f.Changed("concurrency") {
		cfg.Concurrency = flags.concurrency
	}
	if f.Changed("recursive") {
		cfg.Recursive = flags.recursive
	}
	if f.Changed("delete") {
		cfg.Delete = flags.delete
	}
	if f.Changed("force") {
		cfg.Force = flags.force
	}
}
