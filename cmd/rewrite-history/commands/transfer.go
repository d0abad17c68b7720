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
	"github.com/walteh/rewrite-history/pkg/log"
	"github.com/walteh/rewrite-history/pkg/migrate"
)

// NewTransferCmd creates the single pair transfer command
func NewTransferCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer SOURCE TARGET",
		Short: "Copy the infotext of one image into another",
		Long: `Transfer reads the infotext embedded in SOURCE and writes it into TARGET,
keeping TARGET's pixels and format. Both files must already exist; TARGET is
left untouched when SOURCE has no infotext.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "transfer").Logger().WithContext(cmd.Context())
			console := log.FromContext(ctx)

			m, err := migrate.New(migrate.Options{Notifier: console, Codec: o.Config.CodecOptions()})
			if err != nil {
				return errors.Errorf("creating migrator: %w", err)
			}

			if err := m.TransferSingle(ctx, migrate.PairRequest{From: args[0], To: args[1]}); err != nil {
				// already reported to the user as a warning
				zerolog.Ctx(ctx).Debug().Err(err).Str("kind", migrate.KindOf(err).String()).Msg("transfer stopped")
			}
			return nil
		},
	}

	return cmd
}
