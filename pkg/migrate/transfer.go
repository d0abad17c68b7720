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

package migrate

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rewrite-history/pkg/infotext"
	"github.com/walteh/rewrite-history/pkg/status"
)

// 🔁 TransferSingle copies the infotext of req.From into req.To, keeping
// To's pixels and format. Every failure is warned and returned; To is only
// rewritten once everything else has succeeded.
func (m *Migrator) TransferSingle(ctx context.Context, req PairRequest) error {
	from := normalizePath(req.From)
	to := normalizePath(req.To)
	logger := zerolog.Ctx(ctx).With().Str("from", from).Str("to", to).Logger()

	for _, p := range []string{from, to} {
		ok, err := status.IsFile(p)
		if err != nil || !ok {
			return m.warn(kindf(ErrNotFound, err, `File "%s" does not exist`, p))
		}
	}

	src, err := m.open(from)
	if err != nil {
		return err
	}

	dst, err := m.open(to)
	if err != nil {
		return err
	}

	text, _ := infotext.Extract(src)
	if text == "" {
		return m.warn(kindf(ErrMetadataAbsent, nil, "No Infotext Detected..."))
	}

	if !infotext.CanEncode(dst.Format) {
		return m.warn(kindf(ErrInvalidInput, nil, `Cannot write infotext into "%s" images`, dst.Format))
	}

	data, err := infotext.Encode(dst.Pixels, text, dst.Format, m.codec)
	if err != nil {
		logger.Debug().Err(err).Msg("encoding target failed")
		return m.warn(kindf(ErrDecodeFailure, err, "Failed to write Image..."))
	}

	if err := status.WriteFileAtomic(to, data, 0o644); err != nil {
		return m.warn(errors.Errorf("Failed to write Image: %w", err))
	}

	logger.Debug().Str("format", dst.Format).Int("infotext_len", len(text)).Msg("infotext transferred")
	m.notifier.Info("Done!")
	return nil
}

// open decodes path and turns codec errors into the transfer warnings
func (m *Migrator) open(path string) (*infotext.Image, error) {
	img, err := infotext.Open(path, m.codec.MaxPixels)
	if err == nil {
		return img, nil
	}

	if errors.Is(err, infotext.ErrDecompressionBomb) {
		return nil, m.warn(kindf(ErrDecodeFailure, err, "Skipping due to DecompressionBombError..."))
	}
	return nil, m.warn(kindf(ErrDecodeFailure, err, "Failed to read Image..."))
}

// warn reports err to the notifier and returns it
func (m *Migrator) warn(err error) error {
	m.notifier.Warning(err.Error())
	return err
}
