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

// 🖼️ ProcessFile converts one image per req and reports what happened.
// Failures are returned inside the Outcome and never affect other files.
func (m *Migrator) ProcessFile(ctx context.Context, path string, req Request) status.Outcome {
	req = req.normalize()
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()

	if err := ctx.Err(); err != nil {
		return status.Outcome{Path: path, Result: status.ResultFailed, Err: err}
	}

	img, err := infotext.Open(path, m.codec.MaxPixels)
	if err != nil {
		logger.Debug().Err(err).Msg("skipping unreadable image")
		return status.Outcome{Path: path, Result: status.ResultFailed, Err: withKind(ErrDecodeFailure, err)}
	}

	text, _ := infotext.Extract(img)
	if text == "" && !req.Force {
		logger.Debug().Msg("skipping image without infotext")
		return status.Outcome{Path: path, Result: status.ResultSkipped}
	}

	out := outputPath(path, req.From, req.To)
	if err := infotext.Embed(img.Pixels, text, out, m.codec); err != nil {
		logger.Debug().Err(err).Str("output", out).Msg("writing output failed")
		if errors.Is(err, infotext.ErrUnsupportedFormat) {
			err = withKind(ErrDecodeFailure, err)
		}
		return status.Outcome{Path: path, Result: status.ResultFailed, Err: err}
	}
	logger.Debug().Str("output", out).Int("infotext_len", len(text)).Msg("image converted")

	outcome := status.Outcome{Path: path, Output: out, Result: status.ResultConverted}
	if req.Delete && out != path {
		if err := status.DeleteFile(path); err != nil {
			logger.Debug().Err(err).Msg("removing source failed")
			outcome.Err = errors.Errorf("removing source: %w", err)
			return outcome
		}
		logger.Debug().Msg("source removed")
		outcome.Deleted = true
	}

	return outcome
}
