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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/rewrite-history/pkg/infotext"
	"github.com/walteh/rewrite-history/pkg/status"
)

const sampleInfotext = "a photo of a cat\nNegative prompt: blurry\nSteps: 20, Sampler: Euler a, CFG scale: 7, Seed: 1234, Size: 8x8"

func TestProcessFile(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, src string)
		req         Request
		wantResult  status.Result
		wantKind    Kind
		wantOutput  bool
		wantText    string
		wantDeleted bool
	}{
		{
			name:        "converts_and_deletes",
			setup:       func(t *testing.T, src string) { writePNG(t, src, 8, sampleInfotext) },
			req:         Request{From: "png", To: "jpg", Delete: true},
			wantResult:  status.ResultConverted,
			wantOutput:  true,
			wantText:    sampleInfotext,
			wantDeleted: true,
		},
		{
			name:       "converts_and_keeps_source",
			setup:      func(t *testing.T, src string) { writePNG(t, src, 8, sampleInfotext) },
			req:        Request{From: "png", To: "jpg"},
			wantResult: status.ResultConverted,
			wantOutput: true,
			wantText:   sampleInfotext,
		},
		{
			name:       "skips_without_infotext",
			setup:      func(t *testing.T, src string) { writePNG(t, src, 8, "") },
			req:        Request{From: "png", To: "jpg", Delete: true},
			wantResult: status.ResultSkipped,
		},
		{
			name:        "force_writes_empty_infotext",
			setup:       func(t *testing.T, src string) { writePNG(t, src, 8, "") },
			req:         Request{From: "png", To: "jpg", Delete: true, Force: true},
			wantResult:  status.ResultConverted,
			wantOutput:  true,
			wantText:    "",
			wantDeleted: true,
		},
		{
			name:       "corrupt_image",
			setup:      func(t *testing.T, src string) { writeFile(t, src, "definitely not a png") },
			req:        Request{From: "png", To: "jpg", Delete: true, Force: true},
			wantResult: status.ResultFailed,
			wantKind:   KindDecodeFailure,
		},
		{
			name:       "decompression_bomb",
			setup:      func(t *testing.T, src string) { writePNG(t, src, 16, sampleInfotext) },
			req:        Request{From: "png", To: "jpg", Delete: true},
			wantResult: status.ResultFailed,
			wantKind:   KindDecodeFailure,
		},
		{
			name:       "png_to_png",
			setup:      func(t *testing.T, src string) { writePNG(t, src, 8, "ünïcödé ✓ prompt") },
			req:        Request{From: "png", To: "png"},
			wantResult: status.ResultConverted,
			wantOutput: true,
			wantText:   "ünïcödé ✓ prompt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "image.png")
			tt.setup(t, src)
			before := readBytes(t, src)

			m := newTestMigrator(t, NopNotifier())
			outcome := m.ProcessFile(testContext(t), src, tt.req)

			assert.Equal(t, tt.wantResult, outcome.Result, "result should match")
			assert.Equal(t, src, outcome.Path, "outcome path should be the source")
			assert.Equal(t, tt.wantDeleted, outcome.Deleted, "deleted flag should match")

			if tt.wantKind != KindUnknown {
				require.Error(t, outcome.Err)
				assert.Equal(t, tt.wantKind, KindOf(outcome.Err), "error kind should match")
			} else {
				assert.NoError(t, outcome.Err, "no error expected")
			}

			out := outputPath(src, tt.req.From, tt.req.To)
			if tt.wantOutput {
				assert.Equal(t, out, outcome.Output, "output path should match")
				assert.Equal(t, tt.wantText, readInfotext(t, out), "infotext should be carried over")
			} else if out != src {
				assert.False(t, exists(out), "no output should be written")
			}

			switch {
			case tt.wantDeleted:
				assert.False(t, exists(src), "source should be removed")
			case out != src:
				assert.Equal(t, before, readBytes(t, src), "source should be untouched")
			}
		})
	}
}

func TestProcessFileDecompressionBombCause(t *testing.T) {
	src := filepath.Join(t.TempDir(), "big.png")
	writePNG(t, src, 16, sampleInfotext)

	m := newTestMigrator(t, NopNotifier())
	outcome := m.ProcessFile(testContext(t), src, Request{From: "png", To: "jpg"})

	assert.ErrorIs(t, outcome.Err, infotext.ErrDecompressionBomb, "bomb cause should be kept")
	assert.ErrorIs(t, outcome.Err, ErrDecodeFailure, "bomb should be a decode failure")
}

func TestProcessFileIdempotent(t *testing.T) {
	src := filepath.Join(t.TempDir(), "image.png")
	writePNG(t, src, 8, sampleInfotext)

	m := newTestMigrator(t, NopNotifier())
	req := Request{From: "png", To: "jpg"}

	first := m.ProcessFile(testContext(t), src, req)
	require.Equal(t, status.ResultConverted, first.Result)
	firstBytes := readBytes(t, first.Output)

	second := m.ProcessFile(testContext(t), src, req)
	require.Equal(t, status.ResultConverted, second.Result)
	secondBytes := readBytes(t, second.Output)

	assert.Equal(t, firstBytes, secondBytes, "repeated conversion should produce identical output")
	assert.Equal(t, sampleInfotext, readInfotext(t, second.Output), "infotext should be preserved")
	assert.True(t, exists(src), "source should be kept")
}

func TestProcessFileCancelledContext(t *testing.T) {
	src := filepath.Join(t.TempDir(), "image.png")
	writePNG(t, src, 8, sampleInfotext)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	m := newTestMigrator(t, NopNotifier())
	outcome := m.ProcessFile(ctx, src, Request{From: "png", To: "jpg", Delete: true})

	assert.Equal(t, status.ResultFailed, outcome.Result, "cancelled task should fail")
	assert.ErrorIs(t, outcome.Err, context.Canceled)
	assert.True(t, exists(src), "source should be kept")
}
