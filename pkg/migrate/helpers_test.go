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
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/walteh/rewrite-history/pkg/infotext"
)

// 🔧 MockNotifier is a mock implementation of the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Info(msg string) {
	m.Called(msg)
}

func (m *MockNotifier) Warning(msg string) {
	m.Called(msg)
}

// testCodec keeps fixtures small: 8x8 images decode, 16x16 images trip the bomb guard
func testCodec() infotext.Options {
	opts := infotext.DefaultOptions()
	opts.MaxPixels = 100
	return opts
}

func newTestMigrator(t *testing.T, n Notifier) *Migrator {
	t.Helper()
	m, err := New(Options{Notifier: n, Codec: testCodec()})
	require.NoError(t, err, "creating migrator should succeed")
	return m
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func testPixels(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

// writePNG writes a size x size png, embedding text unless it is empty
func writePNG(t *testing.T, path string, size int, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	var data []byte
	if text == "" {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, testPixels(size)))
		data = buf.Bytes()
	} else {
		var err error
		data, err = infotext.Encode(testPixels(size), text, "png", infotext.DefaultOptions())
		require.NoError(t, err, "encoding fixture should succeed")
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func writeJPEG(t *testing.T, path string, size int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testPixels(size), nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeGIF(t *testing.T, path string, size int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testPixels(size), nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readInfotext(t *testing.T, path string) string {
	t.Helper()
	img, err := infotext.Open(path, 0)
	require.NoError(t, err, "opening %s should succeed", path)
	text, _ := infotext.Extract(img)
	return text
}

func readBytes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s should succeed", path)
	return data
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
