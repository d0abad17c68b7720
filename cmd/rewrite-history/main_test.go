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
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/rewrite-history/pkg/infotext"
)

func writeImage(t *testing.T, path, ext, text string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	img.Set(0, 0, color.NRGBA{A: 255})

	opts := infotext.DefaultOptions()
	data, err := infotext.Encode(img, text, ext, opts)
	require.NoError(t, err, "encoding fixture should succeed")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func readText(t *testing.T, path string) string {
	t.Helper()
	img, err := infotext.Open(path, 0)
	require.NoError(t, err, "opening %s should succeed", path)
	text, _ := infotext.Extract(img)
	return text
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	fcolor.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		fcolor.NoColor = false
		pterm.EnableStyling()
	})

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDefaults(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), "png", "prompt a")
	writeImage(t, filepath.Join(dir, "b.png"), "png", "")
	writeImage(t, filepath.Join(dir, "nested", "c.png"), "png", "prompt c")

	out, err := run(t, "convert", dir, "--to", "webp", "--delete=false", "--force=false", "--verbose", "--summary",
		"--config", writeDefaults(t, "concurrency: 2\n"))
	require.NoError(t, err, "convert should succeed")

	assert.Contains(t, out, "Processing 3 files, please hold...")
	assert.Contains(t, out, "Done!")
	assert.Contains(t, out, "Converted 2/3", "summary line should count conversions")
	assert.Contains(t, out, "[migrating "+dir+"]", "verbose should print the batch header")
	assert.Contains(t, out, "Converted", "summary table should have a header")
	assert.Contains(t, out, "skipped", "summary table should list the skipped file")

	assert.Equal(t, "prompt a", readText(t, filepath.Join(dir, "a.webp")))
	assert.Equal(t, "prompt c", readText(t, filepath.Join(dir, "nested", "c.webp")))
	assert.NoFileExists(t, filepath.Join(dir, "b.webp"), "image without infotext should be skipped")
	assert.FileExists(t, filepath.Join(dir, "a.png"), "--delete=false should keep originals")
}

func TestConvertCommandDefaults(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "with.png"), "png", "Steps: 20")
	writeImage(t, filepath.Join(dir, "without.png"), "png", "")

	out, err := run(t, "convert", `"`+dir+`"`)
	require.NoError(t, err, "convert should succeed")
	assert.Contains(t, out, "Processing 2 files, please hold...")

	assert.Equal(t, "Steps: 20", readText(t, filepath.Join(dir, "with.jpg")))
	assert.Equal(t, "", readText(t, filepath.Join(dir, "without.jpg")), "force is on by default")
	assert.NoFileExists(t, filepath.Join(dir, "with.png"), "delete is on by default")
	assert.NoFileExists(t, filepath.Join(dir, "without.png"), "delete is on by default")
}

func TestConvertCommandWarnings(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "photo.jpg"), "jpg", "x")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing_path",
			args: []string{"convert", filepath.Join(dir, "missing")},
			want: `Path "` + filepath.Join(dir, "missing") + `" does not exist`,
		},
		{
			name: "wrong_extension",
			args: []string{"convert", filepath.Join(dir, "photo.jpg")},
			want: `File "` + filepath.Join(dir, "photo.jpg") + `" is not .png`,
		},
		{
			name: "empty_folder",
			args: []string{"convert", dir, "--recursive=false"},
			want: `No ".png" image was found in folder "` + dir + `"`,
		},
		{
			name: "avif_target",
			args: []string{"convert", dir, "--from", "jpg", "--to", "avif"},
			want: `Cannot write infotext into ".avif" images`,
		},
		{
			name: "avif_source",
			args: []string{"convert", dir, "--from", "avif", "--to", "jpg"},
			want: `Cannot read ".avif" images`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err, "warnings should not fail the command")
			assert.Contains(t, out, tt.want, "warning should be printed")
			assert.NotContains(t, out, "Done!", "nothing should be processed")
			assert.FileExists(t, filepath.Join(dir, "photo.jpg"), "no file should be touched")
		})
	}
}

func TestConvertCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "convert", dir, "--to", "gif")
	require.Error(t, err, "unknown target should fail")
	assert.Contains(t, err.Error(), "invalid options")

	_, err = run(t, "convert", dir, "--config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err, "explicit config must exist")
	assert.Contains(t, err.Error(), "loading config")

	_, err = run(t, "convert")
	require.Error(t, err, "path argument is required")
}

func TestTransferCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.png")
	dst := filepath.Join(dir, "target.webp")
	empty := filepath.Join(dir, "empty.png")
	writeImage(t, src, "png", "Seed: 7")
	writeImage(t, dst, "webp", "")
	writeImage(t, empty, "png", "")

	out, err := run(t, "transfer", src, dst)
	require.NoError(t, err, "transfer should succeed")
	assert.Contains(t, out, "Done!")
	assert.Equal(t, "Seed: 7", readText(t, dst), "infotext should be copied")

	before, err := os.ReadFile(src)
	require.NoError(t, err)
	out, err = run(t, "transfer", empty, src)
	require.NoError(t, err, "warnings should not fail the command")
	assert.Contains(t, out, "No Infotext Detected...")
	after, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, before, after, "target should be byte-unchanged")

	out, err = run(t, "transfer", filepath.Join(dir, "nope.png"), dst)
	require.NoError(t, err)
	assert.Contains(t, out, `File "`+filepath.Join(dir, "nope.png")+`" does not exist`)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "🚀 rewrite-history version info:"), "version header should be printed")
	assert.Contains(t, out, "Go:        go", "go version should be printed")
	assert.Contains(t, out, "Infotext:  png, jpg, jpeg, webp", "writable formats should be listed")
	assert.Contains(t, out, "Read only: gif, bmp, tif, tiff", "decode only formats should be listed")

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info), "json output should parse")
	assert.Equal(t, infotext.WritableFormats(), info.Infotext)
	assert.NotEmpty(t, info.GoVersion)
}
