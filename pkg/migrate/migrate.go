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
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rewrite-history/pkg/infotext"
)

// 📣 Notifier receives the user-facing messages of an operation. Per-file
// skips in batch mode are never reported through it.
type Notifier interface {
	Info(msg string)
	Warning(msg string)
}

// 📝 Request describes one batch conversion
type Request struct {
	Path        string // File or folder
	From        string // Source extension, without the dot
	To          string // Target extension, without the dot
	Concurrency int    // Worker count, clamped to at least 1
	Recursive   bool   // Walk sub folders
	Delete      bool   // Remove the source after a successful write
	Force       bool   // Convert even without infotext
}

// 📝 PairRequest copies the infotext of From into To
type PairRequest struct {
	From string
	To   string
}

// normalize applies the same clean up the host UI does to its text fields
func (r Request) normalize() Request {
	r.Path = normalizePath(r.Path)
	r.From = normalizeExt(r.From)
	r.To = normalizeExt(r.To)
	if r.Concurrency < 1 {
		r.Concurrency = 1
	}
	return r
}

// normalizePath strips whitespace around the quotes as well as inside them
func normalizePath(p string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(p), `"`))
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.TrimSpace(ext), ".")
}

// 🔧 Options contains configuration for the migrator
type Options struct {
	// Notifier receives info and warning messages
	Notifier Notifier
	// Codec controls the pixel limit and output quality; zero means defaults
	Codec infotext.Options
}

// 🎮 Migrator runs batch conversions and single pair transfers
type Migrator struct {
	notifier Notifier
	codec    infotext.Options
}

// 🏭 New creates a new migrator with the given options
func New(opts Options) (*Migrator, error) {
	if opts.Notifier == nil {
		return nil, errors.Errorf("notifier is required")
	}

	codec := opts.Codec
	if codec == (infotext.Options{}) {
		codec = infotext.DefaultOptions()
	}

	return &Migrator{
		notifier: opts.Notifier,
		codec:    codec,
	}, nil
}

// outputPath swaps the trailing ".from" of path for ".to"
func outputPath(path, from, to string) string {
	return strings.TrimSuffix(path, "."+from) + "." + to
}

// poolSize is min(concurrency, files), floor 1
func poolSize(concurrency, files int) int {
	n := concurrency
	if files < n {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

type nopNotifier struct{}

func (nopNotifier) Info(string)    {}
func (nopNotifier) Warning(string) {}

// 🤫 NopNotifier returns a Notifier that discards every message
func NopNotifier() Notifier {
	return nopNotifier{}
}
