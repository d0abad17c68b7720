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

package config

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/rewrite-history/pkg/infotext"
	"github.com/walteh/rewrite-history/pkg/migrate"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes data on top of DefaultConfig and validates the result
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🖼️ Extensions lists the extensions offered for From and To
var Extensions = []string{"png", "jpg", "jpeg", "webp", "avif"}

// 📚 Config represents the defaults of a conversion
type Config struct {
	From         string `json:"from" yaml:"from" hcl:"from,optional"`
	To           string `json:"to" yaml:"to" hcl:"to,optional"`
	Concurrency  int    `json:"concurrency" yaml:"concurrency" hcl:"concurrency,optional"`
	Recursive    bool   `json:"recursive" yaml:"recursive" hcl:"recursive,optional"`
	Delete       bool   `json:"delete" yaml:"delete" hcl:"delete,optional"`
	Force        bool   `json:"force" yaml:"force" hcl:"force,optional"`
	JPEGQuality  int    `json:"jpeg_quality" yaml:"jpeg_quality" hcl:"jpeg_quality,optional"`
	WebPQuality  int    `json:"webp_quality" yaml:"webp_quality" hcl:"webp_quality,optional"`
	WebPLossless bool   `json:"webp_lossless" yaml:"webp_lossless" hcl:"webp_lossless,optional"`
	MaxPixels    int    `json:"max_pixels" yaml:"max_pixels" hcl:"max_pixels,optional"`

	location string
}

// 🏭 DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	codec := infotext.DefaultOptions()
	return &Config{
		From:         "png",
		To:           "jpg",
		Concurrency:  4,
		Recursive:    true,
		Delete:       true,
		Force:        true,
		JPEGQuality:  codec.JPEGQuality,
		WebPQuality:  codec.WebPQuality,
		WebPLossless: codec.WebPLossless,
		MaxPixels:    codec.MaxPixels,
	}
}

// 📍 Location returns the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate normalizes extensions, clamps concurrency and checks ranges
func (cfg *Config) Validate() error {
	var err error
	if cfg.From, err = validateExtension("from", cfg.From); err != nil {
		return err
	}
	if cfg.To, err = validateExtension("to", cfg.To); err != nil {
		return err
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return errors.Errorf("jpeg_quality must be between 1 and 100, got %d", cfg.JPEGQuality)
	}
	if cfg.WebPQuality < 1 || cfg.WebPQuality > 100 {
		return errors.Errorf("webp_quality must be between 1 and 100, got %d", cfg.WebPQuality)
	}
	if cfg.MaxPixels <= 0 {
		return errors.Errorf("max_pixels must be positive, got %d", cfg.MaxPixels)
	}

	return nil
}

func validateExtension(field, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	for _, e := range Extensions {
		if e == ext {
			return ext, nil
		}
	}
	return "", errors.Errorf("%s: unsupported extension %q, expected one of %s", field, ext, strings.Join(Extensions, ", "))
}

// 🎨 CodecOptions returns the encoder settings
func (cfg *Config) CodecOptions() infotext.Options {
	return infotext.Options{
		MaxPixels:    cfg.MaxPixels,
		JPEGQuality:  cfg.JPEGQuality,
		WebPQuality:  cfg.WebPQuality,
		WebPLossless: cfg.WebPLossless,
	}
}

// 📝 Request builds a batch request for path from the defaults
func (cfg *Config) Request(path string) migrate.Request {
	return migrate.Request{
		Path:        path,
		From:        cfg.From,
		To:          cfg.To,
		Concurrency: cfg.Concurrency,
		Recursive:   cfg.Recursive,
		Delete:      cfg.Delete,
		Force:       cfg.Force,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	var flags []string
	if cfg.Recursive {
		flags = append(flags, "recursive")
	}
	if cfg.Delete {
		flags = append(flags, "delete")
	}
	if cfg.Force {
		flags = append(flags, "force")
	}

	s := fmt.Sprintf(".%s -> .%s (concurrency %d", cfg.From, cfg.To, cfg.Concurrency)
	if len(flags) > 0 {
		s += ", " + strings.Join(flags, ", ")
	}
	return s + ")"
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	// an empty document leaves the defaults in place
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
