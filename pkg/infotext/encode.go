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

package infotext

import (
	"bytes"
	"image"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rewrite-history/pkg/status"
)

// 🔧 Options controls decoding limits and output quality
type Options struct {
	MaxPixels    int  // Largest width*height Open accepts
	JPEGQuality  int  // 1-100
	WebPQuality  int  // 1-100, ignored when lossless
	WebPLossless bool // Encode WebP losslessly
}

// DefaultOptions mirrors the host application's save settings
func DefaultOptions() Options {
	return Options{
		MaxPixels:   DefaultMaxPixels,
		JPEGQuality: 80,
		WebPQuality: 80,
	}
}

var (
	// formats that carry infotext both ways
	writableFormats = []string{"png", "jpg", "jpeg", "webp"}
	// formats that decode but never carry infotext
	decodeOnlyFormats = []string{"gif", "bmp", "tif", "tiff"}
)

func formatName(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// 🔎 CanEncode reports whether Encode can write ext ("jpg", ".webp", "jpeg")
// with infotext embedded
func CanEncode(ext string) bool {
	return slices.Contains(writableFormats, formatName(ext))
}

// 🔎 CanDecode reports whether Open can decode files ending in ext
func CanDecode(ext string) bool {
	name := formatName(ext)
	return slices.Contains(writableFormats, name) || slices.Contains(decodeOnlyFormats, name)
}

// WritableFormats lists the extensions that carry infotext
func WritableFormats() []string {
	return slices.Clone(writableFormats)
}

// DecodeOnlyFormats lists the extensions that decode without infotext
func DecodeOnlyFormats() []string {
	return slices.Clone(decodeOnlyFormats)
}

// 💾 Embed encodes pixels in the format implied by dst's extension with text
// embedded, and atomically replaces dst.
func Embed(pixels image.Image, text, dst string, opts Options) error {
	data, err := Encode(pixels, text, filepath.Ext(dst), opts)
	if err != nil {
		return errors.Errorf("encoding %s: %w", dst, err)
	}

	if err := status.WriteFileAtomic(dst, data, 0o644); err != nil {
		return errors.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

// 🎨 Encode renders pixels as ext ("png", ".jpg", "jpeg", "webp") carrying text
func Encode(pixels image.Image, text, ext string, opts Options) ([]byte, error) {
	name := formatName(ext)
	if name == "webp" {
		return encodeWebP(pixels, text, opts)
	}

	format, err := imaging.FormatFromExtension(name)
	if err != nil {
		return nil, errors.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}

	var buf bytes.Buffer
	switch format {
	case imaging.PNG:
		if err := imaging.Encode(&buf, pixels, imaging.PNG); err != nil {
			return nil, errors.Errorf("encoding png: %w", err)
		}
		return insertPNGText(buf.Bytes(), parametersKey, text)
	case imaging.JPEG:
		if err := imaging.Encode(&buf, opaque(pixels), imaging.JPEG, imaging.JPEGQuality(opts.JPEGQuality)); err != nil {
			return nil, errors.Errorf("encoding jpeg: %w", err)
		}
		return insertJPEGExif(buf.Bytes(), text)
	default:
		return nil, errors.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

func encodeWebP(pixels image.Image, text string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	err := webp.Encode(&buf, pixels, webp.Options{
		Quality:  opts.WebPQuality,
		Lossless: opts.WebPLossless,
		Method:   4,
	})
	if err != nil {
		return nil, errors.Errorf("encoding webp: %w", err)
	}
	tiff, err := tiffExif(text)
	if err != nil {
		return nil, err
	}
	return insertWebPExif(buf.Bytes(), tiff, pixels.Bounds())
}

// opaque drops the alpha channel without compositing, the way an RGBA to RGB
// conversion does before a JPEG save.
func opaque(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}

	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
