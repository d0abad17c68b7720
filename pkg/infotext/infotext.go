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

// Package infotext reads and writes the generation parameters ("infotext")
// that image generators embed into their output files.
//
// PNG files carry the text in a "parameters" text chunk. JPEG and WebP files
// carry it as the EXIF UserComment, UTF-16 encoded behind a "UNICODE" prefix.
package infotext

import (
	"bytes"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"gitlab.com/tozd/go/errors"

	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels is the largest image (width*height) that Open will decode.
// It matches the point where Pillow raises DecompressionBombError.
const DefaultMaxPixels = 2 * 89478485

// parametersKey is the PNG text keyword holding the infotext.
const parametersKey = "parameters"

var (
	// ErrDecompressionBomb is returned when the declared dimensions exceed the pixel limit.
	ErrDecompressionBomb = errors.Base("decompression bomb")
	// ErrUnidentifiedImage is returned when the bytes cannot be decoded as an image.
	ErrUnidentifiedImage = errors.Base("cannot identify image")
	// ErrUnsupportedFormat is returned when a format cannot carry infotext.
	ErrUnsupportedFormat = errors.Base("unsupported format")
)

// 🖼️ Image is a decoded image together with the bytes it was decoded from
type Image struct {
	Pixels image.Image
	Format string // "png", "jpeg", "webp", "gif", "bmp", "tiff"
	Raw    []byte
}

// 📂 Open reads and decodes the image at path
func Open(path string, maxPixels int) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading image: %w", err)
	}

	img, err := Decode(raw, maxPixels)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// 🔍 Decode decodes raw image bytes. The header is checked against maxPixels
// before any pixel data is allocated; maxPixels <= 0 disables the check.
func Decode(raw []byte, maxPixels int) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrUnidentifiedImage, err)
	}

	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, errors.Errorf("%w: %dx%d exceeds %d pixels", ErrDecompressionBomb, cfg.Width, cfg.Height, maxPixels)
	}

	pixels, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrUnidentifiedImage, err)
	}

	return &Image{
		Pixels: pixels,
		Format: format,
		Raw:    raw,
	}, nil
}

// 📖 Extract returns the infotext embedded in img, or "" when there is none.
// For PNG files every other text chunk is returned in the auxiliary map.
func Extract(img *Image) (string, map[string]string) {
	switch img.Format {
	case "png":
		texts := readPNGText(img.Raw)
		text := texts[parametersKey]
		delete(texts, parametersKey)
		return text, texts
	case "jpeg":
		return readUserComment(bytes.NewReader(img.Raw)), nil
	case "webp":
		payload := findWebPChunk(img.Raw, "EXIF")
		if payload == nil {
			return "", nil
		}
		return readUserComment(bytes.NewReader(bytes.TrimPrefix(payload, exifHeader))), nil
	default:
		return "", nil
	}
}
