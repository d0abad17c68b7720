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
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	exifundefined "github.com/dsoprea/go-exif/v3/undefined"
	goexif "github.com/rwcarlsen/goexif/exif"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding/unicode"
)

var (
	exifHeader = []byte("Exif\x00\x00")

	unicodePrefix = []byte("UNICODE\x00")
	asciiPrefix   = []byte("ASCII\x00\x00\x00")

	// UNICODE comments are big endian unless they open with a little endian BOM
	utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
)

// readUserComment decodes the EXIF UserComment from a JPEG stream, a raw
// TIFF block or an "Exif\0\0" block. Missing or unreadable EXIF yields "".
func readUserComment(r io.Reader) string {
	x, err := goexif.Decode(r)
	if x == nil || (err != nil && goexif.IsCriticalError(err)) {
		return ""
	}

	tag, err := x.Get(goexif.UserComment)
	if err != nil {
		return ""
	}
	return decodeUserComment(tag.Val)
}

func decodeUserComment(b []byte) string {
	if len(b) < 8 {
		return ""
	}

	prefix, body := b[:8], b[8:]
	var text string
	switch {
	case bytes.Equal(prefix, unicodePrefix):
		text = decodeUTF16(body)
	case bytes.Equal(prefix, asciiPrefix):
		text = string(body)
	default:
		// undefined (all zero) or JIS; treated as UTF-8
		text = string(body)
	}
	return strings.TrimRight(text, "\x00")
}

func decodeUTF16(b []byte) string {
	b = b[:len(b)&^1]

	enc := utf16BE
	if bytes.HasPrefix(b, []byte{0xFF, 0xFE}) {
		enc = utf16LE
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// 🏗️ userCommentExif builds an IFD0 -> Exif IFD tree holding only the
// UserComment, stored as UTF-16BE behind the UNICODE charset prefix
func userCommentExif(text string) (*exif.IfdBuilder, error) {
	body, err := utf16BE.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, errors.Errorf("encoding user comment: %w", err)
	}

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, errors.Errorf("loading ifd mapping: %w", err)
	}

	rootIb := exif.NewIfdBuilder(im, exif.NewTagIndex(), exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)

	exifIb, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/Exif")
	if err != nil {
		return nil, errors.Errorf("creating exif ifd: %w", err)
	}

	comment := exifundefined.Tag9286UserComment{
		EncodingType:  exifundefined.TagUndefinedType_9286_UserComment_Encoding_UNICODE,
		EncodingBytes: body,
	}
	if err := exifIb.AddStandardWithName("UserComment", comment); err != nil {
		return nil, errors.Errorf("adding user comment: %w", err)
	}
	return rootIb, nil
}

// tiffExif serializes userCommentExif(text) as a bare TIFF block
func tiffExif(text string) ([]byte, error) {
	rootIb, err := userCommentExif(text)
	if err != nil {
		return nil, err
	}

	tiff, err := exif.NewIfdByteEncoder().EncodeToExif(rootIb)
	if err != nil {
		return nil, errors.Errorf("encoding exif: %w", err)
	}
	return tiff, nil
}
