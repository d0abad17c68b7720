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

	jis "github.com/dsoprea/go-jpeg-image-structure/v2"
	"gitlab.com/tozd/go/errors"
)

const (
	markerSOI        = 0xD8
	maxSegmentLength = 0xFFFF
)

// 📎 insertJPEGExif stores text as the UserComment of a new APP1 EXIF segment
func insertJPEGExif(encoded []byte, text string) ([]byte, error) {
	if len(encoded) < 2 || encoded[0] != 0xFF || encoded[1] != markerSOI {
		return nil, errors.New("missing jpeg SOI marker")
	}

	tiff, err := tiffExif(text)
	if err != nil {
		return nil, err
	}

	length := 2 + len(exifHeader) + len(tiff)
	if length > maxSegmentLength {
		return nil, errors.Errorf("infotext needs a %d byte exif segment, jpeg allows %d", length, maxSegmentLength)
	}

	mc, err := jis.NewJpegMediaParser().ParseBytes(encoded)
	if err != nil {
		return nil, errors.Errorf("parsing jpeg segments: %w", err)
	}
	sl, ok := mc.(*jis.SegmentList)
	if !ok {
		return nil, errors.Errorf("unexpected jpeg parse result %T", mc)
	}

	rootIb, err := userCommentExif(text)
	if err != nil {
		return nil, err
	}
	if err := sl.SetExif(rootIb); err != nil {
		return nil, errors.Errorf("setting exif segment: %w", err)
	}

	var buf bytes.Buffer
	if err := sl.Write(&buf); err != nil {
		return nil, errors.Errorf("writing jpeg segments: %w", err)
	}
	return buf.Bytes(), nil
}
