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
	"encoding/binary"
	"image"

	"gitlab.com/tozd/go/errors"
)

// VP8X feature flags
const (
	vp8xAlpha = 0x10
	vp8xExif  = 0x08
)

type riffChunk struct {
	id   string
	data []byte
}

func readWebPChunks(raw []byte) ([]riffChunk, error) {
	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WEBP" {
		return nil, errors.New("missing RIFF/WEBP header")
	}

	var chunks []riffChunk
	for off := 12; off+8 <= len(raw); {
		id := string(raw[off : off+4])
		n := uint64(binary.LittleEndian.Uint32(raw[off+4:]))
		start := off + 8
		if uint64(start)+n > uint64(len(raw)) {
			return nil, errors.Errorf("truncated %s chunk", id)
		}
		end := start + int(n)
		chunks = append(chunks, riffChunk{id: id, data: raw[start:end]})
		off = end + int(n&1)
	}
	return chunks, nil
}

func findWebPChunk(raw []byte, id string) []byte {
	chunks, err := readWebPChunks(raw)
	if err != nil {
		return nil
	}
	for _, c := range chunks {
		if c.id == id {
			return c.data
		}
	}
	return nil
}

func writeWebP(chunks []riffChunk) []byte {
	body := []byte("WEBP")
	for _, c := range chunks {
		body = append(body, c.id...)
		body = binary.LittleEndian.AppendUint32(body, uint32(len(c.data)))
		body = append(body, c.data...)
		if len(c.data)%2 == 1 {
			body = append(body, 0)
		}
	}

	out := make([]byte, 0, 8+len(body))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

// 📎 insertWebPExif rewrites a simple (VP8/VP8L) or extended WebP file into the
// extended layout with an EXIF chunk after the image data.
//
// The alpha flag is only raised for ALPH chunks; VP8L carries its own alpha
// bit and golang.org/x/image/webp rejects VP8L behind a VP8X alpha flag.
func insertWebPExif(encoded, tiff []byte, bounds image.Rectangle) ([]byte, error) {
	chunks, err := readWebPChunks(encoded)
	if err != nil {
		return nil, errors.Errorf("reading webp chunks: %w", err)
	}

	var vp8x []byte
	alpha := false
	out := make([]riffChunk, 0, len(chunks)+2)
	for _, c := range chunks {
		switch c.id {
		case "VP8X":
			vp8x = append([]byte(nil), c.data...)
		case "EXIF":
			// replaced below
		case "ALPH":
			alpha = true
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}

	if len(vp8x) < 10 {
		vp8x = make([]byte, 10)
		putUint24(vp8x[4:], uint32(bounds.Dx()-1))
		putUint24(vp8x[7:], uint32(bounds.Dy()-1))
	}
	if alpha {
		vp8x[0] |= vp8xAlpha
	}
	vp8x[0] |= vp8xExif

	out = append([]riffChunk{{id: "VP8X", data: vp8x}}, out...)
	out = append(out, riffChunk{id: "EXIF", data: tiff})
	return writeWebP(out), nil
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
