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
	"compress/zlib"
	"io"
	"unicode/utf8"

	pis "github.com/dsoprea/go-png-image-structure/v2"
	"gitlab.com/tozd/go/errors"
)

// readPNGChunks parses the chunk list of a PNG file
func readPNGChunks(raw []byte) ([]*pis.Chunk, error) {
	mc, err := pis.NewPngMediaParser().ParseBytes(raw)
	if err != nil {
		return nil, errors.Errorf("parsing png chunks: %w", err)
	}
	cs, ok := mc.(*pis.ChunkSlice)
	if !ok {
		return nil, errors.Errorf("unexpected png parse result %T", mc)
	}
	return cs.Chunks(), nil
}

// readPNGText collects tEXt, zTXt and iTXt chunks. The first chunk for a
// keyword wins; malformed chunks are ignored.
func readPNGText(raw []byte) map[string]string {
	texts := make(map[string]string)

	chunks, err := readPNGChunks(raw)
	if err != nil {
		return texts
	}

	for _, c := range chunks {
		var key, value string
		var ok bool
		switch c.Type {
		case "tEXt":
			key, value, ok = parseTEXt(c.Data)
		case "zTXt":
			key, value, ok = parseZTXt(c.Data)
		case "iTXt":
			key, value, ok = parseITXt(c.Data)
		default:
			continue
		}
		if !ok {
			continue
		}
		if _, seen := texts[key]; !seen {
			texts[key] = value
		}
	}
	return texts
}

func parseTEXt(data []byte) (string, string, bool) {
	key, rest, ok := bytes.Cut(data, []byte{0})
	if !ok {
		return "", "", false
	}
	return latin1(key), latin1(rest), true
}

func parseZTXt(data []byte) (string, string, bool) {
	key, rest, ok := bytes.Cut(data, []byte{0})
	if !ok || len(rest) < 1 || rest[0] != 0 {
		return "", "", false
	}
	text, err := inflate(rest[1:])
	if err != nil {
		return "", "", false
	}
	return latin1(key), latin1(text), true
}

func parseITXt(data []byte) (string, string, bool) {
	key, rest, ok := bytes.Cut(data, []byte{0})
	if !ok || len(rest) < 2 {
		return "", "", false
	}
	compressed := rest[0] == 1
	rest = rest[2:]

	// language tag, then translated keyword
	for i := 0; i < 2; i++ {
		if _, rest, ok = bytes.Cut(rest, []byte{0}); !ok {
			return "", "", false
		}
	}

	if compressed {
		text, err := inflate(rest)
		if err != nil {
			return "", "", false
		}
		rest = text
	}
	return latin1(key), string(rest), true
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("opening zlib stream: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("inflating: %w", err)
	}
	return out, nil
}

func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// encodeLatin1 reports false when s has characters outside Latin-1
func encodeLatin1(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff || r == utf8.RuneError {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

// 📝 insertPNGText adds a text chunk right after IHDR. Latin-1 text is written
// as tEXt, anything else as uncompressed iTXt.
func insertPNGText(encoded []byte, key, text string) ([]byte, error) {
	if value, ok := encodeLatin1(text); ok {
		data := append([]byte(key), 0)
		return insertPNGChunk(encoded, "tEXt", append(data, value...))
	}
	data := append([]byte(key), 0, 0, 0, 0, 0)
	return insertPNGChunk(encoded, "iTXt", append(data, text...))
}

func insertPNGChunk(encoded []byte, typ string, data []byte) ([]byte, error) {
	chunks, err := readPNGChunks(encoded)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 || chunks[0].Type != "IHDR" {
		return nil, errors.New("png does not start with IHDR")
	}

	chunk := &pis.Chunk{
		Type:   typ,
		Data:   data,
		Length: uint32(len(data)),
	}
	chunk.UpdateCrc32()

	out := make([]*pis.Chunk, 0, len(chunks)+1)
	out = append(out, chunks[0], chunk)
	out = append(out, chunks[1:]...)

	var buf bytes.Buffer
	if err := pis.NewChunkSlice(out).WriteTo(&buf); err != nil {
		return nil, errors.Errorf("writing png chunks: %w", err)
	}
	return buf.Bytes(), nil
}
