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
	"fmt"
	"io/fs"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rewrite-history/pkg/infotext"
)

// 🏷️ Kind classifies migration failures
type Kind int

const (
	KindUnknown        Kind = iota
	KindNotFound            // Path or required file missing
	KindInvalidInput        // File given with the wrong extension, bad options
	KindEmptySet            // Folder without matching files
	KindDecodeFailure       // Unreadable, corrupt, too large or unsupported image
	KindMetadataAbsent      // No embedded infotext
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidInput:
		return "invalid input"
	case KindEmptySet:
		return "empty set"
	case KindDecodeFailure:
		return "decode failure"
	case KindMetadataAbsent:
		return "metadata absent"
	default:
		return "unknown"
	}
}

var (
	ErrNotFound       = errors.Base("not found")
	ErrInvalidInput   = errors.Base("invalid input")
	ErrEmptySet       = errors.Base("empty set")
	ErrDecodeFailure  = errors.Base("decode failure")
	ErrMetadataAbsent = errors.Base("metadata absent")
)

// kindError tags a user-facing message with a sentinel kind. Error() is the
// message alone so it can be shown to the user as is; the cause stays
// reachable through errors.Is and errors.As.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func withKind(kind, err error) error {
	return &kindError{kind: kind, msg: err.Error(), cause: err}
}

func kindf(kind, cause error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// 🔍 KindOf maps any error returned by this package to its Kind
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrEmptySet):
		return KindEmptySet
	case errors.Is(err, ErrMetadataAbsent):
		return KindMetadataAbsent
	case errors.Is(err, ErrDecodeFailure),
		errors.Is(err, infotext.ErrDecompressionBomb),
		errors.Is(err, infotext.ErrUnidentifiedImage),
		errors.Is(err, infotext.ErrUnsupportedFormat):
		return KindDecodeFailure
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	default:
		return KindUnknown
	}
}
