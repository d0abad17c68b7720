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
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📂 Resolve turns a file or folder into the files ending in ".from".
//
// A single file must carry the extension (ErrInvalidInput). A folder is
// searched directly, or with "**/*.from" when recursive, and must yield at
// least one match (ErrEmptySet). Anything else is ErrNotFound. Matching is a
// case-sensitive suffix check and the order of the result is unspecified.
func Resolve(path, from string, recursive bool) ([]string, error) {
	path = normalizePath(path)
	from = normalizeExt(from)

	if from == "" || strings.ContainsAny(from, `*?[]{}\/`) {
		return nil, kindf(ErrInvalidInput, nil, `Extension "%s" is not valid`, from)
	}
	suffix := "." + from

	info, err := os.Stat(path)
	if err != nil {
		return nil, kindf(ErrNotFound, err, `Path "%s" does not exist`, path)
	}

	if info.Mode().IsRegular() {
		if !strings.HasSuffix(path, suffix) {
			return nil, kindf(ErrInvalidInput, nil, `File "%s" is not %s`, path, suffix)
		}
		return []string{path}, nil
	}

	if !info.IsDir() {
		return nil, kindf(ErrNotFound, nil, `Path "%s" does not exist`, path)
	}

	var files []string
	if recursive {
		files, err = globRecursive(path, suffix)
	} else {
		files, err = listDir(path, suffix)
	}
	if err != nil {
		return nil, kindf(ErrNotFound, err, `Path "%s" could not be read`, path)
	}

	if len(files) == 0 {
		return nil, kindf(ErrEmptySet, nil, `No "%s" image was found in folder "%s"`, suffix, path)
	}

	return files, nil
}

func globRecursive(root, suffix string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*"+suffix, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing: %w", err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(root, filepath.FromSlash(m)))
	}
	return files, nil
}

func listDir(root, suffix string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		files = append(files, filepath.Join(root, e.Name()))
	}
	return files, nil
}
