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
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/rewrite-history/pkg/infotext"
	"github.com/walteh/rewrite-history/pkg/status"
)

// 🚀 RunBatch resolves req.Path and converts every matching file on a pool
// of req.Concurrency workers.
//
// Resolve failures and unsupported source or target formats are warned through the
// Notifier and returned before any file is touched. Otherwise the batch
// always completes: per-file skips and failures only show up in the Report.
func (m *Migrator) RunBatch(ctx context.Context, req Request) (*status.Report, error) {
	req = req.normalize()
	logger := zerolog.Ctx(ctx)

	if !infotext.CanDecode(req.From) {
		err := kindf(ErrInvalidInput, nil, `Cannot read ".%s" images`, req.From)
		m.notifier.Warning(err.Error())
		return nil, err
	}

	if !infotext.CanEncode(req.To) {
		err := kindf(ErrInvalidInput, nil, `Cannot write infotext into ".%s" images`, req.To)
		m.notifier.Warning(err.Error())
		return nil, err
	}

	files, err := Resolve(req.Path, req.From, req.Recursive)
	if err != nil {
		m.notifier.Warning(err.Error())
		return nil, err
	}

	m.notifier.Info(fmt.Sprintf("Processing %d files, please hold...", len(files)))

	workers := poolSize(req.Concurrency, len(files))
	logger.Debug().
		Str("path", req.Path).
		Int("files", len(files)).
		Int("workers", workers).
		Msg("dispatching batch")

	// each task owns one slot, so no locking is needed
	outcomes := make([]status.Outcome, len(files))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			outcomes[i] = m.ProcessFile(ctx, file, req)
			return nil
		})
	}
	_ = g.Wait()

	report := status.NewReport(outcomes)
	logger.Debug().
		Int("converted", report.Converted).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("batch finished")

	m.notifier.Info("Done!")
	return report, nil
}
