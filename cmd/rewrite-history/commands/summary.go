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

package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/walteh/rewrite-history/pkg/status"
)

// 📊 RenderSummary prints one table row per file followed by the totals
func RenderSummary(w io.Writer, r *status.Report) error {
	rows := pterm.TableData{{"File", "Result", "Output", "Detail"}}
	for _, o := range r.Outcomes {
		output := ""
		if o.Output != "" {
			output = filepath.Base(o.Output)
		}
		detail := ""
		switch {
		case o.Err != nil:
			detail = o.Err.Error()
		case o.Deleted:
			detail = "original removed"
		}
		rows = append(rows, []string{o.Path, o.Result.String(), output, detail})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).WithWriter(w).Render(); err != nil {
		return err
	}

	totals := pterm.TableData{
		{"Total", "Converted", "Skipped", "Failed", "Removed"},
		{
			fmt.Sprint(r.Total),
			fmt.Sprint(r.Converted),
			fmt.Sprint(r.Skipped),
			fmt.Sprint(r.Failed),
			fmt.Sprint(r.Deleted),
		},
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(totals).WithWriter(w).Render()
}
