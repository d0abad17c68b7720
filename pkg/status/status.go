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

package status

// 📊 Result is the end state of a single file task
type Result int

const (
	ResultUnknown   Result = iota
	ResultConverted        // Output written
	ResultSkipped          // No infotext and not forced
	ResultFailed           // Decode, encode or write failure
)

// String returns a string representation of Result
func (r Result) String() string {
	switch r {
	case ResultConverted:
		return "converted"
	case ResultSkipped:
		return "skipped"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Outcome describes what a task did with one source file
type Outcome struct {
	Path    string // Source file
	Output  string // File written, empty unless converted
	Result  Result // End state
	Deleted bool   // Whether the source was removed
	Err     error  // Cause of a failure
}

// 📋 Report aggregates the outcomes of one batch
type Report struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int
	Deleted   int
	Outcomes  []Outcome
}

// 🏭 NewReport counts outcomes; call it after all tasks have finished
func NewReport(outcomes []Outcome) *Report {
	r := &Report{
		Total:    len(outcomes),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		switch o.Result {
		case ResultConverted:
			r.Converted++
		case ResultSkipped:
			r.Skipped++
		case ResultFailed:
			r.Failed++
		}
		if o.Deleted {
			r.Deleted++
		}
	}
	return r
}
