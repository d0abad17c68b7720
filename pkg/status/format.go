package status

import (
	"fmt"
	"path/filepath"
)

// FileFormatter defines how outcomes and reports should be formatted
type FileFormatter interface {
	// FormatOutcome formats the result of one file task
	FormatOutcome(o Outcome) string

	// FormatSummary formats a one-line batch summary
	FormatSummary(r *Report) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatOutcome formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatOutcome(o Outcome) string {
	switch o.Result {
	case ResultConverted:
		msg := fmt.Sprintf("✨ Converted %s -> %s", o.Path, filepath.Base(o.Output))
		if o.Deleted {
			msg += " (original removed)"
		}
		return msg
	case ResultSkipped:
		return fmt.Sprintf("⏭️  Skipped %s (no infotext)", o.Path)
	case ResultFailed:
		if o.Err != nil {
			return fmt.Sprintf("❌ Failed %s: %v", o.Path, o.Err)
		}
		return fmt.Sprintf("❌ Failed %s", o.Path)
	default:
		return fmt.Sprintf("❔ Unknown %s", o.Path)
	}
}

// FormatSummary formats the batch counters with a completion percentage
func (f *DefaultFileFormatter) FormatSummary(r *Report) string {
	var percentage float64
	if r.Total > 0 {
		percentage = float64(r.Converted) / float64(r.Total) * 100
	}

	return fmt.Sprintf("✅ Converted %d/%d (%.0f%%), skipped %d, failed %d, removed %d",
		r.Converted, r.Total, percentage, r.Skipped, r.Failed, r.Deleted)
}
