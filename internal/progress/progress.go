// Package progress derives completion figures from a task list.
package progress

import (
	"strconv"

	"checklist/internal/domain"
)

// CompletionPercentage returns the share of completed tasks in [0, 100],
// rounded half-up to two decimals. An empty list is 0.
func CompletionPercentage(tasks []domain.Task) float64 {
	total := len(tasks)
	if total == 0 {
		return 0
	}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	// hundredths of a percent, rounded half-up in integer arithmetic:
	// floor(completed*10000/total + 1/2)
	hundredths := (completed*20000 + total) / (2 * total)
	return float64(hundredths) / 100
}

// Counts returns the number of completed tasks and the total.
func Counts(tasks []domain.Task) (completed, total int) {
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return completed, len(tasks)
}

// Format renders a percentage with exactly two decimals, e.g. "33.33".
func Format(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
