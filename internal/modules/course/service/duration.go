package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/pkg/apperror"
)

// ParseSeconds reads a stored duration, treating anything malformed as zero.
func ParseSeconds(text string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}

// FormatDuration renders seconds as "1h 5m", "5m 3s" or "42s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func TotalDurationSeconds(course *entity.Course) int {
	total := 0
	for _, section := range course.Sections {
		for _, sub := range section.SubSections {
			total += ParseSeconds(sub.TimeDuration)
		}
	}
	return total
}

// resolveDuration prefers the duration detected by storage over the one sent by the caller.
func resolveDuration(detected int, provided string) (string, error) {
	if detected > 0 {
		return strconv.Itoa(detected), nil
	}

	provided = strings.TrimSpace(provided)
	if provided == "" {
		return "0", nil
	}

	n, err := strconv.Atoi(provided)
	if err != nil || n < 0 {
		return "", fmt.Errorf("time duration must be a non-negative number of seconds: %w", apperror.ErrInvalidInput)
	}
	return strconv.Itoa(n), nil
}
