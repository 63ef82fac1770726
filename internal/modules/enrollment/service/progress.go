package service

import (
	"math"

	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
)

// ProgressPercentage rounds completed/total to a whole percent in [0, 100].
func ProgressPercentage(totalLectures, completed int) int {
	if totalLectures <= 0 || completed <= 0 {
		return 0
	}

	pct := int(math.Round(float64(completed) * 100 / float64(totalLectures)))
	if pct > 100 {
		return 100
	}
	return pct
}

// ComputeProgressPercentage only counts completions that belong to the course's current content.
func ComputeProgressPercentage(course *entity.Course, completed []uuid.UUID) int {
	if course == nil {
		return 0
	}

	lectures := make(map[uuid.UUID]struct{}, course.LectureCount())
	for _, section := range course.Sections {
		for _, sub := range section.SubSections {
			lectures[sub.ID] = struct{}{}
		}
	}

	done := 0
	seen := make(map[uuid.UUID]struct{}, len(completed))
	for _, id := range completed {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := lectures[id]; ok {
			done++
		}
	}

	return ProgressPercentage(len(lectures), done)
}
