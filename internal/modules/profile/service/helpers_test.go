package profile

import (
	"anoa.com/eduelevate/internal/modules/enrollment/dto"
	"github.com/google/uuid"
)

func enrollmentDTO(courseID, subSectionID uuid.UUID) dto.CourseProgressRequest {
	return dto.CourseProgressRequest{CourseID: courseID.String(), SubSectionID: subSectionID.String()}
}
