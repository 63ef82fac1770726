package handler

import (
	"net/http"

	"anoa.com/eduelevate/internal/modules/course/dto"
	course "anoa.com/eduelevate/internal/modules/course/service"
	commonDto "anoa.com/eduelevate/pkg/dto"
	"anoa.com/eduelevate/pkg/response"
	"anoa.com/eduelevate/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courses  course.CourseService
	sections course.SectionService
}

func NewCourseHandler(courses course.CourseService, sections course.SectionService) *CourseHandler {
	return &CourseHandler{courses: courses, sections: sections}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	thumbnail, closeFile, ok := openFormFile(c, "thumbnailImage")
	if !ok {
		return
	}
	defer closeFile()

	res, err := h.courses.CreateCourse(c.Request.Context(), userID, req, thumbnail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "course created successfully", res)
}

func (h *CourseHandler) EditCourse(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.EditCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	thumbnail, closeFile, ok := openFormFile(c, "thumbnailImage")
	if !ok {
		return
	}
	defer closeFile()

	res, err := h.courses.EditCourse(c.Request.Context(), userID, req, thumbnail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "course updated successfully", res)
}

func (h *CourseHandler) GetAllCourses(c *gin.Context) {
	res, err := h.courses.GetAllCourses(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "courses fetched successfully", res)
}

func (h *CourseHandler) GetCourseDetails(c *gin.Context) {
	courseID, ok := bindCourseID(c)
	if !ok {
		return
	}

	res, err := h.courses.GetCourseDetails(c.Request.Context(), courseID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "course details fetched successfully", res)
}

func (h *CourseHandler) GetFullCourseDetails(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	courseID, ok := bindCourseID(c)
	if !ok {
		return
	}

	res, err := h.courses.GetFullCourseDetails(c.Request.Context(), courseID, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "course details fetched successfully", res)
}

func (h *CourseHandler) GetInstructorCourses(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.courses.GetInstructorCourses(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "instructor courses fetched successfully", res)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	courseID, ok := bindCourseID(c)
	if !ok {
		return
	}

	if err := h.courses.DeleteCourse(c.Request.Context(), userID, courseID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "course deleted successfully", nil)
}

func (h *CourseHandler) CreateSection(c *gin.Context) {
	var req dto.CreateSectionRequest
	h.handleSection(c, &req, http.StatusCreated, "section created successfully", func(userID uuid.UUID) (any, error) {
		return h.sections.CreateSection(c.Request.Context(), userID, req)
	})
}

func (h *CourseHandler) UpdateSection(c *gin.Context) {
	var req dto.UpdateSectionRequest
	h.handleSection(c, &req, http.StatusOK, "section updated successfully", func(userID uuid.UUID) (any, error) {
		return h.sections.UpdateSection(c.Request.Context(), userID, req)
	})
}

func (h *CourseHandler) DeleteSection(c *gin.Context) {
	var req dto.DeleteSectionRequest
	h.handleSection(c, &req, http.StatusOK, "section deleted successfully", func(userID uuid.UUID) (any, error) {
		return h.sections.DeleteSection(c.Request.Context(), userID, req)
	})
}

func (h *CourseHandler) DeleteSubSection(c *gin.Context) {
	var req dto.DeleteSubSectionRequest
	h.handleSection(c, &req, http.StatusOK, "subsection deleted successfully", func(userID uuid.UUID) (any, error) {
		return h.sections.DeleteSubSection(c.Request.Context(), userID, req)
	})
}

func (h *CourseHandler) CreateSubSection(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateSubSectionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	video, closeFile, ok := openFormFile(c, "video")
	if !ok {
		return
	}
	defer closeFile()

	res, err := h.sections.CreateSubSection(c.Request.Context(), userID, req, video)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "subsection created successfully", res)
}

func (h *CourseHandler) UpdateSubSection(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateSubSectionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	video, closeFile, ok := openFormFile(c, "video")
	if !ok {
		return
	}
	defer closeFile()

	res, err := h.sections.UpdateSubSection(c.Request.Context(), userID, req, video)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "subsection updated successfully", res)
}

func (h *CourseHandler) handleSection(c *gin.Context, req any, status int, message string, run func(userID uuid.UUID) (any, error)) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := c.ShouldBindJSON(req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	res, err := run(userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, status, message, res)
}

func bindCourseID(c *gin.Context) (uuid.UUID, bool) {
	var req commonDto.CourseIDRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid course id")
		return uuid.Nil, false
	}
	return id, true
}

// openFormFile returns a nil upload when the field is absent; ok is false once a response was written.
func openFormFile(c *gin.Context, field string) (*commonDto.UploadFile, func(), bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader == nil {
		return nil, func() {}, true
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "failed to read "+field)
		return nil, nil, false
	}

	return &commonDto.UploadFile{Reader: file, FileName: fileHeader.Filename}, func() { _ = file.Close() }, true
}
