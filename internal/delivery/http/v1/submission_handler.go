package v1

import (
	"errors"
	"io"
	"net/http"

	"banjara-intake-backend/internal/delivery/http/response"
	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Whole-request cap for a multipart submission: both attachments at their
// ceilings plus room for the text fields and multipart framing.
const maxSubmissionBody = 2 * (domain.MaxImageSize + domain.MaxDocumentSize)

// In-memory part of multipart parsing; larger parts spill to temp files
const multipartMemory = 8 << 20

type SubmissionHandler struct {
	intakeUC domain.IntakeUsecase
}

type SubmissionCreated struct {
	ID string `json:"id"`
}

// NewSubmissionHandler registers the public intake routes. limiter runs
// before the body is read.
func NewSubmissionHandler(public *gin.RouterGroup, intakeUC domain.IntakeUsecase, limiter gin.HandlerFunc) {
	handler := &SubmissionHandler{intakeUC: intakeUC}

	submissions := public.Group("/submissions")
	submissions.Use(limiter)
	{
		submissions.POST("/job-seekers", handler.SubmitJobSeeker)
		submissions.POST("/businesses/:type", handler.SubmitBusiness)
	}
}

// SubmitJobSeeker godoc
// @Summary      Submit Job Seeker Profile
// @Description  Public multipart form. The resume is required (PDF or image, up to 10 MB); the photo is optional (JPEG/PNG/WebP, up to 5 MB).
// @Tags         submissions
// @Accept       multipart/form-data
// @Produce      json
// @Param        full_name        formData  string  true   "Full name"
// @Param        age              formData  int     false  "Age (18 or older)"
// @Param        location         formData  string  false  "Location"
// @Param        job_profile      formData  string  true   "Job profile"
// @Param        experience       formData  int     false  "Years of experience"
// @Param        phone            formData  string  true   "Phone number"
// @Param        last_salary      formData  number  false  "Last salary"
// @Param        expected_salary  formData  number  false  "Expected salary"
// @Param        photo            formData  file    false  "Photo"
// @Param        resume           formData  file    true   "Resume"
// @Success      201  {object}  response.Response{data=SubmissionCreated}
// @Failure      400  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /submissions/job-seekers [post]
func (h *SubmissionHandler) SubmitJobSeeker(c *gin.Context) {
	if !parseMultipart(c) {
		return
	}

	var payload domain.JobSeekerPayload
	if err := c.ShouldBind(&payload); err != nil {
		c.Error(apperror.BadRequest("Invalid form data"))
		return
	}

	var err error
	if payload.Photo, err = formFile(c, "photo", domain.MaxImageSize); err != nil {
		c.Error(err)
		return
	}
	if payload.Resume, err = formFile(c, "resume", domain.MaxDocumentSize); err != nil {
		c.Error(err)
		return
	}

	id, err := h.intakeUC.SubmitJobSeeker(c.Request.Context(), &payload)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Thank you! Your profile has been submitted.", SubmissionCreated{ID: id})
}

// SubmitBusiness godoc
// @Summary      Submit Business Requirement
// @Description  Public multipart form shared by staff, kitchen and ccg requirements. The document is required (PDF or image, up to 10 MB); the logo is optional (up to 5 MB).
// @Tags         submissions
// @Accept       multipart/form-data
// @Produce      json
// @Param        type            path      string  true   "Business type"  Enums(staff, kitchen, ccg)
// @Param        hotel_name      formData  string  true   "Hotel name"
// @Param        location        formData  string  false  "Location"
// @Param        owner_name      formData  string  true   "Owner name"
// @Param        contact_number  formData  string  true   "Contact number"
// @Param        logo            formData  file    false  "Logo"
// @Param        document        formData  file    true   "Requirement document"
// @Success      201  {object}  response.Response{data=SubmissionCreated}
// @Failure      400  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /submissions/businesses/{type} [post]
func (h *SubmissionHandler) SubmitBusiness(c *gin.Context) {
	if !parseMultipart(c) {
		return
	}

	var payload domain.BusinessPayload
	if err := c.ShouldBind(&payload); err != nil {
		c.Error(apperror.BadRequest("Invalid form data"))
		return
	}
	payload.BusinessType = c.Param("type")

	var err error
	if payload.Logo, err = formFile(c, "logo", domain.MaxImageSize); err != nil {
		c.Error(err)
		return
	}
	if payload.Document, err = formFile(c, "document", domain.MaxDocumentSize); err != nil {
		c.Error(err)
		return
	}

	id, err := h.intakeUC.SubmitBusiness(c.Request.Context(), &payload)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Thank you! Your requirement has been submitted.", SubmissionCreated{ID: id})
}

// parseMultipart caps the body and parses the form up front so an oversized
// request fails with 413 instead of a confusing binding error.
func parseMultipart(c *gin.Context) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBody)

	err := c.Request.ParseMultipartForm(multipartMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, http.ErrNotMultipart):
		return true
	case errors.As(err, &tooLarge):
		c.Error(apperror.New(http.StatusRequestEntityTooLarge, "Upload is too large", err))
	default:
		c.Error(apperror.BadRequest("Malformed multipart form"))
	}
	return false
}

// formFile reads one file part, at most ceiling+1 bytes so the validator can
// tell an oversized file from one exactly at the limit. A missing part is nil.
func formFile(c *gin.Context, field string, ceiling int64) (*domain.FileUpload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.BadRequest("Malformed multipart form")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, ceiling+1))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Data:        data,
	}, nil
}
