package v1

import (
	"io"
	"net/http"

	"github.com/Dharanish-AM/InterVueAI/internal/delivery/http/response"
	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// maxResumeBytes caps uploads before they reach the decoder.
const maxResumeBytes = 10 << 20 // 10 MB

type ResumeHandler struct {
	intakeUC domain.IntakeUsecase
}

// NewResumeHandler registers resume intake routes
func NewResumeHandler(r *gin.RouterGroup, intakeUC domain.IntakeUsecase, limiter gin.HandlerFunc) {
	handler := &ResumeHandler{intakeUC: intakeUC}

	resumes := r.Group("/resumes")
	{
		resumes.POST("", limiter, handler.Upload)
		resumes.GET("/:id", handler.GetCandidate)
		resumes.DELETE("/:id", handler.DiscardCandidate)
	}
}

// UploadResult pairs the stored candidate with the field report so the
// client can prompt for anything extraction missed.
type UploadResult struct {
	Candidate  *domain.Candidate        `json:"candidate"`
	Validation *domain.ResumeValidation `json:"validation"`
}

// Upload godoc
// @Summary      Upload a resume
// @Description  Decode, extract and validate a resume document, creating a candidate
// @Tags         resumes
// @Accept       multipart/form-data
// @Produce      json
// @Param        resume  formData  file  true  "Resume file (PDF, DOCX or plain text)"
// @Success      201     {object}  response.Response{data=UploadResult}
// @Failure      400     {object}  response.Response
// @Failure      415     {object}  response.Response
// @Failure      422     {object}  response.Response
// @Router       /resumes [post]
func (h *ResumeHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.Error(apperror.BadRequest("Resume file is required", err))
		return
	}
	if fileHeader.Size > maxResumeBytes {
		c.Error(apperror.BadRequest("Resume file is too large", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Unable to read resume file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes))
	if err != nil {
		c.Error(apperror.BadRequest("Unable to read resume file", err))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")

	candidate, validation, err := h.intakeUC.ProcessResume(c, data, mimeType)
	if err != nil {
		// A validation failure still carries the per-field report the
		// client needs to re-prompt the candidate.
		if validation != nil {
			response.Error(c, http.StatusUnprocessableEntity, "Resume is missing required fields", validation.Errors)
			return
		}
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Resume processed", UploadResult{
		Candidate:  candidate,
		Validation: validation,
	})
}

// GetCandidate godoc
// @Summary      Get a candidate
// @Description  Fetch a candidate created from a resume upload
// @Tags         resumes
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [get]
func (h *ResumeHandler) GetCandidate(c *gin.Context) {
	candidate, err := h.intakeUC.GetCandidate(c, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate retrieved", candidate)
}

// DiscardCandidate godoc
// @Summary      Discard a candidate
// @Description  Delete a candidate whose interview never started
// @Tags         resumes
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [delete]
func (h *ResumeHandler) DiscardCandidate(c *gin.Context) {
	if err := h.intakeUC.DiscardCandidate(c, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate discarded", nil)
}
