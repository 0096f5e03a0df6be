package v1

import (
	"net/http"
	"time"

	"github.com/Dharanish-AM/InterVueAI/internal/delivery/http/response"
	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/workers/timekeeper"
	"github.com/Dharanish-AM/InterVueAI/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
	timekeeper  *timekeeper.Timekeeper
}

// NewInterviewHandler registers interview lifecycle routes
func NewInterviewHandler(r *gin.RouterGroup, interviewUC domain.InterviewUsecase, tk *timekeeper.Timekeeper, answerLimiter gin.HandlerFunc) {
	handler := &InterviewHandler{interviewUC: interviewUC, timekeeper: tk}

	interviews := r.Group("/interviews")
	{
		interviews.POST("/start", handler.Start)
		interviews.POST("/:id/answers", answerLimiter, handler.SubmitAnswer)
		interviews.POST("/:id/expire", handler.ExpireTimer)
		interviews.GET("/resume/:candidateId", handler.Resume)
		interviews.POST("/:id/abandon", handler.Abandon)
		interviews.GET("/:id/summary", handler.Summary)
	}
}

// StartInterviewRequest is the request payload for starting an interview
type StartInterviewRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
}

// SubmitAnswerRequest is the request payload for submitting an answer
type SubmitAnswerRequest struct {
	QuestionIndex int    `json:"question_index"`
	Text          string `json:"text"`
}

// ExpireTimerRequest identifies which question's timer ran out
type ExpireTimerRequest struct {
	QuestionIndex int `json:"question_index"`
}

// SessionView wraps the session with the live timer so clients never
// compute deadlines themselves.
type SessionView struct {
	Session          *domain.InterviewSession `json:"session"`
	RemainingSeconds int                      `json:"remaining_seconds"`
}

func newSessionView(session *domain.InterviewSession) SessionView {
	return SessionView{
		Session:          session,
		RemainingSeconds: int(session.RemainingTime(time.Now()).Seconds()),
	}
}

// Start godoc
// @Summary      Start an interview
// @Description  Generate questions and open a session for a candidate
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        body  body      StartInterviewRequest  true  "Candidate to interview"
// @Success      201   {object}  response.Response{data=SessionView}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews/start [post]
func (h *InterviewHandler) Start(c *gin.Context) {
	var req StartInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("candidate_id is required", err))
		return
	}

	session, err := h.interviewUC.Start(c, req.CandidateID)
	if err != nil {
		c.Error(err)
		return
	}

	h.timekeeper.Arm(session)
	response.Success(c, http.StatusCreated, "Interview started", newSessionView(session))
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Score the answer for the current question and advance the session
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Session ID"
// @Param        body  body      SubmitAnswerRequest  true  "Answer payload"
// @Success      200   {object}  response.Response{data=SessionView}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews/{id}/answers [post]
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid answer payload", err))
		return
	}

	session, err := h.interviewUC.SubmitAnswer(c, c.Param("id"), req.QuestionIndex, req.Text)
	if err != nil {
		c.Error(err)
		return
	}

	h.rearm(session)
	response.Success(c, http.StatusOK, "Answer recorded", newSessionView(session))
}

// ExpireTimer godoc
// @Summary      Expire the current question's timer
// @Description  Record an empty answer for a question whose time ran out
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Session ID"
// @Param        body  body      ExpireTimerRequest  true  "Expired question index"
// @Success      200   {object}  response.Response{data=SessionView}
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews/{id}/expire [post]
func (h *InterviewHandler) ExpireTimer(c *gin.Context) {
	var req ExpireTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid expiry payload", err))
		return
	}

	session, err := h.interviewUC.ExpireTimer(c, c.Param("id"), req.QuestionIndex)
	if err != nil {
		c.Error(err)
		return
	}

	h.rearm(session)
	response.Success(c, http.StatusOK, "Timer expired", newSessionView(session))
}

// Resume godoc
// @Summary      Resume an interview
// @Description  Return the in-progress session for a candidate with remaining time
// @Tags         interviews
// @Produce      json
// @Param        candidateId  path      string  true  "Candidate ID"
// @Success      200          {object}  response.Response{data=SessionView}
// @Failure      404          {object}  response.Response
// @Router       /interviews/resume/{candidateId} [get]
func (h *InterviewHandler) Resume(c *gin.Context) {
	session, err := h.interviewUC.Resume(c, c.Param("candidateId"))
	if err != nil {
		c.Error(err)
		return
	}

	// The timer keeps counting from where it left off.
	h.timekeeper.Arm(session)
	response.Success(c, http.StatusOK, "Interview resumed", newSessionView(session))
}

// Abandon godoc
// @Summary      Abandon an interview
// @Description  Terminate an in-progress session without a final score
// @Tags         interviews
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /interviews/{id}/abandon [post]
func (h *InterviewHandler) Abandon(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.interviewUC.Abandon(c, sessionID); err != nil {
		c.Error(err)
		return
	}

	h.timekeeper.Cancel(sessionID)
	response.Success(c, http.StatusOK, "Interview abandoned", nil)
}

// Summary godoc
// @Summary      Get the interview summary
// @Description  Aggregate scores and return the closing report for a completed session
// @Tags         interviews
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.SessionSummary}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /interviews/{id}/summary [get]
func (h *InterviewHandler) Summary(c *gin.Context) {
	summary, err := h.interviewUC.Summary(c, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview summary", summary)
}

// rearm restarts the timer for the next question or clears it when the
// session reached a terminal state.
func (h *InterviewHandler) rearm(session *domain.InterviewSession) {
	if session.Status == domain.SessionStatusInProgress {
		h.timekeeper.Arm(session)
		return
	}
	h.timekeeper.Cancel(session.ID)
}
