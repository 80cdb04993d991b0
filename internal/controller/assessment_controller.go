package controller

import (
	"errors"

	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
	"github.com/Harish3000/Learn-Labs-sub000/internal/service"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
	Hub               *service.PlaybackHub
}

func NewAssessmentController(assessmentService *service.AssessmentService, hub *service.PlaybackHub) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService, Hub: hub}
}

// @Summary Submit a performance batch
// @Description Append one viewing session's question outcomes to the attempt log. The batch is all-or-nothing on validation; inserts fail fast.
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body model.PerformanceSubmission true "Session performance batch"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/assessment/performance [post]
func (c *AssessmentController) SubmitPerformance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var sub model.PerformanceSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	// Students can only write their own records.
	if user.Role != model.Admin && sub.StudentID != user.StudentID {
		util.Forbidden(ctx)
		return
	}

	if err := c.AssessmentService.SubmitBatch(ctx.Request.Context(), &sub); err != nil {
		if errors.Is(err, util.ErrInvalidSubmission) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"records": len(sub.Performance)})
}

// @Summary Get next question difficulty
// @Description Apply the adaptive policy to the student's most recent outcome and resolve the question for a transcript chunk.
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chunk_id query int true "Transcript chunk ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assessment/next-difficulty [get]
func (c *AssessmentController) NextDifficulty(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	chunkID := util.ParseUintOrZero(ctx.Query("chunk_id"))
	if chunkID == 0 {
		util.BadRequest(ctx, "missing chunk_id")
		return
	}

	difficulty, question, err := c.AssessmentService.NextQuestion(ctx.Request.Context(), user.StudentID, chunkID)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"difficulty": difficulty.Code(),
		"question":   question,
	})
}

// @Summary Get last attempt
// @Description Return the student's most recent attempt record, the one-record memory the adaptive policy runs on.
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/assessment/last-attempt [get]
func (c *AssessmentController) LastAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	record, err := c.AssessmentService.LastAttempt(ctx.Request.Context(), user.StudentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary Open a playback session
// @Description Upgrade to a websocket that follows lecture playback, pops adaptive questions at chapter boundaries and flushes outcomes on disconnect.
// @Tags assessment
// @Security BearerAuth
// @Param lecture_id query int true "Lecture ID"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/assessment/session/ws [get]
func (c *AssessmentController) SessionWS(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lectureID := util.ParseUintOrZero(ctx.Query("lecture_id"))
	if lectureID == 0 {
		util.BadRequest(ctx, "missing lecture_id")
		return
	}

	if err := c.Hub.Serve(ctx.Writer, ctx.Request, user.StudentID, lectureID); err != nil {
		util.LogInternalError(ctx, err)
	}
}
