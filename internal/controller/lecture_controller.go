package controller

import (
	"errors"

	"github.com/Harish3000/Learn-Labs-sub000/internal/service"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type LectureController struct {
	LectureService *service.LectureService
}

func NewLectureController(lectureService *service.LectureService) *LectureController {
	return &LectureController{LectureService: lectureService}
}

// @Summary List active lectures
// @Description List lectures currently open for joining, ordered by live start time.
// @Tags lecture
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/lectures [get]
func (c *LectureController) GetLectures(ctx *gin.Context) {
	lectures, err := c.LectureService.ListActive()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lectures)
}

// @Summary Get lecture data
// @Description Return the lecture with its transcript chunks and question catalog for the playback client.
// @Tags lecture
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lectures/{id} [get]
func (c *LectureController) GetLectureData(ctx *gin.Context) {
	lectureID := util.ParseUintOrZero(ctx.Param("id"))
	if lectureID == 0 {
		util.BadRequest(ctx, "invalid lecture id")
		return
	}

	data, err := c.LectureService.LectureData(lectureID)
	if err != nil {
		if errors.Is(err, util.ErrLectureNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, data)
}

// @Summary Join a lecture
// @Description Add the authenticated student to the lecture's joined list. Joining twice is a no-op.
// @Tags lecture
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lectures/{id}/join [post]
func (c *LectureController) JoinLecture(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lectureID := util.ParseUintOrZero(ctx.Param("id"))
	if lectureID == 0 {
		util.BadRequest(ctx, "invalid lecture id")
		return
	}

	alreadyJoined, err := c.LectureService.Join(lectureID, user.Email)
	if err != nil {
		if errors.Is(err, util.ErrLectureNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"already_joined": alreadyJoined})
}

// @Summary Get lecture live window
// @Description Return the scheduled live start and end times of a lecture.
// @Tags lecture
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lectures/{id}/live-window [get]
func (c *LectureController) GetLiveWindow(ctx *gin.Context) {
	lectureID := util.ParseUintOrZero(ctx.Param("id"))
	if lectureID == 0 {
		util.BadRequest(ctx, "invalid lecture id")
		return
	}

	start, end, err := c.LectureService.LiveWindow(lectureID)
	if err != nil {
		if errors.Is(err, util.ErrLectureNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"live_start": start, "live_end": end})
}

// @Summary Verify lecture video
// @Description Probe the lecture video and check that its duration covers the last transcript chunk.
// @Tags lecture
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lectures/{id}/verify-video [get]
func (c *LectureController) VerifyVideo(ctx *gin.Context) {
	lectureID := util.ParseUintOrZero(ctx.Param("id"))
	if lectureID == 0 {
		util.BadRequest(ctx, "invalid lecture id")
		return
	}

	verification, err := c.LectureService.VerifyVideo(ctx.Request.Context(), lectureID)
	if err != nil {
		if errors.Is(err, util.ErrLectureNotFound) || errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, verification)
}

// @Summary Upload a lecture asset
// @Description Store a lecture asset (video, transcript) under a collision-free object name and return its URL.
// @Tags lecture
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Param file formData file true "Asset file"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/lectures/{id}/assets [post]
func (c *LectureController) UploadAsset(ctx *gin.Context) {
	lectureID := util.ParseUintOrZero(ctx.Param("id"))
	if lectureID == 0 {
		util.BadRequest(ctx, "invalid lecture id")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	defer file.Close()

	url, err := c.LectureService.UploadAsset(
		ctx.Request.Context(),
		lectureID,
		header.Filename,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		if errors.Is(err, util.ErrLectureNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url})
}
