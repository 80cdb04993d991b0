package util

import "errors"

var (
	ErrLectureNotFound   = errors.New("lecture not found")
	ErrQuestionNotFound  = errors.New("no question available for chunk")
	ErrVideoNotFound     = errors.New("lecture has no video")
	ErrInvalidSubmission = errors.New("invalid performance submission")
	ErrPermissionDenied  = errors.New("permission denied")
)
