package taskboard

import "github.com/dmitrymomot/taskflow/pkg/apperr"

var (
	ErrTaskNotFound     = apperr.New(apperr.ErrNotFound, "taskboard: task not found")
	ErrProjectNotFound  = apperr.New(apperr.ErrNotFound, "taskboard: project not found")
	ErrProjectArchived  = apperr.New(apperr.ErrInvalidState, "taskboard: project is archived")
	ErrInvalidStatus    = apperr.New(apperr.ErrInvalidArgument, "taskboard: unknown task status")
	ErrInvalidTaskID    = apperr.New(apperr.ErrInvalidArgument, "taskboard: task id is required")
	ErrInvalidProject   = apperr.New(apperr.ErrInvalidArgument, "taskboard: project id is required")
	ErrInvalidWorkspace = apperr.New(apperr.ErrInvalidArgument, "taskboard: workspace id is required")
)
