package taskboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskflow/pkg/statemachine"
)

// Status is the board column of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// StatusTransitions is fully connected: any status may follow any other.
var StatusTransitions = statemachine.NewTable(StatusTodo, StatusInProgress, StatusDone).AllowAll()

// Priority ranks tasks within a column.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// MaxTitleLength is counted in characters. Project names share the limit.
const MaxTitleLength = 255

// Project is owned by exactly one workspace. Its tasks inherit the workspace.
type Project struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Archived    bool      `json:"archived"`
	CreatedBy   uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// CreateProjectInput holds the caller supplied fields of a new project.
type CreateProjectInput struct {
	WorkspaceID uuid.UUID
	Name        string
	Description string
	CreatedBy   uuid.UUID
}

// UpdateProjectInput changes only the non-nil fields.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Archived    *bool
}

// Task belongs to a project. WorkspaceID is copied from the project on
// creation and never changes.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Position    int        `json:"position"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// CreateTaskInput holds the caller supplied fields of a new task. An empty
// Priority defaults to PriorityMedium. The workspace is taken from the project.
type CreateTaskInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Priority    Priority
	Position    int
	DueDate     *time.Time
	CreatedBy   uuid.UUID
}

// Board is a project's tasks grouped by status, each bucket in list order.
type Board struct {
	Todo       []Task `json:"todo"`
	InProgress []Task `json:"in_progress"`
	Done       []Task `json:"done"`
}

// Counts returns the number of tasks per status.
func (b Board) Counts() map[Status]int {
	return map[Status]int{
		StatusTodo:       len(b.Todo),
		StatusInProgress: len(b.InProgress),
		StatusDone:       len(b.Done),
	}
}
