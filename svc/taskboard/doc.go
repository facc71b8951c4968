// Package taskboard manages workspace projects, their tasks and the task
// status lifecycle.
//
// A project belongs to exactly one workspace. Tasks are created inside a
// project and inherit its workspace, so per-workspace limits always count
// against the owner of the project. A task is created in StatusTodo and may
// move between StatusTodo, StatusInProgress and StatusDone freely. Board
// partitions the tasks of a project by status on every call, so the buckets
// always reflect the stored state.
//
//	svc := taskboard.NewService(taskboard.NewMemoryStore(),
//		taskboard.WithProjectLimit(func(ctx context.Context, ws uuid.UUID) error {
//			return billingSvc.CanCreate(ctx, ws, billing.ResourceProjects)
//		}),
//		taskboard.WithTaskLimit(func(ctx context.Context, ws uuid.UUID) error {
//			return billingSvc.CanCreate(ctx, ws, billing.ResourceTasks)
//		}),
//	)
//	project, err := svc.CreateProject(ctx, taskboard.CreateProjectInput{
//		WorkspaceID: ws,
//		Name:        "Launch",
//	})
//	task, err := svc.CreateTask(ctx, taskboard.CreateTaskInput{
//		ProjectID: project.ID,
//		Title:     "Write release notes",
//	})
//	task, err = svc.SetStatus(ctx, task.ID, taskboard.StatusDone)
package taskboard
