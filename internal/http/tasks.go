package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/cocktails/internal/tasks"
)

// TaskStatusReader looks up a background task.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// SweepRunner triggers a thumbnail sweep outside its schedule.
type SweepRunner interface {
	RunNow(ctx context.Context) (string, error)
	Schedule() string
	GetNextRunTime() *time.Time
}

// TasksController handles task queue endpoints.
type TasksController struct {
	client  TaskStatusReader
	sweeper SweepRunner
}

// NewTasksController creates a TasksController. sweeper may be nil when the
// scheduled sweep is disabled.
func NewTasksController(client TaskStatusReader, sweeper SweepRunner) *TasksController {
	return &TasksController{client: client, sweeper: sweeper}
}

// GetTaskStatus returns the status of a specific task.
// GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	statusStr := tasks.StatusString(status)
	if status == backlite.TaskStatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"id": taskID, "status": statusStr})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": statusStr,
	})
}

// GetSweepSchedule describes the scheduled thumbnail sweep.
// GET /api/tasks/sweep
func (tc *TasksController) GetSweepSchedule(c *gin.Context) {
	if tc.sweeper == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	resp := gin.H{
		"enabled":  true,
		"schedule": tc.sweeper.Schedule(),
	}
	if next := tc.sweeper.GetNextRunTime(); next != nil {
		resp["next_run"] = next.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

// RunSweep enqueues a thumbnail sweep now.
// POST /api/tasks/sweep/run
func (tc *TasksController) RunSweep(c *gin.Context) {
	if tc.sweeper == nil {
		respondBadRequest(c, "thumbnail sweep is not enabled")
		return
	}

	id, err := tc.sweeper.RunNow(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "run sweep")
		return
	}

	respondAccepted(c, "task enqueued", gin.H{"task_id": id, "type": "sweep_thumbnails"})
}
