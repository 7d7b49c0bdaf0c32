package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/cocktails/internal/entities"
)

// NoticeQueue hands out the visitor's pending notices.
type NoticeQueue interface {
	Pop(ctx context.Context) []entities.Notice
}

type NoticesController struct {
	queue NoticeQueue
}

func NewNoticesController(queue NoticeQueue) *NoticesController {
	return &NoticesController{queue: queue}
}

// PopNotices returns and dismisses the pending notices.
// GET /api/notices
func (nc *NoticesController) PopNotices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notices": nc.queue.Pop(c.Request.Context())})
}
