package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/clearline-finance/clearline/api/model"
	"github.com/clearline-finance/clearline/config"
	"github.com/clearline-finance/clearline/internal/apierror"
)

// TriggerQueue manually drains the task queue: it repeatedly processes
// pending tasks until the queue is empty or the timeout elapses, and
// returns aggregate counts.
func (a Api) TriggerQueue(c *gin.Context) {
	var req model2.TriggerQueue
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeoutSec := req.TimeoutSec
	if timeoutSec <= 0 {
		conf, err := config.Fetch()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		timeoutSec = conf.Queue.DrainTimeoutSec
	}

	result := a.service.DrainQueue(c.Request.Context(), time.Duration(timeoutSec)*time.Second)
	if result.Error != "" {
		c.JSON(http.StatusConflict, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTask returns a queue record, including its status and last error.
func (a Api) GetTask(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	task, err := a.service.GetTask(c.Request.Context(), id)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, task)
}
