package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/clearline-finance/clearline/api/model"
	"github.com/clearline-finance/clearline/internal/apierror"
)

// CreateStagingEntry ingests a raw financial movement and queues the task
// that will reconcile it.
func (a Api) CreateStagingEntry(c *gin.Context) {
	var newStagingEntry model2.CreateStagingEntry
	if err := c.ShouldBindJSON(&newStagingEntry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := newStagingEntry.ValidateCreateStagingEntry(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := a.service.IngestStagingEntry(c.Request.Context(), newStagingEntry.ToStagingEntry())
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetStagingEntry returns a staging entry together with its owning account.
func (a Api) GetStagingEntry(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	entry, err := a.service.GetStagingEntry(c.Request.Context(), id)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry)
}
