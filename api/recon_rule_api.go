package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/clearline-finance/clearline/api/model"
	"github.com/clearline-finance/clearline/internal/apierror"
)

// CreateReconRule declares a pairing of two accounts eligible to be matched
// against each other.
func (a Api) CreateReconRule(c *gin.Context) {
	var newRule model2.CreateReconRule
	if err := c.ShouldBindJSON(&newRule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := newRule.ValidateCreateReconRule(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := a.service.CreateReconRule(c.Request.Context(), newRule.ToReconRule())
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// GetReconRules lists the reconciliation rules of a merchant.
func (a Api) GetReconRules(c *gin.Context) {
	merchantID, passed := c.Params.Get("merchant_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchant_id is required. pass id in the route /:merchant_id"})
		return
	}

	rules, err := a.service.GetReconRules(c.Request.Context(), merchantID)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rules)
}
