package api

import (
	"errors"
	"net/http"
	"strconv"

	"streakOddsEngine/services/common"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto HTTP statuses. Timing and state
// conflicts come back 409 with enough detail for the UI to reconcile;
// retryable provider and data failures are flagged so callers know to try
// again rather than treat them as terminal.
func respondError(c *gin.Context, err error) {
	var svcErr *common.ServiceError
	if !errors.As(err, &svcErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusConflict
	switch svcErr.Code {
	case common.CodeValidationFailed:
		status = http.StatusBadRequest
	case common.CodeBetNotFound, common.CodeParlayNotFound:
		status = http.StatusNotFound
	case common.CodeGameDataFetchFailed:
		status = http.StatusBadGateway
	}

	body := gin.H{
		"error": svcErr.Message,
		"code":  svcErr.Code,
	}
	if svcErr.Retryable {
		body["retryable"] = true
	}
	for key, value := range svcErr.Detail {
		body[key] = value
	}
	c.JSON(status, body)
}
