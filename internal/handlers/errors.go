package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/jobqueue/api/v1"
	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
)

// statusFor maps an error kind to its HTTP status code.
func statusFor(kind srvErrors.Kind) int {
	switch kind {
	case srvErrors.KindInvalidArgument:
		return http.StatusBadRequest
	case srvErrors.KindResourceNotFound:
		return http.StatusNotFound
	case srvErrors.KindDuplicateLowerRank:
		return http.StatusConflict
	case srvErrors.KindCapacityExceeded:
		return http.StatusTooManyRequests
	case srvErrors.KindQueueClosed, srvErrors.KindPoolSaturated:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, msg string, err error) {
	kind := srvErrors.KindOf(err)
	status := statusFor(kind)

	if status == http.StatusInternalServerError {
		zap.S().Named("job_handler").Errorw(msg, "error", err)
		c.JSON(status, v1.Error{Error: msg})
		return
	}

	c.JSON(status, v1.Error{Error: err.Error(), Kind: kind.String()})
}
