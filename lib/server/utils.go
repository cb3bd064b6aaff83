package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/storages"
	"github.com/pescuma/reviewers-by-blame/lib/utils"
)

// httpError is an error answered with its own status and a message safe to
// show to the caller.
type httpError struct {
	status  int
	message string
}

func newHttpError(status int, message string) error {
	return &httpError{
		status:  status,
		message: message,
	}
}

func (e *httpError) Error() string {
	return e.message
}

func sendError(c *gin.Context, err error) {
	var httpErr *httpError

	switch {
	case errors.As(err, &httpErr):
		c.JSON(httpErr.status, gin.H{"message": httpErr.message})
	case errors.Is(err, storages.ErrNotFound):
		c.String(http.StatusNotFound, "")
	case errors.Is(err, utils.ErrQueueClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func getU[P any](f func(context.Context, *P) (any, error)) func(c *gin.Context) {
	return func(c *gin.Context) {
		var params P

		err := c.ShouldBindUri(&params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := f(c.Request.Context(), &params)
		if err != nil {
			sendError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// postUQ binds the uri and the query string.
func postUQ[P any](f func(context.Context, *P) (any, error)) func(c *gin.Context) {
	return func(c *gin.Context) {
		var params P

		err := c.ShouldBindUri(&params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err = c.ShouldBindQuery(&params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := f(c.Request.Context(), &params)
		if err != nil {
			sendError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// acceptJ binds the json body and answers 202 Accepted.
func acceptJ[P any](f func(*P) (any, error)) func(c *gin.Context) {
	return func(c *gin.Context) {
		var params P

		err := c.ShouldBindJSON(&params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := f(&params)
		if err != nil {
			sendError(c, err)
			return
		}

		c.JSON(http.StatusAccepted, result)
	}
}
