// Package handlers implements the dashboard's HTTP endpoints on top of the
// application facade.
package handlers

import (
	stderrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/onconet/healthai/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an application error to its HTTP status via the error
// code table.  A not-ready error deliberately maps to 202 so the frontend
// can keep polling on the same endpoint.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	resp := ErrorResponse{
		Code:    code.String(),
		Message: errors.DefaultMessageForCode(code),
	}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	c.AbortWithStatusJSON(errors.HTTPStatusForCode(code), resp)
}

// queryInt reads an integer query parameter with a fallback default.
func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

//Personal.AI order the ending
