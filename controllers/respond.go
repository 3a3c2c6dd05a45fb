package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shalom-hotel/services"
	"shalom-hotel/utils"
)

// respondServiceError maps a service error kind to an HTTP status so
// handlers never inspect error strings.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	}
	utils.JSONError(c, status, services.MessageOf(err))
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}
