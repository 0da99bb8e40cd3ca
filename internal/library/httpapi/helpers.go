package httpapi

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/gateway"
)

func WriteError(c *gin.Context, err error) {
	status := gateway.ToHTTPStatus(err)
	if status >= 500 {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gateway.ErrorFromErr(err))
}

func ParseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
