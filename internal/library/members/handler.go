package members

import (
	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/httpapi"
)

// GET /members?q=  POST /members  PUT /members/:id  DELETE /members/:id?confirm=true
func RegisterRoutes(read, write gin.IRoutes, gw *Gateway) {
	httpapi.RegisterCRUD(read, write, "/members", gw)
}
