package staff

import (
	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/httpapi"
)

func RegisterRoutes(read, write gin.IRoutes, gw *Gateway) {
	httpapi.RegisterCRUD(read, write, "/staff", gw)
}
