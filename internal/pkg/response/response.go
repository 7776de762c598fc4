package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Error(c *gin.Context, status int, errType, message string) {
	c.JSON(status, gin.H{"error": message, "error_type": errType})
}

func ErrorWith(c *gin.Context, status int, errType, message string, extra gin.H) {
	body := gin.H{"error": message, "error_type": errType}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
