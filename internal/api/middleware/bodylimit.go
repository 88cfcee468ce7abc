package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MultipartOverhead is headroom for multipart boundaries and form fields on
// top of the file itself.
const MultipartOverhead int64 = 1 << 20

// MaxBodySize limits the request body to the given number of bytes. Reads
// past the limit fail with *http.MaxBytesError.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
