package respond

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/util"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HTML writes a rendered page.
func HTML(c *gin.Context, status int, page io.WriterTo) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	_, _ = page.WriteTo(c.Writer)
}

// Attachment sends data as a download named fileName.
func Attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", disposition(fileName))
	c.Data(http.StatusOK, contentType, data)
}

// AttachmentStream copies size bytes from r as a download named fileName.
func AttachmentStream(c *gin.Context, fileName, contentType string, size int64, r io.Reader) {
	c.Header("Content-Disposition", disposition(fileName))
	c.Header("Content-Type", contentType)
	if size > 0 {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
	}
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, r)
}

func disposition(fileName string) string {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "attachment"
	}
	return `attachment; filename="` + name + `"`
}
