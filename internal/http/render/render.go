package render

import (
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

// HTML writes component as the response body with the given status.
func HTML(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")

	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}
