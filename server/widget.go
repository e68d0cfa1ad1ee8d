// widget.go - Eingebettetes Browser-Widget
//
// GET / liefert die Chat-Oberflaeche als einzelne HTML-Seite aus.
// Die Seite spricht POST /api/chat und liest den NDJSON-Stream direkt
// im Browser.
package server

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed widget/index.html
var widgetFS embed.FS

// WidgetHandler liefert das Chat-Widget aus
func (s *Server) WidgetHandler(c *gin.Context) {
	page, err := widgetFS.ReadFile("widget/index.html")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
