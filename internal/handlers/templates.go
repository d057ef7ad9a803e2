package handlers

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"categoryLabel": func(tag string) string {
		for _, opt := range models.Categories {
			if opt.Tag == tag {
				return opt.Label
			}
		}
		return tag
	},
	"initial": func(s string) string {
		for _, r := range strings.TrimSpace(s) {
			return strings.ToUpper(string(r))
		}
		return "?"
	},
}

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
}

// render executes a page template with the values every layout needs.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = CurrentSession(c)
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Notice"]; !ok {
		data["Notice"] = c.Query("notice")
	}
	if _, ok := data["Error"]; !ok {
		data["Error"] = c.Query("error")
	}
	c.HTML(status, name, data)
}
