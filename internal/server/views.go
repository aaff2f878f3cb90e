package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"watchparty/internal/mw"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const errorView = "error.tmpl"

// 页面模板编译进二进制，部署时无需携带 web 目录。
var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

type views struct {
	t *template.Template
}

// render 先把整页渲染进缓冲区再写出，模板出错时返回错误页而不是半截页面。
func (v *views) render(c *gin.Context, status int, name string, data gin.H) {
	var buf bytes.Buffer
	if err := v.t.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Str("view", name).Msg("render view")
		v.renderError(c)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (v *views) renderError(c *gin.Context) {
	var buf bytes.Buffer
	if err := v.t.ExecuteTemplate(&buf, errorView, gin.H{"RequestID": mw.GetRequestID(c)}); err != nil {
		log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Msg("render error view")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", buf.Bytes())
}
