package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	api "github.com/sanjerfit/webadmin-gateway/internal/api/http"
	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/generalinfo/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/generalinfo/service"
)

func (h *Handler) list(c *gin.Context) {
	q := service.ListQuery{
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     api.IntQuery(c, "page"),
		PageSize: api.IntQuery(c, "per_page"),
	}

	page, err := h.svc.List(c.Request.Context(), api.Token(c), api.SessionID(c), q)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "page": page})
}

func (h *Handler) create(c *gin.Context) {
	in, closeFiles, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	defer closeFiles()

	p, err := h.svc.Create(c.Request.Context(), api.Token(c), api.SessionID(c), in)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "post": p})
}

func (h *Handler) update(c *gin.Context) {
	in, closeFiles, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	defer closeFiles()

	p, err := h.svc.Update(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), in)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "post": p})
}

func (h *Handler) delete(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"

	err := h.svc.Delete(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), confirmed)
	if err != nil {
		if errors.Is(err, domain.ErrConfirmRequired) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "confirm_required": true})
			return
		}
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		api.RespondError(c, err)
	}
}

// bindInput accepts a JSON body or a multipart form carrying image and video
// files in their respective slots.
func bindInput(c *gin.Context) (service.Input, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req inputReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return service.Input{}, noop, err
		}
		return service.Input{
			Title:    req.Title,
			Content:  req.Content,
			ImageURL: req.ImageURL,
			VideoURL: req.VideoURL,
		}, noop, nil
	}

	var in service.Input
	str := func(name string) *string {
		if v, ok := c.GetPostForm(name); ok {
			return &v
		}
		return nil
	}
	in.Title = str("title")
	in.Content = str("content")
	in.ImageURL = str("imageUrl")
	in.VideoURL = str("videoUrl")

	var open []multipart.File
	closeFiles := func() {
		for _, f := range open {
			f.Close()
		}
	}

	for _, slot := range []struct {
		field string
		dst   **backend.Upload
	}{
		{"image", &in.Image},
		{"video", &in.Video},
	} {
		file, header, err := c.Request.FormFile(slot.field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			closeFiles()
			return service.Input{}, noop, err
		}
		open = append(open, file)
		*slot.dst = &backend.Upload{Field: "file", Filename: header.Filename, Content: file}
	}

	return in, closeFiles, nil
}

type inputReq struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"imageUrl"`
	VideoURL *string `json:"videoUrl"`
}
