package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	api "github.com/sanjerfit/webadmin-gateway/internal/api/http"
	"github.com/sanjerfit/webadmin-gateway/internal/backend"
	"github.com/sanjerfit/webadmin-gateway/internal/premios/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/premios/service"
)

var filterParams = []string{"search", "active", "redeemable"}

func (h *Handler) list(c *gin.Context) {
	q := service.ListQuery{
		Filters:  map[string]string{},
		Sort:     c.Query("sort"),
		Page:     api.IntQuery(c, "page"),
		PageSize: api.IntQuery(c, "per_page"),
	}
	for _, name := range filterParams {
		if v, ok := c.GetQuery(name); ok {
			q.Filters[name] = v
		}
	}

	page, err := h.svc.List(c.Request.Context(), api.Token(c), api.SessionID(c), q)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "page": page})
}

func (h *Handler) create(c *gin.Context) {
	in, image, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if image != nil {
		defer image.file.Close()
	}

	p, err := h.svc.Create(c.Request.Context(), api.Token(c), api.SessionID(c), in, image.upload())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "premio": p})
}

func (h *Handler) update(c *gin.Context) {
	in, image, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if image != nil {
		defer image.file.Close()
	}

	p, err := h.svc.Update(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), in, image.upload())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "premio": p})
}

func (h *Handler) toggle(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"

	p, err := h.svc.Toggle(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), confirmed)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "premio": p})
}

func (h *Handler) delete(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"

	err := h.svc.Delete(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), confirmed)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type stockReq struct {
	Delta int `json:"delta"`
}

func (h *Handler) adjustStock(c *gin.Context) {
	var req stockReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.AdjustStock(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), req.Delta)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "premio": p})
}

type deliverReq struct {
	CollaboratorID string `json:"collaboratorId"`
	CoinFits       *int   `json:"coinFits"`
}

func (h *Handler) deliver(c *gin.Context) {
	var req deliverReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.CollaboratorID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	coins := -1
	if req.CoinFits != nil {
		coins = *req.CoinFits
	}

	p, err := h.svc.Deliver(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), req.CollaboratorID, coins)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "premio": p})
}

func (h *Handler) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "premio not found"})
	case errors.Is(err, domain.ErrConfirmRequired):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "confirm_required": true})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotRedeemable):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "premio is not redeemable"})
	case errors.Is(err, domain.ErrInsufficientCoins):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "collaborator does not have enough CoinFits"})
	default:
		api.RespondError(c, err)
	}
}

type attachment struct {
	file   multipart.File
	header *multipart.FileHeader
}

func (a *attachment) upload() *backend.Upload {
	if a == nil {
		return nil
	}
	return &backend.Upload{Field: "imagen", Filename: a.header.Filename, Content: a.file}
}

func bindInput(c *gin.Context) (service.Input, *attachment, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return bindMultipart(c)
	}

	var req inputReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.Input{}, nil, err
	}
	return service.Input{
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}, nil, nil
}

type inputReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Cost        *int    `json:"cost"`
	Stock       *int    `json:"stock"`
	ImageURL    *string `json:"imageUrl"`
}

func bindMultipart(c *gin.Context) (service.Input, *attachment, error) {
	var in service.Input

	str := func(name string) *string {
		if v, ok := c.GetPostForm(name); ok {
			return &v
		}
		return nil
	}
	num := func(name string) *int {
		v, ok := c.GetPostForm(name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil
		}
		return &n
	}

	in.Name = str("name")
	in.Description = str("description")
	in.Cost = num("cost")
	in.Stock = num("stock")
	in.ImageURL = str("imageUrl")

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, nil
		}
		return in, nil, err
	}
	return in, &attachment{file: file, header: header}, nil
}
