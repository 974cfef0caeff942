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
	"github.com/sanjerfit/webadmin-gateway/internal/collaborators/domain"
	"github.com/sanjerfit/webadmin-gateway/internal/collaborators/service"
)

// filter query params accepted by the list endpoint
var filterParams = []string{"search", "area", "level", "status", "bloodType"}

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

func (h *Handler) get(c *gin.Context) {
	col, err := h.svc.Get(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "collaborator not found"})
			return
		}
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "collaborator": col})
}

func (h *Handler) create(c *gin.Context) {
	in, photo, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if photo != nil {
		defer photo.file.Close()
	}

	col, err := h.svc.Create(c.Request.Context(), api.Token(c), api.SessionID(c), in, photo.upload())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "collaborator": col})
}

func (h *Handler) update(c *gin.Context) {
	in, photo, err := bindInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if photo != nil {
		defer photo.file.Close()
	}

	col, err := h.svc.Update(c.Request.Context(), api.Token(c), api.SessionID(c), c.Param("id"), in, photo.upload())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "collaborator": col})
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

// attachment pairs the multipart file with its header so the handler can
// close it after the upstream call.
type attachment struct {
	file   multipart.File
	header *multipart.FileHeader
}

func (a *attachment) upload() *backend.Upload {
	if a == nil {
		return nil
	}
	return &backend.Upload{Field: "foto", Filename: a.header.Filename, Content: a.file}
}

// bindInput accepts either a JSON body or a multipart form with an optional
// photo, mirroring how the console submits the edit form.
func bindInput(c *gin.Context) (service.Input, *attachment, error) {
	ct := c.ContentType()
	if strings.HasPrefix(ct, "multipart/form-data") {
		return bindMultipart(c)
	}

	var req inputReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.Input{}, nil, err
	}
	return req.input(), nil, nil
}

type inputReq struct {
	Name              *string  `json:"name"`
	Email             *string  `json:"email"`
	Phone             *string  `json:"phone"`
	Area              *string  `json:"area"`
	Level             *string  `json:"level"`
	Status            *string  `json:"status"`
	Address           *string  `json:"address"`
	Occupation        *string  `json:"occupation"`
	Weight            *float64 `json:"weight"`
	Height            *float64 `json:"height"`
	BloodType         *string  `json:"bloodType"`
	Allergies         *string  `json:"allergies"`
	MedicalConditions *string  `json:"medicalConditions"`
	Password          *string  `json:"password"`
	PasswordConfirm   *string  `json:"passwordConfirm"`
}

func (r inputReq) input() service.Input {
	return service.Input{
		Name:              r.Name,
		Email:             r.Email,
		Phone:             r.Phone,
		Area:              r.Area,
		Level:             r.Level,
		Status:            r.Status,
		Address:           r.Address,
		Occupation:        r.Occupation,
		Weight:            r.Weight,
		Height:            r.Height,
		BloodType:         r.BloodType,
		Allergies:         r.Allergies,
		MedicalConditions: r.MedicalConditions,
		Password:          r.Password,
		PasswordConfirm:   r.PasswordConfirm,
	}
}

func bindMultipart(c *gin.Context) (service.Input, *attachment, error) {
	var in service.Input

	str := func(name string) *string {
		if v, ok := c.GetPostForm(name); ok {
			return &v
		}
		return nil
	}
	num := func(name string) *float64 {
		v, ok := c.GetPostForm(name)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &f
	}

	in.Name = str("name")
	in.Email = str("email")
	in.Phone = str("phone")
	in.Area = str("area")
	in.Level = str("level")
	in.Status = str("status")
	in.Address = str("address")
	in.Occupation = str("occupation")
	in.Weight = num("weight")
	in.Height = num("height")
	in.BloodType = str("bloodType")
	in.Allergies = str("allergies")
	in.MedicalConditions = str("medicalConditions")
	in.Password = str("password")
	in.PasswordConfirm = str("passwordConfirm")

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, nil
		}
		return in, nil, err
	}
	return in, &attachment{file: file, header: header}, nil
}
