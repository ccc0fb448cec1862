package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rxlens/catalog/internal/models"
	"github.com/rxlens/catalog/internal/services"
	"github.com/rxlens/catalog/internal/utils"
	"gorm.io/datatypes"
)

const maxImageSize = 10 << 20

type CatalogHandler struct {
	svc services.CatalogService
}

func NewCatalogHandler(svc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	out, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Products(c *gin.Context) {
	out, err := h.svc.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Product(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type ImageInput struct {
	Src      string `json:"src" binding:"required"`
	Alt      string `json:"alt"`
	PublicID string `json:"publicId"`
}

type SaveProductRequest struct {
	ID          string           `json:"id"`
	Name        string           `json:"name" binding:"required"`
	CategoryID  string           `json:"categoryId" binding:"required"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Attributes  *json.RawMessage `json:"attributes,omitempty"`
	Images      []ImageInput     `json:"images"`
}

func (h *CatalogHandler) SaveProduct(c *gin.Context) {
	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CatalogHandler.SaveProduct", "invalid request body", err))
		return
	}

	in := services.SaveProductInput{
		ID:          req.ID,
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Attributes != nil {
		in.Attributes = datatypes.JSON(*req.Attributes)
	}
	for _, img := range req.Images {
		in.Images = append(in.Images, models.ProductImage{Src: img.Src, Alt: img.Alt, PublicID: img.PublicID})
	}

	p, err := h.svc.SaveProduct(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UploadImage ingests a multipart "file" through the configured media backend.
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	const op = "CatalogHandler.UploadImage"

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 || fh.Size > maxImageSize {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	ct := http.DetectContentType(head)
	if !isImageType(ct) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid content type (must be an image)", nil))
		return
	}

	r := &readJoin{a: bytes.NewReader(head), b: file}
	img, err := h.svc.AddImage(c.Request.Context(), c.Param("id"), fh.Filename, ct, c.PostForm("alt"), r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, img)
}

func isImageType(ct string) bool {
	switch ct {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp":
		return true
	}
	return false
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
