package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/talia/go-boutique-api/internal/config"
	"github.com/talia/go-boutique-api/internal/dto"
	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/service"
)

type CategoryHandler struct {
	svc     *service.CatalogService
	uploads config.UploadConfig
}

func NewCategoryHandler(svc *service.CatalogService, uploads config.UploadConfig) *CategoryHandler {
	return &CategoryHandler{svc: svc, uploads: uploads}
}

// Create accepts multipart form data: text fields plus image files and/or
// image URL fields. A comma-separated sizes value fans out into one catalog
// row per size.
func (h *CategoryHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	name := formValue(form, "name")
	priceRaw := formValue(form, "price")
	if name == "" || priceRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
		return
	}
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	sizesRaw := formValue(form, "sizes")
	if sizesRaw == "" {
		sizesRaw = formValue(form, "size")
	}
	sizes := splitSizes(sizesRaw)
	if sizesRaw != "" && len(sizes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid sizes provided"})
		return
	}

	images, err := h.resolveImages(c, form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ids, err := h.svc.Create(c.Request.Context(), dto.CreateCategoryInput{
		Name:        name,
		Price:       price,
		Sizes:       sizes,
		Material:    formValue(form, "material"),
		Color:       formValue(form, "color"),
		Description: formValue(form, "description"),
		Images:      images,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if len(ids) == 1 {
		c.JSON(http.StatusCreated, gin.H{"categoryId": ids[0]})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"categoryIds": ids, "sizesCreated": len(ids)})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	category, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, service.ToCategoryResponse(category))
}

func (h *CategoryHandler) List(c *gin.Context) {
	var req dto.ListCategoriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, pagination, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price filter"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.CategoryListResponse{
		Categories: toCategoryResponses(categories),
		Pagination: pagination,
	})
}

func (h *CategoryHandler) Grouped(c *gin.Context) {
	grouped, err := h.svc.Grouped(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := make(map[string][]dto.CategoryResponse, len(grouped))
	for name, categories := range grouped {
		resp[name] = toCategoryResponses(categories)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) ByName(c *gin.Context) {
	var req dto.CategoryNamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	categories, err := h.svc.ByName(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": toCategoryResponses(categories)})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	var in dto.UpdateCategoryInput
	if v, ok := formLookup(form, "name"); ok {
		in.Name = &v
	}
	if v, ok := formLookup(form, "price"); ok {
		price, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		in.Price = &price
	}
	if v, ok := formLookup(form, "size"); ok {
		in.Size = &v
	}
	if v, ok := formLookup(form, "material"); ok {
		in.Material = &v
	}
	if v, ok := formLookup(form, "color"); ok {
		in.Color = &v
	}
	if v, ok := formLookup(form, "description"); ok {
		in.Description = &v
	}

	_, urlsProvided := form.Value["images"]
	filesProvided := len(form.File["images"]) > 0
	if urlsProvided || filesProvided {
		images, err := h.resolveImages(c, form)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if images == nil {
			images = []string{}
		}
		in.Images = images
	}

	category, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, service.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, service.ToCategoryResponse(category))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveImages merges uploaded files and plain URL fields into one URL
// list before it reaches the service.
func (h *CategoryHandler) resolveImages(c *gin.Context, form *multipart.Form) ([]string, error) {
	var images []string

	for _, file := range form.File["images"] {
		name := uuid.New().String() + filepath.Ext(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(h.uploads.Dir, name)); err != nil {
			return nil, err
		}
		images = append(images, h.uploads.URLPrefix+"/"+name)
	}

	for _, url := range form.Value["images"] {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}
	return images, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func formLookup(form *multipart.Form, key string) (string, bool) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

func splitSizes(raw string) []string {
	if raw == "" {
		return nil
	}
	var sizes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

func toCategoryResponses(categories []model.Category) []dto.CategoryResponse {
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, service.ToCategoryResponse(&categories[i]))
	}
	return resp
}
