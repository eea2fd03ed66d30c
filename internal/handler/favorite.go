package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talia/go-boutique-api/internal/dto"
	"github.com/talia/go-boutique-api/internal/middleware"
	"github.com/talia/go-boutique-api/internal/service"
)

type FavoriteHandler struct {
	svc *service.FavoriteService
}

func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	var req dto.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fav, err := h.svc.Add(c.Request.Context(), middleware.GetUserID(c), req.CategoryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, service.ErrFavoriteExists):
			c.JSON(http.StatusConflict, gin.H{"error": "category is already in favorites"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": fav.ID, "categoryId": fav.CategoryID})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	if err := h.svc.Remove(c.Request.Context(), middleware.GetUserID(c), categoryID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from favorites"})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	favorites, err := h.svc.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	lines := make([]dto.FavoriteLineResponse, 0, len(favorites))
	for i := range favorites {
		fav := &favorites[i]
		lines = append(lines, dto.FavoriteLineResponse{
			ID:         fav.ID,
			CategoryID: fav.CategoryID,
			Category:   service.ToCategoryResponse(&fav.Category),
			CreatedAt:  fav.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, dto.FavoriteListResponse{Favorites: lines, Total: len(lines)})
}

func (h *FavoriteHandler) Check(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	favorited, err := h.svc.IsFavorited(c.Request.Context(), middleware.GetUserID(c), categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.FavoriteStatusResponse{CategoryID: categoryID, IsFavorited: favorited})
}

func (h *FavoriteHandler) Toggle(c *gin.Context) {
	var req dto.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorited, err := h.svc.Toggle(c.Request.Context(), middleware.GetUserID(c), req.CategoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	action := "removed"
	if favorited {
		action = "added"
	}
	c.JSON(http.StatusOK, dto.ToggleFavoriteResponse{
		Action:      action,
		CategoryID:  req.CategoryID,
		IsFavorited: favorited,
	})
}
