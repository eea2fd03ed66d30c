package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talia/go-boutique-api/internal/dto"
	"github.com/talia/go-boutique-api/internal/middleware"
	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/service"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

func (h *RatingHandler) Add(c *gin.Context) {
	var req dto.AddRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.svc.Add(c.Request.Context(), middleware.GetUserID(c), req.CategoryID, req.Rating, req.Review)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ratingId": rating.ID})
}

func (h *RatingHandler) Update(c *gin.Context) {
	ratingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating ID"})
		return
	}

	var req dto.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), ratingID, req.Rating, req.Review); err != nil {
		h.writeRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating updated"})
}

func (h *RatingHandler) Delete(c *gin.Context) {
	ratingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating ID"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.GetUserID(c), ratingID); err != nil {
		h.writeRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating deleted"})
}

func (h *RatingHandler) ForCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	ratings, stats, err := h.svc.ForCategory(c.Request.Context(), categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, toRatingListResponse(ratings, stats))
}

// ForUser lists the caller's own ratings for a category alongside the
// category-wide statistics.
func (h *RatingHandler) ForUser(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	ratings, stats, err := h.svc.ForUser(c.Request.Context(), middleware.GetUserID(c), categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, toRatingListResponse(ratings, stats))
}

func (h *RatingHandler) writeRatingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRatingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
	case errors.Is(err, service.ErrRatingForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "rating belongs to another user"})
	case errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func toRatingListResponse(ratings []model.Rating, stats model.RatingStats) dto.RatingListResponse {
	resp := make([]dto.RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		resp = append(resp, dto.RatingResponse{
			ID:         r.ID,
			UserID:     r.UserID,
			UserName:   r.UserName,
			CategoryID: r.CategoryID,
			Rating:     r.Rating,
			Review:     r.Review,
			CreatedAt:  r.CreatedAt,
		})
	}
	return dto.RatingListResponse{
		Ratings: resp,
		Statistics: dto.RatingStatsResponse{
			AverageRating: stats.AverageRating,
			TotalRatings:  stats.TotalRatings,
		},
	}
}
