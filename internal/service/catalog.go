package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/talia/go-boutique-api/internal/dto"
	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidPrice     = errors.New("invalid price")
)

const categoryCacheTTL = 60 * time.Second

type CatalogService struct {
	categoryRepo repository.CategoryRepository
	redisClient  *redis.Client
}

func NewCatalogService(categoryRepo repository.CategoryRepository, redisClient *redis.Client) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, redisClient: redisClient}
}

// Create fans a multi-size input out into one catalog row per size, all
// sharing the remaining fields and image list. Without sizes it creates a
// single row.
func (s *CatalogService) Create(ctx context.Context, in dto.CreateCategoryInput) ([]uuid.UUID, error) {
	if in.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	sizes := in.Sizes
	if len(sizes) == 0 {
		sizes = []string{""}
	}

	var ids []uuid.UUID
	for _, size := range sizes {
		category := &model.Category{
			Name:        in.Name,
			Price:       in.Price,
			Size:        size,
			Material:    in.Material,
			Color:       in.Color,
			Description: in.Description,
			Images:      in.Images,
		}
		if err := s.categoryRepo.Create(ctx, category); err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		ids = append(ids, category.ID)
	}
	return ids, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	cacheKey := "category:" + id.String()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var c model.Category
			if json.Unmarshal([]byte(cached), &c) == nil {
				return &c, nil
			}
		}
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(category); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, categoryCacheTTL)
		}
	}
	return category, nil
}

func (s *CatalogService) List(ctx context.Context, req dto.ListCategoriesRequest) ([]model.Category, dto.Pagination, error) {
	filter := repository.CategoryFilter{
		Name:     req.Name,
		Size:     req.Size,
		Material: req.Material,
		Color:    req.Color,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if req.MinPrice != "" {
		min, err := decimal.NewFromString(req.MinPrice)
		if err != nil {
			return nil, dto.Pagination{}, ErrInvalidPrice
		}
		filter.MinPrice = &min
	}
	if req.MaxPrice != "" {
		max, err := decimal.NewFromString(req.MaxPrice)
		if err != nil {
			return nil, dto.Pagination{}, ErrInvalidPrice
		}
		filter.MaxPrice = &max
	}

	categories, total, err := s.categoryRepo.List(ctx, filter)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("list categories: %w", err)
	}

	pagination := dto.Pagination{
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
		HasMore: req.Offset+len(categories) < total,
	}
	return categories, pagination, nil
}

// Grouped buckets the whole catalog by exact name, newest first within each
// bucket.
func (s *CatalogService) Grouped(ctx context.Context) (map[string][]model.Category, error) {
	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	grouped := make(map[string][]model.Category)
	for _, c := range categories {
		grouped[c.Name] = append(grouped[c.Name], c)
	}
	return grouped, nil
}

func (s *CatalogService) ByName(ctx context.Context, name string) ([]model.Category, error) {
	return s.categoryRepo.ListByName(ctx, name)
}

// Update merges the partial input over the stored row; a non-nil image list
// replaces the stored one wholesale.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, in dto.UpdateCategoryInput) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if in.Name != nil {
		category.Name = *in.Name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		category.Price = *in.Price
	}
	if in.Size != nil {
		category.Size = *in.Size
	}
	if in.Material != nil {
		category.Material = *in.Material
	}
	if in.Color != nil {
		category.Color = *in.Color
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	replaceImages := in.Images != nil
	if replaceImages {
		category.Images = in.Images
	}

	if err := s.categoryRepo.Update(ctx, category, replaceImages); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.invalidateCache(ctx, id)
	return category, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *CatalogService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "category:"+id.String())
	}
}

func ToCategoryResponse(c *model.Category) dto.CategoryResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Price:       c.Price,
		Size:        c.Size,
		Material:    c.Material,
		Color:       c.Color,
		Description: c.Description,
		Images:      images,
		CreatedAt:   c.CreatedAt,
	}
}
