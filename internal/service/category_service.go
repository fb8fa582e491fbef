package service

import (
	"context"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/events"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/model"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/repository"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, name string, fields []model.DynamicField) (int64, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListCategoryFields(ctx context.Context, categoryID int64) ([]model.DynamicField, error)
	ListBasicFields(ctx context.Context) ([]model.BasicField, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	publisher    events.EventPublisher
}

func NewCategoryService(repo repository.CategoryRepository, pub events.EventPublisher) CategoryService {
	return &categoryService{categoryRepo: repo, publisher: pub}
}

func (s *categoryService) CreateCategory(ctx context.Context, name string, fields []model.DynamicField) (int64, error) {
	categoryID, err := s.categoryRepo.CreateWithFields(ctx, name, fields)

	if err != nil {
		return 0, err
	}

	go s.publisher.PublishCategoryCreated(categoryID, name, len(fields))

	return categoryID, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) ListCategoryFields(ctx context.Context, categoryID int64) ([]model.DynamicField, error) {
	return s.categoryRepo.ListFieldsByCategory(ctx, categoryID)
}

func (s *categoryService) ListBasicFields(ctx context.Context) ([]model.BasicField, error) {
	return s.categoryRepo.ListBasicFields(ctx)
}
