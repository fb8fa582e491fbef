package service

import (
	"context"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/events"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/model"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/repository"
)

type UserService interface {
	SubmitForm(ctx context.Context, user *model.User, values []model.DynamicValue) (int64, error)
	Search(ctx context.Context, filter repository.SearchFilter) ([]model.SearchResult, error)
}

type userService struct {
	userRepo  repository.UserRepository
	publisher events.EventPublisher
}

func NewUserService(repo repository.UserRepository, pub events.EventPublisher) UserService {
	return &userService{userRepo: repo, publisher: pub}
}

// SubmitForm persists the fixed attributes and the extracted dynamic values
// atomically. Values are stored as raw text; they are not checked against the
// field's declared type or its is_required flag.
func (s *userService) SubmitForm(ctx context.Context, user *model.User, values []model.DynamicValue) (int64, error) {
	userID, err := s.userRepo.CreateWithValues(ctx, user, values)

	if err != nil {
		return 0, err
	}

	go s.publisher.PublishFormSubmitted(userID, user.Name, len(values))

	return userID, nil
}

// Search runs the filtered user query and the unconditional dynamic-field
// aggregation, then merges them in memory. The aggregation deliberately
// ignores the filters: a matched user shows their full profile, not just the
// values that happened to match.
func (s *userService) Search(ctx context.Context, filter repository.SearchFilter) ([]model.SearchResult, error) {
	results, err := s.userRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	fieldsByUser, err := s.userRepo.DynamicFieldsByUser(ctx)
	if err != nil {
		return nil, err
	}

	for i := range results {
		cells, ok := fieldsByUser[results[i].ID]
		if !ok || cells == nil {
			cells = []model.DynamicFieldCell{}
		}
		results[i].DynamicFields = cells
	}

	return results, nil
}
