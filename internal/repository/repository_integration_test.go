package repository

import (
	"context"
	"log"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/model"
	_ "github.com/prasanna-0103/dynamic-forms-backend/migrations"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	db           *sqlx.DB
	categoryRepo CategoryRepository
	userRepo     UserRepository
	pgc          *postgres.PostgresContainer
	ctx          context.Context
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	assert.NoError(s.T(), err)

	db, err := sqlx.Connect("pgx", connStr)
	assert.NoError(s.T(), err)
	s.db = db

	err = goose.Up(db.DB, "../../migrations")
	assert.NoError(s.T(), err)

	s.categoryRepo = NewPostgresCategoryRepository(s.db)
	s.userRepo = NewPostgresUserRepository(s.db)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *RepositoryIntegrationTestSuite) TestCreateCategoryAndListFields() {
	fields := []model.DynamicField{
		{Name: "TaxID", FieldType: "text", IsRequired: true},
		{Name: "Founded", FieldType: "date", IsRequired: false},
	}

	categoryID, err := s.categoryRepo.CreateWithFields(s.ctx, "Vendor", fields)
	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), categoryID)

	categories, err := s.categoryRepo.List(s.ctx)
	assert.NoError(s.T(), err)

	found := false
	for _, c := range categories {
		if c.ID == categoryID {
			found = true
			assert.Equal(s.T(), "Vendor", c.Name)
		}
	}
	assert.True(s.T(), found)

	stored, err := s.categoryRepo.ListFieldsByCategory(s.ctx, categoryID)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), stored, 2)

	byName := map[string]model.DynamicField{}
	for _, f := range stored {
		byName[f.Name] = f
	}
	assert.Equal(s.T(), "text", byName["TaxID"].FieldType)
	assert.True(s.T(), byName["TaxID"].IsRequired)
	assert.Equal(s.T(), categoryID, byName["TaxID"].CategoryID)
	assert.Equal(s.T(), "date", byName["Founded"].FieldType)
	assert.False(s.T(), byName["Founded"].IsRequired)
}

func (s *RepositoryIntegrationTestSuite) TestCreateCategory_InvalidTypeRollsBack() {
	before, err := s.categoryRepo.List(s.ctx)
	assert.NoError(s.T(), err)

	// Violates the field_type CHECK constraint; the category row must not
	// survive the rollback.
	_, err = s.categoryRepo.CreateWithFields(s.ctx, "Broken", []model.DynamicField{
		{Name: "Bad", FieldType: "boolean", IsRequired: false},
	})
	assert.ErrorIs(s.T(), err, ErrQueryFailed)

	after, err := s.categoryRepo.List(s.ctx)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), len(before), len(after))
}

func (s *RepositoryIntegrationTestSuite) TestSubmitAndSearch() {
	categoryID, err := s.categoryRepo.CreateWithFields(s.ctx, "Customer", []model.DynamicField{
		{Name: "LoyaltyID", FieldType: "number", IsRequired: false},
	})
	assert.NoError(s.T(), err)

	storedFields, err := s.categoryRepo.ListFieldsByCategory(s.ctx, categoryID)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), storedFields, 1)
	fieldID := storedFields[0].ID

	user := &model.User{Name: "Ada", Age: 30, Gender: "F", Email: "a@example.com", Address: "1 Main St"}
	userID, err := s.userRepo.CreateWithValues(s.ctx, user, []model.DynamicValue{
		{DynamicFieldID: fieldID, Value: "12345"},
	})
	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), userID)

	// Partial, case-insensitive name match.
	results, err := s.userRepo.Search(s.ctx, SearchFilter{Name: "ada"})
	assert.NoError(s.T(), err)

	var match *model.SearchResult
	for i := range results {
		if results[i].ID == userID {
			match = &results[i]
		}
	}
	assert.NotNil(s.T(), match)
	assert.Equal(s.T(), "Customer", match.Category)

	fieldsByUser, err := s.userRepo.DynamicFieldsByUser(s.ctx)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), []model.DynamicFieldCell{
		{FieldName: "LoyaltyID", FieldValue: "12345", FieldType: "number"},
	}, fieldsByUser[userID])
}

func (s *RepositoryIntegrationTestSuite) TestSearch_NonNumericAge() {
	_, err := s.userRepo.Search(s.ctx, SearchFilter{Age: "abc"})
	assert.NoError(s.T(), err)
}

func (s *RepositoryIntegrationTestSuite) TestSearch_UserWithoutDynamicData() {
	user := &model.User{Name: "Plain", Age: 22, Gender: "M", Email: "p@example.com", Address: "3 Flat Rd"}
	userID, err := s.userRepo.CreateWithValues(s.ctx, user, nil)
	assert.NoError(s.T(), err)

	results, err := s.userRepo.Search(s.ctx, SearchFilter{Name: "plain"})
	assert.NoError(s.T(), err)
	assert.Len(s.T(), results, 1)
	assert.Equal(s.T(), "", results[0].Category)

	fieldsByUser, err := s.userRepo.DynamicFieldsByUser(s.ctx)
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), fieldsByUser[userID])
}

func TestRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}
