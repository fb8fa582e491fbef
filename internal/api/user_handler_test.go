package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/api"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/model"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/repository"
)

type fakeUserService struct {
	submittedUser   *model.User
	submittedValues []model.DynamicValue
	submitErr       error

	searchFilter  repository.SearchFilter
	searchResults []model.SearchResult
	searchErr     error
}

func (f *fakeUserService) SubmitForm(ctx context.Context, user *model.User, values []model.DynamicValue) (int64, error) {
	f.submittedUser = user
	f.submittedValues = values
	return 11, f.submitErr
}

func (f *fakeUserService) Search(ctx context.Context, filter repository.SearchFilter) ([]model.SearchResult, error) {
	f.searchFilter = filter
	return f.searchResults, f.searchErr
}

func newUserApp(svc *fakeUserService) *fiber.App {
	app := fiber.New()
	h := api.NewUserHandler(svc)
	app.Post("/api/submit", h.Submit)
	app.Get("/api/search", h.Search)
	return app
}

func TestSubmit_SplitsFixedAndDynamicKeys(t *testing.T) {
	svc := &fakeUserService{}
	app := newUserApp(svc)

	body := `{
		"name": "Ada",
		"age": 30,
		"gender": "F",
		"email": "a@example.com",
		"address": "1 Main St",
		"category-field-7": "12345",
		"category-field-9": 42,
		"unrelated-key": "dropped",
		"category-field-abc": "dropped too"
	}`
	resp := postJSON(t, app, "/api/submit", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Equal(t, "Ada", svc.submittedUser.Name)
	require.Equal(t, 30, svc.submittedUser.Age)
	require.Equal(t, "F", svc.submittedUser.Gender)
	require.Equal(t, "a@example.com", svc.submittedUser.Email)
	require.Equal(t, "1 Main St", svc.submittedUser.Address)

	require.Len(t, svc.submittedValues, 2)
	byID := map[int64]string{}
	for _, v := range svc.submittedValues {
		byID[v.DynamicFieldID] = v.Value
	}
	require.Equal(t, "12345", byID[7])
	require.Equal(t, "42", byID[9])
}

func TestSubmit_NoDynamicKeys(t *testing.T) {
	svc := &fakeUserService{}
	app := newUserApp(svc)

	resp := postJSON(t, app, "/api/submit", `{"name":"Bob","age":41,"gender":"M","email":"b@example.com","address":"2 Side St"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Empty(t, svc.submittedValues)
}

func TestSubmit_ServiceError(t *testing.T) {
	svc := &fakeUserService{submitErr: errors.New("db down")}
	app := newUserApp(svc)

	resp := postJSON(t, app, "/api/submit", `{"name":"Ada"}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(data), "db down")
}

func TestSearch_PassesFilters(t *testing.T) {
	svc := &fakeUserService{searchResults: []model.SearchResult{}}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search?name=ada&age=30&category=vend", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, "ada", svc.searchFilter.Name)
	require.Equal(t, "30", svc.searchFilter.Age)
	require.Equal(t, "vend", svc.searchFilter.Category)
	require.Equal(t, "", svc.searchFilter.Gender)
}

func TestSearch_ResponseShape(t *testing.T) {
	svc := &fakeUserService{searchResults: []model.SearchResult{
		{
			ID: 1, Name: "Ada", Age: 30, Gender: "F", Email: "a@example.com",
			Address: "1 Main St", Category: "Vendor",
			DynamicFields: []model.DynamicFieldCell{{FieldName: "TaxID", FieldValue: "12345", FieldType: "text"}},
		},
	}}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded struct {
		Users []map[string]interface{} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Users, 1)
	require.Equal(t, "Vendor", decoded.Users[0]["category"])

	fields, ok := decoded.Users[0]["dynamic_fields"].([]interface{})
	require.True(t, ok)
	require.Len(t, fields, 1)
	cell := fields[0].(map[string]interface{})
	require.Equal(t, "TaxID", cell["fieldName"])
	require.Equal(t, "12345", cell["fieldValue"])
	require.Equal(t, "text", cell["fieldType"])
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	svc := &fakeUserService{searchResults: []model.SearchResult{}}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search?name=nobody", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded struct {
		Users []model.SearchResult `json:"users"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Empty(t, decoded.Users)
}

func TestSearch_ServiceError(t *testing.T) {
	svc := &fakeUserService{searchErr: errors.New("db down")}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
