package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cattery/internal/logger"
	"cattery/internal/middleware"
	"cattery/internal/models"
	"cattery/internal/pagination"
	"cattery/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn        func(username, password string, role models.Role) (*models.User, error)
	getUserByUsernameFn func(username string) (*models.User, error)
	getUserByIDFn       func(id uint) (*models.User, error)
	verifyPasswordFn    func(user *models.User, password string) bool
	attemptLoginFn      func(username, password string) (*models.User, error)
	changePasswordFn    func(userID uint, current, next string) error
}

func (m *mockUserService) CreateUser(username, password string, role models.Role) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(username, password, role)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByUsername(username string) (*models.User, error) {
	if m.getUserByUsernameFn != nil {
		return m.getUserByUsernameFn(username)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) AttemptLogin(username, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) ChangePassword(userID uint, current, next string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(userID, current, next)
	}
	return nil
}

type mockCatService struct {
	listCatsFn   func(query *validator.CatListQuery) (*pagination.PageResponse[models.Cat], error)
	getCatByIDFn func(id uint) (*models.Cat, error)
	createCatFn  func(record validator.CatRecord) (*models.Cat, error)
	updateCatFn  func(id uint, raw map[string]any) (*models.Cat, error)
	deleteCatFn  func(id uint) error
}

func (m *mockCatService) ListCats(_ context.Context, query *validator.CatListQuery) (*pagination.PageResponse[models.Cat], error) {
	if m.listCatsFn != nil {
		return m.listCatsFn(query)
	}
	resp := pagination.NewPageResponse[models.Cat](nil, query.Page, 0, query.Sort, query.Filters())
	return &resp, nil
}

func (m *mockCatService) GetCatByID(_ context.Context, id uint) (*models.Cat, error) {
	if m.getCatByIDFn != nil {
		return m.getCatByIDFn(id)
	}
	return &models.Cat{Base: models.Base{ID: id}}, nil
}

func (m *mockCatService) CreateCat(_ context.Context, record validator.CatRecord) (*models.Cat, error) {
	if m.createCatFn != nil {
		return m.createCatFn(record)
	}
	cat := record.ToModel()
	cat.ID = 1
	return cat, nil
}

func (m *mockCatService) UpdateCat(_ context.Context, id uint, raw map[string]any) (*models.Cat, error) {
	if m.updateCatFn != nil {
		return m.updateCatFn(id, raw)
	}
	return &models.Cat{Base: models.Base{ID: id}}, nil
}

func (m *mockCatService) DeleteCat(_ context.Context, id uint) error {
	if m.deleteCatFn != nil {
		return m.deleteCatFn(id)
	}
	return nil
}

type mockPhotoService struct {
	listPhotosFn    func(query *validator.PhotoListQuery) (*pagination.PageResponse[models.Photo], error)
	uploadPhotoFn   func(meta *validator.PhotoUpload, data []byte, filename string) (*models.Photo, error)
	createPhotoFn   func(input *validator.PhotoCreate) (*models.Photo, error)
	updatePhotoFn   func(id uint, patch *validator.PhotoPatch) (*models.Photo, error)
	setCoverFn      func(id uint) (*models.Photo, error)
	reorderPhotosFn func(items []validator.ReorderItem) ([]models.Photo, error)
	deletePhotoFn   func(id uint) error
}

func (m *mockPhotoService) ListPhotos(_ context.Context, query *validator.PhotoListQuery) (*pagination.PageResponse[models.Photo], error) {
	if m.listPhotosFn != nil {
		return m.listPhotosFn(query)
	}
	resp := pagination.NewPageResponse[models.Photo](nil, query.Page, 0, query.Sort, query.Filters())
	return &resp, nil
}

func (m *mockPhotoService) GetPhotoByID(_ context.Context, id uint) (*models.Photo, error) {
	return &models.Photo{Base: models.Base{ID: id}}, nil
}

func (m *mockPhotoService) UploadPhoto(_ context.Context, meta *validator.PhotoUpload, data []byte, filename string) (*models.Photo, error) {
	if m.uploadPhotoFn != nil {
		return m.uploadPhotoFn(meta, data, filename)
	}
	return &models.Photo{Base: models.Base{ID: 1}, CatID: meta.CatID, Cover: meta.Cover}, nil
}

func (m *mockPhotoService) CreatePhoto(_ context.Context, input *validator.PhotoCreate) (*models.Photo, error) {
	if m.createPhotoFn != nil {
		return m.createPhotoFn(input)
	}
	return &models.Photo{Base: models.Base{ID: 1}, CatID: input.CatID, URL: input.URL}, nil
}

func (m *mockPhotoService) UpdatePhoto(_ context.Context, id uint, patch *validator.PhotoPatch) (*models.Photo, error) {
	if m.updatePhotoFn != nil {
		return m.updatePhotoFn(id, patch)
	}
	return &models.Photo{Base: models.Base{ID: id}}, nil
}

func (m *mockPhotoService) SetCover(_ context.Context, id uint) (*models.Photo, error) {
	if m.setCoverFn != nil {
		return m.setCoverFn(id)
	}
	return &models.Photo{Base: models.Base{ID: id}, Cover: true}, nil
}

func (m *mockPhotoService) ReorderPhotos(_ context.Context, items []validator.ReorderItem) ([]models.Photo, error) {
	if m.reorderPhotosFn != nil {
		return m.reorderPhotosFn(items)
	}
	return []models.Photo{}, nil
}

func (m *mockPhotoService) DeletePhoto(_ context.Context, id uint) error {
	if m.deletePhotoFn != nil {
		return m.deletePhotoFn(id)
	}
	return nil
}

type auditEntry struct {
	userID       uint
	action       string
	resourceType string
	resourceID   uint
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(userID uint, action, resourceType string, resourceID uint, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

var testTokens = middleware.NewTokenManager("handler-test-secret", time.Hour)

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// errorDetails returns the field violations of an error response.
func errorDetails(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	details, ok := errObj["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected details in error, got: %v", errObj)
	}
	return details
}
