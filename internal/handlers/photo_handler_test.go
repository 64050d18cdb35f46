package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "cattery/internal/errors"
	"cattery/internal/middleware"
	"cattery/internal/models"
	"cattery/internal/pagination"
	"cattery/internal/services"
	"cattery/internal/validator"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 32)...)

func setupPhotoRouter(handler *PhotoHandler) *gin.Engine {
	r := gin.New()
	r.GET("/photos", handler.ListPhotos)
	r.POST("/photos", injectUserID(1), handler.CreatePhoto)
	r.POST("/photos/upload", injectUserID(1), middleware.ErrorHandler(),
		middleware.SingleImageUpload(1<<20), handler.UploadPhoto)
	r.POST("/photos/reorder", injectUserID(1), handler.ReorderPhotos)
	r.PATCH("/photos/:id", injectUserID(1), handler.UpdatePhoto)
	r.POST("/photos/:id/set-cover", injectUserID(1), handler.SetCover)
	r.DELETE("/photos/:id", injectUserID(1), handler.DeletePhoto)
	return r
}

func uploadRequest(t *testing.T, fields map[string]string, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if data != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="milo.png"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		_, _ = part.Write(data)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/photos/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestPhotoHandler_ListPhotos(t *testing.T) {
	t.Run("defaults to position order and reports the cat filter", func(t *testing.T) {
		var got *validator.PhotoListQuery
		photoSvc := &mockPhotoService{
			listPhotosFn: func(q *validator.PhotoListQuery) (*pagination.PageResponse[models.Photo], error) {
				got = q
				resp := pagination.NewPageResponse([]models.Photo{{Base: models.Base{ID: 1}, CatID: 3}}, q.Page, 1, q.Sort, q.Filters())
				return &resp, nil
			},
		}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/photos?catId=3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.CatID == nil || *got.CatID != 3 {
			t.Errorf("expected catId filter 3, got %v", got.CatID)
		}
		meta := parseJSON(t, rec)["meta"].(map[string]interface{})
		if meta["sort"] != "position:asc" {
			t.Errorf("expected default sort position:asc, got %v", meta["sort"])
		}
		if meta["filters"].(map[string]interface{})["catId"] != float64(3) {
			t.Errorf("unexpected filters: %v", meta["filters"])
		}
	})

	t.Run("returns 400 on invalid catId", func(t *testing.T) {
		r := setupPhotoRouter(NewPhotoHandler(&mockPhotoService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/photos?catId=zero", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPhotoHandler_UploadPhoto(t *testing.T) {
	t.Run("uploads the file with its form fields", func(t *testing.T) {
		var gotMeta *validator.PhotoUpload
		var gotData []byte
		photoSvc := &mockPhotoService{
			uploadPhotoFn: func(meta *validator.PhotoUpload, data []byte, filename string) (*models.Photo, error) {
				gotMeta, gotData = meta, data
				return &models.Photo{Base: models.Base{ID: 9}, CatID: meta.CatID, Cover: meta.Cover, Position: meta.Position}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, audit))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, map[string]string{"catId": "3", "cover": "true", "position": "2"}, "image/png", pngBytes))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotMeta.CatID != 3 || !gotMeta.Cover || gotMeta.Position != 2 {
			t.Errorf("unexpected meta: %+v", gotMeta)
		}
		if !bytes.Equal(gotData, pngBytes) {
			t.Error("expected the uploaded bytes to reach the service")
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditActionUpload {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("returns 400 without catId", func(t *testing.T) {
		r := setupPhotoRouter(NewPhotoHandler(&mockPhotoService{}, &mockAuditService{}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, nil, "image/png", pngBytes))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if _, ok := errorDetails(t, parseJSON(t, rec))["catId"]; !ok {
			t.Errorf("expected a catId violation: %s", rec.Body.String())
		}
	})

	t.Run("returns 400 without a file", func(t *testing.T) {
		r := setupPhotoRouter(NewPhotoHandler(&mockPhotoService{}, &mockAuditService{}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, map[string]string{"catId": "3"}, "", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FILE_REQUIRED")
	})

	t.Run("returns 415 for a non-image", func(t *testing.T) {
		r := setupPhotoRouter(NewPhotoHandler(&mockPhotoService{}, &mockAuditService{}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, map[string]string{"catId": "3"}, "text/plain", []byte("hello")))

		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when the image service fails", func(t *testing.T) {
		photoSvc := &mockPhotoService{
			uploadPhotoFn: func(_ *validator.PhotoUpload, _ []byte, _ string) (*models.Photo, error) {
				return nil, apperrors.ErrUpstream
			},
		}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, map[string]string{"catId": "3"}, "image/png", pngBytes))

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})
}

func TestPhotoHandler_CreatePhoto(t *testing.T) {
	t.Run("creates a photo from a URL", func(t *testing.T) {
		var got *validator.PhotoCreate
		photoSvc := &mockPhotoService{
			createPhotoFn: func(input *validator.PhotoCreate) (*models.Photo, error) {
				got = input
				return &models.Photo{Base: models.Base{ID: 4}, CatID: input.CatID, URL: input.URL, Cover: input.Cover}, nil
			},
		}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/photos", `{"catId":2,"url":"https://img.example/a.jpg","cover":true}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.CatID != 2 || got.URL != "https://img.example/a.jpg" || !got.Cover {
			t.Errorf("unexpected input: %+v", got)
		}
	})

	t.Run("returns 400 on a bad URL", func(t *testing.T) {
		r := setupPhotoRouter(NewPhotoHandler(&mockPhotoService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/photos", `{"catId":2,"url":"ftp://nope"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if _, ok := errorDetails(t, parseJSON(t, rec))["url"]; !ok {
			t.Errorf("expected a url violation: %s", rec.Body.String())
		}
	})

	t.Run("returns 404 for an unknown cat", func(t *testing.T) {
		photoSvc := &mockPhotoService{
			createPhotoFn: func(_ *validator.PhotoCreate) (*models.Photo, error) {
				return nil, apperrors.ErrCatNotFound
			},
		}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/photos", `{"catId":99,"url":"https://img.example/a.jpg"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestPhotoHandler_ReorderPhotos(t *testing.T) {
	t.Run("reorders photos", func(t *testing.T) {
		var got []validator.ReorderItem
		photoSvc := &mockPhotoService{
			reorderPhotosFn: func(items []validator.ReorderItem) ([]models.Photo, error) {
				got = items
				return []models.Photo{{Base: models.Base{ID: 2}, Position: 0}, {Base: models.Base{ID: 1}, Position: 1}}, nil
			},
		}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/photos/reorder", `{"items":[{"id":1,"position":1},{"id":2,"position":0}]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(got) != 2 || got[1].ID != 2 || *got[1].Position != 0 {
			t.Errorf("unexpected items: %+v", got)
		}
		if len(parseJSON(t, rec)["data"].([]interface{})) != 2 {
			t.Errorf("expected 2 photos: %s", rec.Body.String())
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"empty items", `{"items":[]}`},
		{"missing position", `{"items":[{"id":1}]}`},
		{"negative position", `{"items":[{"id":1,"position":-1}]}`},
		{"duplicate ids", `{"items":[{"id":1,"position":0},{"id":1,"position":1}]}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupPhotoRouter(NewPhotoHandler(&mockPhotoService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/photos/reorder", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "VALIDATION_FAILED")
		})
	}

	t.Run("returns 404 for an unknown photo", func(t *testing.T) {
		photoSvc := &mockPhotoService{
			reorderPhotosFn: func(_ []validator.ReorderItem) ([]models.Photo, error) {
				return nil, apperrors.ErrPhotoNotFound
			},
		}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/photos/reorder", `{"items":[{"id":42,"position":0}]}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestPhotoHandler_UpdatePhoto(t *testing.T) {
	t.Run("passes the patch to the service", func(t *testing.T) {
		var got *validator.PhotoPatch
		photoSvc := &mockPhotoService{
			updatePhotoFn: func(id uint, patch *validator.PhotoPatch) (*models.Photo, error) {
				got = patch
				return &models.Photo{Base: models.Base{ID: id}, Position: *patch.Position}, nil
			},
		}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

		rec := doRequest(r, "PATCH", "/photos/3", `{"position":5}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Position == nil || *got.Position != 5 || got.Cover != nil || got.URL != nil {
			t.Errorf("unexpected patch: %+v", got)
		}
	})

	t.Run("rejects a null cover", func(t *testing.T) {
		r := setupPhotoRouter(NewPhotoHandler(&mockPhotoService{}, &mockAuditService{}))

		rec := doRequest(r, "PATCH", "/photos/3", `{"cover":null}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPhotoHandler_SetCover(t *testing.T) {
	photoSvc := &mockPhotoService{
		setCoverFn: func(id uint) (*models.Photo, error) {
			return &models.Photo{Base: models.Base{ID: id}, CatID: 2, Cover: true}, nil
		},
	}
	r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

	rec := doRequest(r, "POST", "/photos/8/set-cover", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["message"] != "Cover updated" {
		t.Errorf("unexpected message: %v", result["message"])
	}
	photo := result["photo"].(map[string]interface{})
	if photo["id"] != float64(8) || photo["cover"] != true {
		t.Errorf("unexpected photo: %v", photo)
	}
}

func TestPhotoHandler_DeletePhoto(t *testing.T) {
	t.Run("returns a confirmation", func(t *testing.T) {
		r := setupPhotoRouter(NewPhotoHandler(&mockPhotoService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/photos/8", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["message"] != "Photo deleted" {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		photoSvc := &mockPhotoService{
			deletePhotoFn: func(_ uint) error { return apperrors.ErrPhotoNotFound },
		}
		r := setupPhotoRouter(NewPhotoHandler(photoSvc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/photos/8", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PHOTO_NOT_FOUND")
	})
}
