package services

import (
	"context"

	"cattery/internal/models"
	"cattery/internal/pagination"
	"cattery/internal/validator"
)

// UserServicer defines the contract for back-office account logic.
type UserServicer interface {
	CreateUser(username, password string, role models.Role) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
}

// CatServicer defines the contract for the cat catalog.
type CatServicer interface {
	ListCats(ctx context.Context, query *validator.CatListQuery) (*pagination.PageResponse[models.Cat], error)
	GetCatByID(ctx context.Context, id uint) (*models.Cat, error)
	CreateCat(ctx context.Context, record validator.CatRecord) (*models.Cat, error)
	UpdateCat(ctx context.Context, id uint, raw map[string]any) (*models.Cat, error)
	DeleteCat(ctx context.Context, id uint) error
}

// PhotoServicer defines the contract for cat photos.
type PhotoServicer interface {
	ListPhotos(ctx context.Context, query *validator.PhotoListQuery) (*pagination.PageResponse[models.Photo], error)
	GetPhotoByID(ctx context.Context, id uint) (*models.Photo, error)
	UploadPhoto(ctx context.Context, meta *validator.PhotoUpload, data []byte, filename string) (*models.Photo, error)
	CreatePhoto(ctx context.Context, input *validator.PhotoCreate) (*models.Photo, error)
	UpdatePhoto(ctx context.Context, id uint, patch *validator.PhotoPatch) (*models.Photo, error)
	SetCover(ctx context.Context, id uint) (*models.Photo, error)
	ReorderPhotos(ctx context.Context, items []validator.ReorderItem) ([]models.Photo, error)
	DeletePhoto(ctx context.Context, id uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
