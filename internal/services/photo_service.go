package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cattery/internal/errors"
	"cattery/internal/logger"
	"cattery/internal/models"
	"cattery/internal/pagination"
	"cattery/internal/storage"
	"cattery/internal/validator"
)

// photoService handles cat photos and their remote assets.
type photoService struct {
	db     *gorm.DB
	images storage.ImageStore
}

// NewPhotoService creates a new PhotoServicer.
func NewPhotoService(db *gorm.DB, images storage.ImageStore) PhotoServicer {
	return &photoService{db: db, images: images}
}

// ListPhotos returns a sorted page of photos, optionally for one cat.
func (s *photoService) ListPhotos(ctx context.Context, query *validator.PhotoListQuery) (*pagination.PageResponse[models.Photo], error) {
	page := query.Page
	page.Defaults()

	filter := func(db *gorm.DB) *gorm.DB {
		if query.CatID != nil {
			db = db.Where("cat_id = ?", *query.CatID)
		}
		return db
	}
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Photo{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var photos []models.Photo
	if err := db.Scopes(filter, pagination.Order(query.Sort, "id"), pagination.Paginate(page)).
		Find(&photos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(photos, page, total, query.Sort, query.Filters())
	return &result, nil
}

// GetPhotoByID retrieves a photo by ID
func (s *photoService) GetPhotoByID(ctx context.Context, id uint) (*models.Photo, error) {
	return findPhoto(s.db.WithContext(ctx), id)
}

func findPhoto(db *gorm.DB, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := db.First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPhotoNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &photo, nil
}

func (s *photoService) ensureCat(db *gorm.DB, catID uint) error {
	var count int64
	if err := db.Model(&models.Cat{}).Where("id = ?", catID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCatNotFound
	}
	return nil
}

// catForUpdate selects the cat row under a row lock. Cover changes on one cat
// serialize on it, so concurrent calls never both pass the clear step.
// sqlite has no row locks and drops the clause.
func catForUpdate(tx *gorm.DB, catID uint) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&models.Cat{}).Select("id").Where("id = ?", catID).Limit(1)
}

// clearCover unsets the cover flag on every photo of catID except keep.
func clearCover(tx *gorm.DB, catID, keep uint) error {
	var cat models.Cat
	res := catForUpdate(tx, catID).Find(&cat)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCatNotFound
	}

	q := tx.Model(&models.Photo{}).Where("cat_id = ? AND cover = ?", catID, true)
	if keep != 0 {
		q = q.Where("id <> ?", keep)
	}
	if err := q.Update("cover", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// insert creates photo, clearing the previous cover first when photo is the
// new one.
func (s *photoService) insert(ctx context.Context, photo *models.Photo) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if photo.Cover {
			if err := clearCover(tx, photo.CatID, 0); err != nil {
				return err
			}
		}
		if err := tx.Create(photo).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// UploadPhoto stores the image remotely, then records it. The remote asset is
// removed again when the record cannot be written.
func (s *photoService) UploadPhoto(ctx context.Context, meta *validator.PhotoUpload, data []byte, filename string) (*models.Photo, error) {
	if err := s.ensureCat(s.db.WithContext(ctx), meta.CatID); err != nil {
		return nil, err
	}

	uploaded, err := s.images.Upload(ctx, data, filename)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	publicID := uploaded.PublicID
	photo := &models.Photo{
		CatID:    meta.CatID,
		URL:      uploaded.URL,
		PublicID: &publicID,
		Cover:    meta.Cover,
		Position: meta.Position,
	}
	if err := s.insert(ctx, photo); err != nil {
		removeImages(context.WithoutCancel(ctx), s.images, []string{publicID})
		return nil, err
	}
	return photo, nil
}

// CreatePhoto records a photo hosted at an external URL.
func (s *photoService) CreatePhoto(ctx context.Context, input *validator.PhotoCreate) (*models.Photo, error) {
	if err := s.ensureCat(s.db.WithContext(ctx), input.CatID); err != nil {
		return nil, err
	}

	photo := &models.Photo{
		CatID:    input.CatID,
		URL:      input.URL,
		Cover:    input.Cover,
		Position: input.Position,
	}
	if err := s.insert(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// UpdatePhoto applies a partial update. Setting cover clears it on the
// sibling photos in the same transaction.
func (s *photoService) UpdatePhoto(ctx context.Context, id uint, patch *validator.PhotoPatch) (*models.Photo, error) {
	var photo *models.Photo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if photo, err = findPhoto(tx, id); err != nil {
			return err
		}

		updates := patch.Updates()
		if patch.Cover != nil {
			if *patch.Cover {
				if err := clearCover(tx, photo.CatID, photo.ID); err != nil {
					return err
				}
			}
			updates["cover"] = *patch.Cover
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(photo).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		photo, err = findPhoto(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// SetCover makes the photo the only cover of its cat.
func (s *photoService) SetCover(ctx context.Context, id uint) (*models.Photo, error) {
	var photo *models.Photo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if photo, err = findPhoto(tx, id); err != nil {
			return err
		}
		if err := clearCover(tx, photo.CatID, photo.ID); err != nil {
			return err
		}
		if err := tx.Model(photo).Update("cover", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		photo, err = findPhoto(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// ReorderPhotos sets the position of every listed photo in one transaction.
// An unknown id rolls back the whole operation.
func (s *photoService) ReorderPhotos(ctx context.Context, items []validator.ReorderItem) ([]models.Photo, error) {
	ids := make([]uint, 0, len(items))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			res := tx.Model(&models.Photo{}).Where("id = ?", it.ID).Update("position", *it.Position)
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.WithMessage(apperrors.ErrPhotoNotFound, fmt.Sprintf("Photo %d not found", it.ID))
			}
			ids = append(ids, it.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var photos []models.Photo
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).
		Order("cat_id ASC").Order("position ASC").Order("id ASC").
		Find(&photos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return photos, nil
}

// DeletePhoto removes the remote asset best-effort, then the record.
func (s *photoService) DeletePhoto(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	photo, err := findPhoto(db, id)
	if err != nil {
		return err
	}

	if photo.PublicID != nil && *photo.PublicID != "" {
		removeImages(ctx, s.images, []string{*photo.PublicID})
	} else {
		logger.Get().Debugw("Photo has no remote asset", "photo_id", photo.ID)
	}

	if err := db.Delete(&models.Photo{}, photo.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
