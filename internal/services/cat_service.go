package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "cattery/internal/errors"
	"cattery/internal/logger"
	"cattery/internal/models"
	"cattery/internal/pagination"
	"cattery/internal/storage"
	"cattery/internal/validator"
)

// catService handles the cat catalog.
type catService struct {
	db     *gorm.DB
	images storage.ImageStore
}

// NewCatService creates a new CatServicer. images is used to remove the
// remote assets of photos deleted along with a cat.
func NewCatService(db *gorm.DB, images storage.ImageStore) CatServicer {
	return &catService{db: db, images: images}
}

// photosByPosition preloads photos in display order.
func photosByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// ListCats returns a filtered, sorted page of cats with their photos.
func (s *catService) ListCats(ctx context.Context, query *validator.CatListQuery) (*pagination.PageResponse[models.Cat], error) {
	page := query.Page
	page.Defaults()

	filter := func(db *gorm.DB) *gorm.DB {
		if query.Type != nil {
			db = db.Where("type = ?", *query.Type)
		}
		if query.Status != nil {
			db = db.Where("status = ?", *query.Status)
		}
		if query.Gender != nil {
			db = db.Where("gender = ?", *query.Gender)
		}
		return db
	}
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Cat{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cats []models.Cat
	if err := db.Scopes(filter, pagination.Order(query.Sort, "id"), pagination.Paginate(page)).
		Preload("Photos", photosByPosition).
		Find(&cats).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range cats {
		if cats[i].Photos == nil {
			cats[i].Photos = []models.Photo{}
		}
	}

	result := pagination.NewPageResponse(cats, page, total, query.Sort, query.Filters())
	return &result, nil
}

// GetCatByID retrieves a cat with its photos.
func (s *catService) GetCatByID(ctx context.Context, id uint) (*models.Cat, error) {
	return s.findCat(s.db.WithContext(ctx), id, true)
}

func (s *catService) findCat(db *gorm.DB, id uint, withPhotos bool) (*models.Cat, error) {
	var cat models.Cat
	q := db
	if withPhotos {
		q = q.Preload("Photos", photosByPosition)
	}
	if err := q.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCatNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if cat.Photos == nil {
		cat.Photos = []models.Photo{}
	}
	return &cat, nil
}

// checkParents verifies that every parent id references an existing cat
// other than self (0 when creating).
func (s *catService) checkParents(db *gorm.DB, self uint, father, mother *uint) error {
	v := validator.Violations{}
	for field, id := range map[string]*uint{"fatherId": father, "motherId": mother} {
		if id == nil {
			continue
		}
		if *id == self {
			v.Add(field, field+" cannot reference the cat itself")
			continue
		}
		var count int64
		if err := db.Model(&models.Cat{}).Where("id = ?", *id).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			v.Add(field, fmt.Sprintf("%s references unknown cat %d", field, *id))
		}
	}
	return v.Err()
}

// CreateCat persists a validated cat record.
func (s *catService) CreateCat(ctx context.Context, record validator.CatRecord) (*models.Cat, error) {
	cat := record.ToModel()
	db := s.db.WithContext(ctx)

	if err := s.checkParents(db, 0, cat.FatherID, cat.MotherID); err != nil {
		return nil, err
	}
	if err := db.Omit("Photos", "Father", "Mother").Create(cat).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	cat.Photos = []models.Photo{}
	return cat, nil
}

// UpdateCat validates raw against the stored cat and applies the provided
// fields.
func (s *catService) UpdateCat(ctx context.Context, id uint, raw map[string]any) (*models.Cat, error) {
	db := s.db.WithContext(ctx)
	cat, err := s.findCat(db, id, false)
	if err != nil {
		return nil, err
	}

	patch, violations := validator.ValidateCatUpdate(raw, cat.Type)
	if err := violations.Err(); err != nil {
		return nil, err
	}
	if err := s.checkParents(db, cat.ID, patch.FatherID.Value, patch.MotherID.Value); err != nil {
		return nil, err
	}

	if updates := patch.Updates(); len(updates) > 0 {
		if err := db.Model(&models.Cat{}).Where("id = ?", cat.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.findCat(db, cat.ID, true)
}

// DeleteCat removes the cat and its photos in one transaction. Links from
// kittens are cleared. Remote assets of the removed photos are deleted after
// commit; failures there are logged only.
func (s *catService) DeleteCat(ctx context.Context, id uint) error {
	var publicIDs []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat, err := s.findCat(tx, id, true)
		if err != nil {
			return err
		}
		for _, p := range cat.Photos {
			if p.PublicID != nil && *p.PublicID != "" {
				publicIDs = append(publicIDs, *p.PublicID)
			}
		}

		if err := tx.Where("cat_id = ?", cat.ID).Delete(&models.Photo{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.Cat{}).Where("father_id = ?", cat.ID).Update("father_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.Cat{}).Where("mother_id = ?", cat.ID).Update("mother_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Cat{}, cat.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	removeImages(ctx, s.images, publicIDs)
	return nil
}

// removeImages deletes remote assets best-effort.
func removeImages(ctx context.Context, images storage.ImageStore, publicIDs []string) {
	if images == nil {
		return
	}
	for _, id := range publicIDs {
		if err := images.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Get().Warnw("Failed to delete remote image", "public_id", id, "error", err)
		}
	}
}
