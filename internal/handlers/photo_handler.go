package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cattery/internal/errors"
	"cattery/internal/middleware"
	"cattery/internal/models"
	"cattery/internal/services"
	"cattery/internal/validator"
)

// PhotoHandler handles cat photo requests.
type PhotoHandler struct {
	photoService services.PhotoServicer
	auditService services.AuditServicer
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService services.PhotoServicer, auditService services.AuditServicer) *PhotoHandler {
	return &PhotoHandler{photoService: photoService, auditService: auditService}
}

// CoverResponse is returned after a photo becomes the cover.
type CoverResponse struct {
	Message string       `json:"message"`
	Photo   models.Photo `json:"photo"`
}

// ReorderResponse lists the photos after a reorder.
type ReorderResponse struct {
	Data []models.Photo `json:"data"`
}

// ListPhotos returns a sorted page of photos
// @Summary     List photos
// @Tags        photos
// @Produce     json
// @Param       page  query int    false "Page number (default 1)"
// @Param       limit query int    false "Page size, 1-100 (default 20)"
// @Param       sort  query string false "field:asc|desc (default position:asc)"
// @Param       catId query int    false "Only photos of this cat"
// @Success     200 {object} pagination.PageResponse[models.Photo]
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Router      /photos [get]
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	query, v := validator.ValidatePhotoListQuery(queryMap(c))
	if err := v.Err(); err != nil {
		respondWithError(c, err)
		return
	}

	page, err := h.photoService.ListPhotos(c.Request.Context(), query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UploadPhoto stores an image and attaches it to a cat
// @Summary     Upload a photo
// @Description Multipart upload. The image goes in "file"; catId, cover and position are form fields.
// @Tags        photos
// @Accept      mpfd
// @Produce     json
// @Security    BearerAuth
// @Param       file     formData file   true  "Image"
// @Param       catId    formData int    true  "Cat ID"
// @Param       cover    formData bool   false "Make this the cover photo"
// @Param       position formData int    false "Display position"
// @Success     201 {object} models.Photo
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     404 {object} ErrorResponse "Cat not found"
// @Failure     413 {object} ErrorResponse "File too large"
// @Failure     415 {object} ErrorResponse "Not an image"
// @Failure     502 {object} ErrorResponse "Image service unavailable"
// @Router      /photos/upload [post]
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, ok := middleware.GetUpload(c)
	if !ok {
		respondWithError(c, apperrors.ErrFileRequired)
		return
	}
	meta, v := validator.ValidatePhotoUpload(middleware.GetFormValues(c))
	if err := v.Err(); err != nil {
		respondWithError(c, err)
		return
	}

	photo, err := h.photoService.UploadPhoto(c.Request.Context(), meta, file.Data, file.Filename)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpload, services.AuditResourcePhoto, photo.ID, c.ClientIP(),
		map[string]interface{}{"catId": photo.CatID, "filename": file.Filename, "cover": photo.Cover})
	c.JSON(http.StatusCreated, photo)
}

// CreatePhoto attaches an externally hosted image to a cat
// @Summary     Create a photo from a URL
// @Tags        photos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.Photo true "catId, url, cover and position"
// @Success     201 {object} models.Photo
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     404 {object} ErrorResponse "Cat not found"
// @Router      /photos [post]
func (h *PhotoHandler) CreatePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	raw, err := bindRaw(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	input, v := validator.ValidatePhotoCreate(raw)
	if err := v.Err(); err != nil {
		respondWithError(c, err)
		return
	}

	photo, err := h.photoService.CreatePhoto(c.Request.Context(), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourcePhoto, photo.ID, c.ClientIP(), raw)
	c.JSON(http.StatusCreated, photo)
}

// ReorderPhotos moves photos to new positions
// @Summary     Reorder photos
// @Description All positions change in one transaction; an unknown photo aborts the whole call.
// @Tags        photos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body validator.ReorderRequest true "New positions"
// @Success     200 {object} ReorderResponse
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     404 {object} ErrorResponse "Photo not found"
// @Router      /photos/reorder [post]
func (h *PhotoHandler) ReorderPhotos(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req validator.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, validator.FromBindingError(err).Err())
		return
	}
	if err := validator.ValidateReorder(&req).Err(); err != nil {
		respondWithError(c, err)
		return
	}

	photos, err := h.photoService.ReorderPhotos(c.Request.Context(), req.Items)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionReorder, services.AuditResourcePhoto, 0, c.ClientIP(),
		map[string]interface{}{"items": req.Items})
	c.JSON(http.StatusOK, ReorderResponse{Data: photos})
}

// UpdatePhoto changes the url, cover flag or position of a photo
// @Summary     Update a photo
// @Tags        photos
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int          true "Photo ID"
// @Param       request body models.Photo true "Fields to change"
// @Success     200 {object} models.Photo
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     404 {object} ErrorResponse "Photo not found"
// @Router      /photos/{id} [patch]
func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	raw, err := bindRaw(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	patch, v := validator.ValidatePhotoUpdate(raw)
	if err := v.Err(); err != nil {
		respondWithError(c, err)
		return
	}

	photo, err := h.photoService.UpdatePhoto(c.Request.Context(), id, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourcePhoto, photo.ID, c.ClientIP(), raw)
	c.JSON(http.StatusOK, photo)
}

// SetCover makes a photo the cover of its cat
// @Summary     Set the cover photo
// @Description The previous cover of the same cat is cleared.
// @Tags        photos
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Photo ID"
// @Success     200 {object} CoverResponse
// @Failure     404 {object} ErrorResponse "Photo not found"
// @Router      /photos/{id}/set-cover [post]
func (h *PhotoHandler) SetCover(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	photo, err := h.photoService.SetCover(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionSetCover, services.AuditResourcePhoto, photo.ID, c.ClientIP(),
		map[string]interface{}{"catId": photo.CatID})
	c.JSON(http.StatusOK, CoverResponse{Message: "Cover updated", Photo: *photo})
}

// DeletePhoto deletes a photo and its stored image
// @Summary     Delete a photo
// @Tags        photos
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Photo ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Photo not found"
// @Router      /photos/{id} [delete]
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.photoService.DeletePhoto(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourcePhoto, id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, MessageResponse{Message: "Photo deleted"})
}
