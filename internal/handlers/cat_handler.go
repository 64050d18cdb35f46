package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cattery/internal/services"
	"cattery/internal/validator"
)

// CatHandler handles cat catalog requests.
type CatHandler struct {
	catService   services.CatServicer
	auditService services.AuditServicer
}

// NewCatHandler creates a new CatHandler.
func NewCatHandler(catService services.CatServicer, auditService services.AuditServicer) *CatHandler {
	return &CatHandler{catService: catService, auditService: auditService}
}

// ListCats returns a filtered, sorted page of cats with their photos
// @Summary     List cats
// @Description Page through cats. Filters are combined with AND.
// @Tags        cats
// @Produce     json
// @Param       page   query int    false "Page number (default 1)"
// @Param       limit  query int    false "Page size, 1-100 (default 20)"
// @Param       sort   query string false "field:asc|desc (default createdAt:desc)"
// @Param       type   query string false "breeder or kitten"
// @Param       status query string false "available, reserved or sold"
// @Param       gender query string false "male or female"
// @Success     200 {object} pagination.PageResponse[models.Cat]
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cats [get]
func (h *CatHandler) ListCats(c *gin.Context) {
	query, v := validator.ValidateCatListQuery(queryMap(c))
	if err := v.Err(); err != nil {
		respondWithError(c, err)
		return
	}

	page, err := h.catService.ListCats(c.Request.Context(), query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetCat returns one cat with its photos
// @Summary     Get a cat
// @Tags        cats
// @Produce     json
// @Param       id path int true "Cat ID"
// @Success     200 {object} models.Cat
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Cat not found"
// @Router      /cats/{id} [get]
func (h *CatHandler) GetCat(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cat, err := h.catService.GetCatByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// CreateCat creates a breeder or a kitten
// @Summary     Create a cat
// @Description Kittens need fatherId and motherId; breeders may carry sire/dam details instead.
// @Tags        cats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.Cat true "Cat"
// @Success     201 {object} models.Cat
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /cats [post]
func (h *CatHandler) CreateCat(c *gin.Context) {
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
	record, v := validator.ValidateCatCreate(raw)
	if err := v.Err(); err != nil {
		respondWithError(c, err)
		return
	}

	cat, err := h.catService.CreateCat(c.Request.Context(), record)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceCat, cat.ID, c.ClientIP(), raw)
	c.JSON(http.StatusCreated, cat)
}

// UpdateCat applies a partial update to a cat
// @Summary     Update a cat
// @Description Only the supplied fields change. The type of a cat cannot change.
// @Tags        cats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int        true "Cat ID"
// @Param       request body models.Cat true "Fields to change"
// @Success     200 {object} models.Cat
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     404 {object} ErrorResponse "Cat not found"
// @Router      /cats/{id} [put]
func (h *CatHandler) UpdateCat(c *gin.Context) {
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

	cat, err := h.catService.UpdateCat(c.Request.Context(), id, raw)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceCat, cat.ID, c.ClientIP(), raw)
	c.JSON(http.StatusOK, cat)
}

// DeleteCat deletes a cat and its photos
// @Summary     Delete a cat
// @Tags        cats
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Cat ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Cat not found"
// @Router      /cats/{id} [delete]
func (h *CatHandler) DeleteCat(c *gin.Context) {
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

	if err := h.catService.DeleteCat(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceCat, id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, MessageResponse{Message: "Cat deleted"})
}
