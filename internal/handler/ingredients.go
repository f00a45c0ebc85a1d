package handler

import (
	"errors"
	"net/http"

	"barstockwise/internal/apierror"
	"barstockwise/internal/dto"
	"barstockwise/internal/middleware"
	"barstockwise/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredientsHandler struct{ svc service.IngredientService }

func NewIngredientsHandler(svc service.IngredientService) *IngredientsHandler {
	return &IngredientsHandler{svc: svc}
}

// Create godoc
// @Summary      Create an ingredient
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateIngredientRequest true "New ingredient"
// @Success      201  {object} dto.IngredientResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ingredients [post]
func (h *IngredientsHandler) Create(c *gin.Context) {
	var req dto.CreateIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get an ingredient
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ingredient UUID"
// @Success      200 {object} dto.IngredientResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ingredients/{id} [get]
func (h *IngredientsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Ingredient not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to fetch ingredient"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List ingredients
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Param        name        query string false "Name contains"
// @Param        supplier_id query string false "Supplier UUID"
// @Param        active      query string false "false | all, default active-only"
// @Param        low_stock   query bool   false "Only ingredients at or below threshold"
// @Param        page        query int    false "Page" default(1)
// @Param        limit       query int    false "Page size" default(20)
// @Success      200 {object} dto.IngredientListResponse
// @Router       /v1/ingredients [get]
func (h *IngredientsHandler) List(c *gin.Context) {
	var filter dto.IngredientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list ingredients"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update an ingredient
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                      true "Ingredient UUID"
// @Param        body body dto.UpdateIngredientRequest true "Fields to update"
// @Success      200  {object} dto.IngredientResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ingredients/{id} [put]
func (h *IngredientsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Deactivate an ingredient
// @Description  Soft delete. The ingredient stays referenced by historical
// @Description  movements and recipes but is excluded from new consumption.
// @Tags         ingredients
// @Security     BearerAuth
// @Param        id path string true "Ingredient UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ingredients/{id} [delete]
func (h *IngredientsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivate an ingredient
// @Tags         ingredients
// @Security     BearerAuth
// @Param        id path string true "Ingredient UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ingredients/{id}/reactivate [post]
func (h *IngredientsHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Adjust ingredient stock
// @Description  Signed manual correction or waste write-off. Waste quantities
// @Description  must be negative. Stock can never go below zero.
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Ingredient UUID"
// @Param        body body dto.AdjustStockRequest true "Adjustment"
// @Success      200  {object} dto.IngredientResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.StockError
// @Router       /v1/ingredients/{id}/adjust-stock [post]
func (h *IngredientsHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Missing credentials"))
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid credentials"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, userID, req)
	if err != nil {
		var stockErr *service.InsufficientStockError
		if errors.As(err, &stockErr) {
			c.JSON(http.StatusConflict, apierror.NewStock(stockErr.Error(), stockErr.Shortfalls))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMovements godoc
// @Summary      List stock movements
// @Description  Append-only ledger of every stock change, newest first.
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Param        ingredient_id query string false "Ingredient UUID"
// @Param        reason        query string false "consumption | purchase | adjustment | waste"
// @Param        page          query int    false "Page" default(1)
// @Param        limit         query int    false "Page size" default(50)
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/movements [get]
func (h *IngredientsHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAlerts godoc
// @Summary      List low-stock alerts
// @Description  Active ingredients whose remaining quantity is at or below
// @Description  their alert threshold.
// @Tags         ingredients
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StockAlertResponse
// @Router       /v1/ingredients/alerts [get]
func (h *IngredientsHandler) ListAlerts(c *gin.Context) {
	resp, err := h.svc.ListAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
