package handler

import (
	"errors"
	"net/http"
	"strconv"

	"barstockwise/internal/apierror"
	"barstockwise/internal/dto"
	"barstockwise/internal/middleware"
	"barstockwise/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipesHandler struct{ svc service.RecipeService }

func NewRecipesHandler(svc service.RecipeService) *RecipesHandler {
	return &RecipesHandler{svc: svc}
}

// Create godoc
// @Summary      Create a recipe
// @Description  Attaches a bill of ingredients to a product. A product can
// @Description  have at most one active recipe; creating a new one replaces it.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRecipeRequest true "New recipe"
// @Success      201  {object} dto.RecipeResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/recipes [post]
func (h *RecipesHandler) Create(c *gin.Context) {
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
	var req dto.CreateRecipeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateRecipe(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get a recipe
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Recipe UUID"
// @Success      200 {object} dto.RecipeResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/recipes/{id} [get]
func (h *RecipesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Recipe not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to fetch recipe"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List recipes
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.RecipeResponse
// @Router       /v1/recipes [get]
func (h *RecipesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list recipes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a recipe
// @Description  Replaces the recipe's ingredient rows and metadata atomically.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Recipe UUID"
// @Param        body body dto.UpdateRecipeRequest true "Fields to update"
// @Success      200  {object} dto.RecipeResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/recipes/{id} [put]
func (h *RecipesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateRecipeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateRecipe(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Deactivate a recipe
// @Tags         recipes
// @Security     BearerAuth
// @Param        id path string true "Recipe UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/recipes/{id} [delete]
func (h *RecipesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.DeleteRecipe(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Availability godoc
// @Summary      Check recipe availability
// @Description  Dry run. Reports whether the requested portions can be
// @Description  prepared with current stock, which ingredients would be
// @Description  substituted, and the full shortfall list. No stock is touched.
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id              path  string true  "Recipe UUID"
// @Param        portions        query int    false "Portions" default(1)
// @Param        use_substitutes query bool   false "Consult substitution rules for shortfalls"
// @Success      200 {object} dto.AvailabilityReport
// @Failure      404 {object} apierror.APIError
// @Router       /v1/recipes/{id}/availability [get]
func (h *RecipesHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	portions, err := strconv.Atoi(c.DefaultQuery("portions", "1"))
	if err != nil || portions < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("portions must be a positive integer"))
		return
	}
	useSubstitutes := c.Query("use_substitutes") == "true"

	resp, err := h.svc.ValidateAvailability(c.Request.Context(), id, portions, useSubstitutes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Recipe not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to check availability"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Consume godoc
// @Summary      Consume recipe ingredients
// @Description  Decrements stock for every ingredient of the recipe, all or
// @Description  nothing. Returns 409 with the complete shortfall list when the
// @Description  recipe cannot be covered; no partial decrement ever persists.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "Recipe UUID"
// @Param        body body dto.ConsumeRequest true "Portions to prepare"
// @Success      200  {object} dto.ConsumeResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.StockError
// @Router       /v1/recipes/{id}/consume [post]
func (h *RecipesHandler) Consume(c *gin.Context) {
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
	var req dto.ConsumeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Consume(c.Request.Context(), id, userID, req)
	if err != nil {
		var stockErr *service.InsufficientStockError
		if errors.As(err, &stockErr) {
			c.JSON(http.StatusConflict, apierror.NewStock(stockErr.Error(), stockErr.Shortfalls))
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Recipe not found"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecalculateCost godoc
// @Summary      Recalculate product cost
// @Description  Re-derives the product's purchase price from the current
// @Description  ingredient prices of its active recipe and persists it.
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.RecalculateCostResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id}/recalculate-cost [post]
func (h *RecipesHandler) RecalculateCost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.RecalculateCost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Product or active recipe not found"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSubstitution godoc
// @Summary      Create a substitution rule
// @Description  Declares that one ingredient may stand in for another at a
// @Description  conversion ratio. Both must belong to the same unit class.
// @Tags         substitutions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSubstitutionRequest true "New rule"
// @Success      201  {object} dto.SubstitutionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/substitutions [post]
func (h *RecipesHandler) CreateSubstitution(c *gin.Context) {
	var req dto.CreateSubstitutionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSubstitution(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSubstitutions godoc
// @Summary      List substitution rules
// @Tags         substitutions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.SubstitutionResponse
// @Router       /v1/substitutions [get]
func (h *RecipesHandler) ListSubstitutions(c *gin.Context) {
	resp, err := h.svc.ListSubstitutions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list substitutions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSubstitution godoc
// @Summary      Deactivate a substitution rule
// @Tags         substitutions
// @Security     BearerAuth
// @Param        id path string true "Substitution UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/substitutions/{id} [delete]
func (h *RecipesHandler) DeleteSubstitution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.DeleteSubstitution(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
