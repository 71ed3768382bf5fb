package v1

import (
	"net/http"

	"banjara-intake-backend/internal/delivery/http/response"
	"banjara-intake-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// CategoryView is a category as exposed to form and table UIs
type CategoryView struct {
	domain.Category
	InitialStatus domain.Status `json:"initial_status"`
}

func NewCategoryHandler(public *gin.RouterGroup) {
	public.GET("/categories", ListCategories)
}

// ListCategories godoc
// @Summary      List Categories
// @Description  The four submission categories with their status sets.
// @Tags         categories
// @Produce      json
// @Success      200  {object}  response.Response{data=[]CategoryView}
// @Router       /categories [get]
func ListCategories(c *gin.Context) {
	cats := domain.Categories()
	views := make([]CategoryView, len(cats))
	for i, cat := range cats {
		views[i] = CategoryView{Category: cat, InitialStatus: cat.InitialStatus()}
	}
	response.Success(c, http.StatusOK, "Categories retrieved", views)
}
