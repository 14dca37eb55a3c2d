package handler

import (
	"net/http"
	"strconv"

	"foodcourt/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalog *usecase.CatalogUsecase
}

func NewCatalogHandler(catalog *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// メニュー閲覧は未ログインでも可
func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/shops/:shopID/menu", h.menu)
}

func (h *CatalogHandler) menu(c echo.Context) error {
	shopID, err := strconv.ParseInt(c.Param("shopID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid shop id"})
	}

	out, err := h.catalog.ListMenu(c.Request().Context(), shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
