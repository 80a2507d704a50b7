package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
)

type Controller interface {
	Health(c echo.Context) error
}

type controller struct{}

func NewHandler() Controller {
	return &controller{}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "complaint-registry",
	})
}

type messageResponse struct {
	Message string `json:"message"`
}

func paramID(c echo.Context, name string) (primitive.ObjectID, error) {
	return models.ParseID(c.Param(name))
}
