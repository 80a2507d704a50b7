package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/complaint-registry/internal/server/middleware"
	"github.com/nguyentranbao-ct/complaint-registry/internal/usecase"
)

type AuthController interface {
	Register(c echo.Context) error
	Login(c echo.Context) error
	GetProfile(c echo.Context) error
	UpdateProfile(c echo.Context) error
}

type authController struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthController(authUsecase usecase.AuthUsecase) AuthController {
	return &authController{
		authUsecase: authUsecase,
	}
}

func (ac *authController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	response, err := ac.authUsecase.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, response)
}

func (ac *authController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	response, err := ac.authUsecase.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response)
}

func (ac *authController) GetProfile(c echo.Context) error {
	user := pkgmdw.CurrentUser(c)
	profile, err := ac.authUsecase.GetProfile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

type profileResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

func (ac *authController) UpdateProfile(c echo.Context) error {
	user := pkgmdw.CurrentUser(c)

	var req models.ProfileUpdateRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := ac.authUsecase.UpdateProfile(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{
		Message: "Profile updated successfully",
		User:    updated,
	})
}
