package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/complaint-registry/internal/server/middleware"
	"github.com/nguyentranbao-ct/complaint-registry/internal/usecase"
)

type AdminController interface {
	ListUsers(c echo.Context) error
	ListAgents(c echo.Context) error
	ListCustomers(c echo.Context) error
	GetUser(c echo.Context) error
	UpdateUser(c echo.Context) error
	DeleteUser(c echo.Context) error
	Dashboard(c echo.Context) error
	ListUnassigned(c echo.Context) error
	BulkAssign(c echo.Context) error
}

type adminController struct {
	adminUsecase     usecase.AdminUsecase
	complaintUsecase usecase.ComplaintUsecase
}

func NewAdminController(adminUsecase usecase.AdminUsecase, complaintUsecase usecase.ComplaintUsecase) AdminController {
	return &adminController{
		adminUsecase:     adminUsecase,
		complaintUsecase: complaintUsecase,
	}
}

type userResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

func (ac *adminController) ListUsers(c echo.Context) error {
	role := models.Role(c.QueryParam("role"))
	if role != "" && !role.Valid() {
		return models.BadRequest("invalid role")
	}
	return ac.listUsers(c, role)
}

func (ac *adminController) ListAgents(c echo.Context) error {
	return ac.listUsers(c, models.RoleAgent)
}

func (ac *adminController) ListCustomers(c echo.Context) error {
	return ac.listUsers(c, models.RoleCustomer)
}

func (ac *adminController) listUsers(c echo.Context, role models.Role) error {
	users, err := ac.adminUsecase.ListUsers(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (ac *adminController) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	user, err := ac.adminUsecase.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (ac *adminController) UpdateUser(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}
	id, err := models.ParseID(req.ID)
	if err != nil {
		return err
	}

	user, err := ac.adminUsecase.UpdateUser(c.Request().Context(), pkgmdw.CurrentUser(c), id, models.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{
		Message: "User updated successfully",
		User:    user,
	})
}

func (ac *adminController) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := ac.adminUsecase.DeleteUser(c.Request().Context(), pkgmdw.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

func (ac *adminController) Dashboard(c echo.Context) error {
	dashboard, err := ac.adminUsecase.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}

func (ac *adminController) ListUnassigned(c echo.Context) error {
	complaints, err := ac.complaintUsecase.ListUnassigned(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaints)
}

func (ac *adminController) BulkAssign(c echo.Context) error {
	var req models.BulkAssignRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}
	ids, err := models.ParseIDs(req.ComplaintIDs)
	if err != nil {
		return err
	}
	agentID, err := models.ParseID(req.AgentID)
	if err != nil {
		return err
	}

	modified, err := ac.complaintUsecase.BulkAssign(c.Request().Context(), pkgmdw.CurrentUser(c), ids, agentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.BulkAssignResponse{
		Message:       fmt.Sprintf("%d complaints assigned successfully", modified),
		ModifiedCount: modified,
	})
}
