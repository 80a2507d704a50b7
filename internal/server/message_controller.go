package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/complaint-registry/internal/server/middleware"
	"github.com/nguyentranbao-ct/complaint-registry/internal/usecase"
)

type MessageController interface {
	Send(c echo.Context) error
	ListForComplaint(c echo.Context) error
	MarkRead(c echo.Context) error
	UnreadCount(c echo.Context) error
	Inbox(c echo.Context) error
}

type messageController struct {
	messageUsecase usecase.MessageUsecase
}

func NewMessageController(messageUsecase usecase.MessageUsecase) MessageController {
	return &messageController{
		messageUsecase: messageUsecase,
	}
}

type messageDataResponse struct {
	Message string              `json:"message"`
	Data    *models.MessageView `json:"data"`
}

func (mc *messageController) Send(c echo.Context) error {
	var req models.SendMessageRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	message, err := mc.messageUsecase.Send(c.Request().Context(), pkgmdw.CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageDataResponse{
		Message: "Message sent successfully",
		Data:    message,
	})
}

func (mc *messageController) ListForComplaint(c echo.Context) error {
	complaintID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	messages, err := mc.messageUsecase.ListForComplaint(c.Request().Context(), pkgmdw.CurrentUser(c), complaintID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

func (mc *messageController) MarkRead(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	message, err := mc.messageUsecase.MarkRead(c.Request().Context(), pkgmdw.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageDataResponse{
		Message: "Message marked as read",
		Data:    message,
	})
}

func (mc *messageController) UnreadCount(c echo.Context) error {
	count, err := mc.messageUsecase.UnreadCount(c.Request().Context(), pkgmdw.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.UnreadCountResponse{UnreadCount: count})
}

func (mc *messageController) Inbox(c echo.Context) error {
	messages, err := mc.messageUsecase.Inbox(c.Request().Context(), pkgmdw.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}
