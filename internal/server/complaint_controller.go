package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/complaint-registry/internal/server/middleware"
	"github.com/nguyentranbao-ct/complaint-registry/internal/usecase"
)

type ComplaintController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Get(c echo.Context) error
	UpdateStatus(c echo.Context) error
	Assign(c echo.Context) error
	Delete(c echo.Context) error
	UploadAttachment(c echo.Context) error
	GetAttachment(c echo.Context) error
}

type complaintController struct {
	complaintUsecase usecase.ComplaintUsecase
}

func NewComplaintController(complaintUsecase usecase.ComplaintUsecase) ComplaintController {
	return &complaintController{
		complaintUsecase: complaintUsecase,
	}
}

type complaintResponse struct {
	Message   string                `json:"message"`
	Complaint *models.ComplaintView `json:"complaint"`
}

type attachmentResponse struct {
	Message    string             `json:"message"`
	Attachment *models.Attachment `json:"attachment"`
}

type attachmentURLResponse struct {
	URL string `json:"url"`
}

func (cc *complaintController) Create(c echo.Context) error {
	var req models.CreateComplaintRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	complaint, err := cc.complaintUsecase.Create(c.Request().Context(), pkgmdw.CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, complaintResponse{
		Message:   "Complaint created successfully",
		Complaint: complaint,
	})
}

func (cc *complaintController) List(c echo.Context) error {
	complaints, err := cc.complaintUsecase.List(c.Request().Context(), pkgmdw.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaints)
}

func (cc *complaintController) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	complaint, err := cc.complaintUsecase.Get(c.Request().Context(), pkgmdw.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaint)
}

func (cc *complaintController) UpdateStatus(c echo.Context) error {
	var req models.UpdateStatusRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}
	id, err := models.ParseID(req.ID)
	if err != nil {
		return err
	}

	complaint, err := cc.complaintUsecase.UpdateStatus(c.Request().Context(), pkgmdw.CurrentUser(c), id, req.Status, req.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaintResponse{
		Message:   "Complaint status updated successfully",
		Complaint: complaint,
	})
}

func (cc *complaintController) Assign(c echo.Context) error {
	var req models.AssignRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}
	ids, err := models.ParseIDs([]string{req.ID, req.AssignedAgent})
	if err != nil {
		return err
	}

	complaint, err := cc.complaintUsecase.Assign(c.Request().Context(), pkgmdw.CurrentUser(c), ids[0], ids[1])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaintResponse{
		Message:   "Complaint assigned successfully",
		Complaint: complaint,
	})
}

func (cc *complaintController) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := cc.complaintUsecase.Delete(c.Request().Context(), pkgmdw.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Complaint deleted successfully"})
}

func (cc *complaintController) UploadAttachment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return models.BadRequest("file is required")
	}
	if err != nil {
		return models.BadRequest("invalid multipart form")
	}
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	attachment, err := cc.complaintUsecase.AddAttachment(c.Request().Context(), pkgmdw.CurrentUser(c), id, usecase.AttachmentUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attachmentResponse{
		Message:    "Attachment uploaded successfully",
		Attachment: attachment,
	})
}

func (cc *complaintController) GetAttachment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	attachmentID, err := paramID(c, "attachmentId")
	if err != nil {
		return err
	}

	url, err := cc.complaintUsecase.AttachmentURL(c.Request().Context(), pkgmdw.CurrentUser(c), id, attachmentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attachmentURLResponse{URL: url})
}
