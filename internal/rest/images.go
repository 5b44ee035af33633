package rest

import (
	"context"
	"errors"
	"io"
	"net/http"

	"gitgallery/api"
	"gitgallery/gallery/application"
	"gitgallery/gallery/domain"

	"github.com/gin-gonic/gin"
)

// GalleryService is the slice of the application layer the REST surface
// depends on.
type GalleryService interface {
	Upload(ctx context.Context, content []byte, originalName, description string) (*domain.ImageEntry, error)
	Delete(ctx context.Context, filename string) error
	List(ctx context.Context) ([]domain.ImageEntry, error)
	Reconcile(ctx context.Context) (*application.ReconcileReport, error)
}

type ImagesApi struct {
	gallery GalleryService
}

func NewImagesApi(gallery GalleryService) *ImagesApi {
	return &ImagesApi{gallery: gallery}
}

func (a *ImagesApi) ListImages(c *gin.Context) {
	entries, err := a.gallery.List(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: domain.UserMessage(err)})
		return
	}

	list := api.ImageList{Images: make([]api.Image, 0, len(entries))}
	for _, e := range entries {
		list.Images = append(list.Images, api.Image{
			Filename:    e.Filename,
			Description: e.Description,
			URL:         e.URL,
			Timestamp:   e.Timestamp,
		})
	}
	c.JSON(http.StatusOK, list)
}

func (a *ImagesApi) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing image file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "failed to open uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "failed to read uploaded file"})
		return
	}

	declaredType := fileHeader.Header.Get("Content-Type")
	if result := application.ValidateFile(content, declaredType, fileHeader.Size); !result.Valid {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: result.Reason})
		return
	}

	entry, err := a.gallery.Upload(c.Request.Context(), content, fileHeader.Filename, c.PostForm("description"))
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: domain.UserMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, api.UploadResponse{Filename: entry.Filename, URL: entry.URL})
}

func (a *ImagesApi) DeleteImage(c *gin.Context) {
	filename := c.Param("filename")

	if err := a.gallery.Delete(c.Request.Context(), filename); err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: domain.UserMessage(err)})
		return
	}

	c.Status(http.StatusNoContent)
}

func (a *ImagesApi) ReconcileImages(c *gin.Context) {
	report, err := a.gallery.Reconcile(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: domain.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, report)
}

// statusFor maps orchestrator failures to response codes: a stale revision
// token is a conflict, a rejected credential is an upstream failure, the
// rest is internal.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrRevisionConflict) {
		return http.StatusConflict
	}
	var serr *domain.StoreError
	if errors.As(err, &serr) {
		switch serr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
