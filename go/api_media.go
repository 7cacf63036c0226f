package storeserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mediatypes "github.com/Apurer/storefront-api/internal/domains/media/application/types"
	mediadomain "github.com/Apurer/storefront-api/internal/domains/media/domain"
	mediaports "github.com/Apurer/storefront-api/internal/domains/media/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// UploadFormField is the multipart field carrying the image.
const UploadFormField = "image"

// multipart framing on top of the image itself
const uploadEnvelopeBytes = 1 << 20

// MediaAPI implements image upload.
type MediaAPI struct {
	service mediaports.Service
}

// NewMediaAPI wires dependencies.
func NewMediaAPI(service mediaports.Service) MediaAPI {
	return MediaAPI{service: service}
}

// Post /upload-image
// Uploads a product or category image
func (api *MediaAPI) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, mediadomain.MaxImageBytes+uploadEnvelopeBytes)
	header, err := c.FormFile(UploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondProblem(c, apierrors.NewPayloadTooLargeProblem(mediadomain.MaxImageBytes))
		case errors.Is(err, http.ErrMissingFile):
			respondProblem(c, apierrors.ErrBadRequest.WithDetail(mediadomain.ErrNoFile.Error()))
		default:
			badRequest(c, err)
		}
		return
	}
	file, err := header.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer file.Close()

	image, err := api.service.Upload(c.Request.Context(), mediatypes.UploadInput{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadImageResponse{Success: true, Filename: image.Filename, Url: image.URL})
}
