package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/domain"
	"github.com/shriyashpachpande/medical-imaging-agent/internal/service"
)

const (
	apiKeyField = "groq_api_key"
	imageField  = "image"
	pageName    = "index.html"
)

type Handler struct {
	service service.AnalysisService
	log     *zap.Logger
}

func NewHandler(service service.AnalysisService, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// Page is the view model for index.html. At most one of Error and ResultHTML is set.
type Page struct {
	GroqAPIKey    string
	Error         string
	UploadedImage template.URL
	ResultHTML    template.HTML
}

func (h *Handler) GetUI(c *gin.Context) {
	c.HTML(http.StatusOK, pageName, Page{})
}

func (h *Handler) Analyze(c *gin.Context) {
	page := Page{
		GroqAPIKey: strings.TrimSpace(c.PostForm(apiKeyField)),
	}

	image, closeImage, err := imageFromForm(c)
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		page.Error = UserMessage(domain.NewAnalysisError(err))
		c.HTML(http.StatusOK, pageName, page)
		return
	}
	defer closeImage()

	analysis, err := h.service.Analyze(c.Request.Context(), domain.AnalysisRequest{
		APIKey: page.GroqAPIKey,
		Image:  image,
	})
	if err != nil {
		page.Error = UserMessage(err)
		c.HTML(http.StatusOK, pageName, page)
		return
	}

	page.UploadedImage = template.URL(analysis.ImageDataURI)
	page.ResultHTML = analysis.HTML
	c.HTML(http.StatusOK, pageName, page)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// imageFromForm returns nil when the form has no "image" part at all. A part
// submitted without a filename is parsed as a plain value by mime/multipart and
// comes back as an upload with an empty name.
func imageFromForm(c *gin.Context) (*domain.ImageUpload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(imageField)
	if err != nil {
		form := c.Request.MultipartForm
		if form != nil {
			if _, ok := form.Value[imageField]; ok {
				return &domain.ImageUpload{}, noop, nil
			}
		}
		return nil, noop, nil
	}

	file, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}

	return &domain.ImageUpload{
		Filename: fh.Filename,
		Content:  file,
	}, func() { file.Close() }, nil
}

// UserMessage maps an analysis error to the text shown on the page.
func UserMessage(err error) string {
	var analysisErr *domain.AnalysisError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrMissingCredential):
		return "Groq API Key is required."
	case errors.Is(err, domain.ErrMissingFilePart):
		return "No image file part."
	case errors.Is(err, domain.ErrEmptyFilename):
		return "No selected file."
	case errors.Is(err, domain.ErrDisallowedExtension):
		return "Allowed image types are png, jpg, jpeg, dicom."
	case errors.As(err, &analysisErr):
		return "Error during analysis: " + analysisErr.Err.Error()
	default:
		return "Error during analysis: " + err.Error()
	}
}
