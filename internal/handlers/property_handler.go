package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/stwalsh4118/suburbscope/internal/errors"
	"github.com/stwalsh4118/suburbscope/internal/listings"
	"github.com/stwalsh4118/suburbscope/internal/middleware"
	"github.com/stwalsh4118/suburbscope/internal/services"
	"github.com/stwalsh4118/suburbscope/internal/web"
)

// Client-facing messages
const (
	MsgSuburbRequired = "Please provide a suburb"
	MsgNoCSVData      = "No CSV data"
	MsgReportFailed   = "Failed to build property report"
)

const (
	// CSVFilename is the download name of the exported table.
	CSVFilename = "properties.csv"
	// CSVContentType is the media type of the exported table.
	CSVContentType = "text/csv"
	// ExampleSuburb prefills the search form.
	ExampleSuburb = "Belmont North"
	pageTitle     = "Suburb property snapshot"
)

// PropertyHandler handles the property lookup, CSV download and UI endpoints.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		service: service,
	}
}

// GetPropertiesRequest is the form body of POST /get_properties.
type GetPropertiesRequest struct {
	Suburb string `form:"suburb" json:"suburb" binding:"required"`
}

// DownloadCSVRequest is the form body of POST /download_csv.
type DownloadCSVRequest struct {
	CSV string `form:"csv" json:"csv"`
}

// Index handles GET / by rendering the search page.
func (h *PropertyHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, web.IndexTemplate, gin.H{
		"Title":         pageTitle,
		"ExampleSuburb": ExampleSuburb,
	})
}

// GetProperties handles POST /get_properties.
// It returns the normalized listings, summary and CSV export for a suburb.
func (h *PropertyHandler) GetProperties(c *gin.Context) {
	var req GetPropertiesRequest
	if err := c.ShouldBind(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, MsgSuburbRequired, validationErrors)
			return
		}
		apierrors.BadRequest(c, MsgSuburbRequired, nil)
		return
	}

	payload, err := h.service.GetProperties(c.Request.Context(), req.Suburb)
	if err != nil {
		if errors.Is(err, services.ErrEmptySuburb) {
			apierrors.BadRequest(c, MsgSuburbRequired, nil)
			return
		}
		apierrors.InternalServerError(c, MsgReportFailed, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// DownloadCSV handles POST /download_csv.
// It streams the posted CSV back unchanged as a file attachment.
func (h *PropertyHandler) DownloadCSV(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req DownloadCSVRequest
	if err := c.ShouldBind(&req); err != nil || req.CSV == "" {
		apierrors.PlainBadRequest(c, MsgNoCSVData)
		return
	}

	// Blobs are echoed as-is; a table we did not produce is only noted.
	if !listings.HasCSVHeader(req.CSV) && log != nil {
		log.Warn("Downloaded CSV does not start with the listings header", map[string]interface{}{
			"bytes": len(req.CSV),
		})
	}

	c.DataFromReader(
		http.StatusOK,
		int64(len(req.CSV)),
		CSVContentType,
		strings.NewReader(req.CSV),
		map[string]string{
			"Content-Disposition": `attachment; filename="` + CSVFilename + `"`,
		},
	)
}
