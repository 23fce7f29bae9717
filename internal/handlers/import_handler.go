package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/services"
)

// ImportHandler handles bulk transaction imports.
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportFile handles a multipart spreadsheet upload.
// @Summary     Import transactions
// @Description Bulk-import transactions from a .csv or .xlsx file with deduplication
// @Tags        import
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Spreadsheet file (.csv or .xlsx)"
// @Success     200 {object} services.ImportResult "Import summary"
// @Failure     400 {object} ErrorResponse "Unsupported file or missing columns"
// @Failure     500 {object} ErrorResponse "Persistence failure"
// @Router      /import [post]
func (h *ImportHandler) ImportFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "a 'file' form field is required"))
		return
	}

	name := strings.ToLower(fileHeader.Filename)
	if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".xlsx") {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnsupportedFile, "only .csv or .xlsx files are supported"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	result, err := h.importService.ImportFile(content, fileHeader.Filename)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
