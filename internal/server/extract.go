package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/llm"
	"github.com/joseph-ayodele/contracts-extractor/internal/ocr"
)

// Extract runs the model over text the caller already has.
func (s *Server) Extract(c *gin.Context) {
	var req llm.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, invalid("body must be JSON with a non-empty document_text", err))
		return
	}
	if err := common.NewValidator().
		Field("document_text", req.DocumentText, common.Required, common.MaxLength(s.upload.MaxTextChars)).
		Field("contract_type", req.ContractType, common.ContractType).
		Err(); err != nil {
		s.fail(c, err)
		return
	}

	rec, err := s.extractor.Extract(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// OCRImage recognizes the text of one uploaded image.
func (s *Server) OCRImage(c *gin.Context) {
	name, data, err := s.formFile(c, "file")
	if err != nil {
		s.fail(c, err)
		return
	}
	if constants.MapExtToFormat(filepath.Ext(name)) != constants.IMAGE {
		s.fail(c, invalid("file must be an image", nil))
		return
	}
	res, err := s.ocr.Extract(c.Request.Context(), name, data)
	if err != nil {
		s.fail(c, ocrError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": res.Text})
}

// OCRPDF extracts the text of an uploaded PDF, through its text layer or page OCR.
func (s *Server) OCRPDF(c *gin.Context) {
	name, data, err := s.formFile(c, "file")
	if err != nil {
		s.fail(c, err)
		return
	}
	if constants.MapExtToFormat(filepath.Ext(name)) != constants.PDF {
		s.fail(c, invalid("file must be a PDF", nil))
		return
	}
	res, err := s.ocr.Extract(c.Request.Context(), name, data)
	if err != nil {
		s.fail(c, ocrError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"text":         res.Text,
		"pages":        res.Pages,
		"failed_pages": res.FailedPages,
		"method":       res.Method,
		"warnings":     res.Warnings,
	})
}

func (s *Server) formFile(c *gin.Context, field string) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, invalid(fmt.Sprintf("multipart field %q is required", field), err)
	}
	data, err := s.readPart(fh)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

func (s *Server) readPart(fh *multipart.FileHeader) ([]byte, error) {
	if err := common.NewValidator().
		Field("size", fh.Size, common.MaxBytes(s.upload.MaxFileSize)).
		Err(); err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return data, nil
}

// ocrError classifies OCR failures that are the caller's fault.
func ocrError(err error) error {
	switch {
	case errors.Is(err, ocr.ErrUnsupportedFormat):
		return invalid("unsupported file type", err)
	case errors.Is(err, ocr.ErrNoPages), errors.Is(err, ocr.ErrRasterize):
		return invalid("document has no readable pages", err)
	case errors.Is(err, ocr.ErrImageTooLarge):
		return invalid("image dimensions exceed the pixel limit", err)
	case errors.Is(err, ocr.ErrDecodeImage):
		return invalid("image could not be decoded", err)
	}
	return err
}
