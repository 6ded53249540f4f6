// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/citeverify/internal/fix"
	"github.com/pdiddy/citeverify/internal/history"
	"github.com/pdiddy/citeverify/internal/parse"
	"github.com/pdiddy/citeverify/internal/pdf"
	"github.com/pdiddy/citeverify/internal/verify"
	"github.com/pdiddy/citeverify/pkg/types"
)

// multipartOverhead allows for form boundaries and headers around the file.
const multipartOverhead = 1 << 20

// VerifyRequest is the body of POST /api/verify.
type VerifyRequest struct {
	Citation string `json:"citation"`
	Email    string `json:"email,omitempty"`
}

// FixRequest is the body of POST /api/fix-citation.
type FixRequest struct {
	Citation string `json:"citation"`
}

// UploadResponse is the body returned by POST /api/upload-pdf.
type UploadResponse struct {
	Success        bool     `json:"success"`
	CitationsFound int      `json:"citationsFound"`
	Citations      []string `json:"citations"`
	Message        string   `json:"message,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// HistoryResponse is the body returned by GET /api/history.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries"`
}

func (s *Server) handleVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.verifier.Verify(c.Request.Context(), req.Citation, req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, verify.ErrEmptyCitation), errors.Is(err, verify.ErrCitationTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error("verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error", "message": err.Error()})
	}
}

func (s *Server) handleFix(c *gin.Context) {
	var req FixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.FixResult{Error: "invalid request body"})
		return
	}

	result, err := s.fixer.Fix(c.Request.Context(), req.Citation)
	if err != nil {
		status := fixStatus(err)
		if status == http.StatusInternalServerError {
			s.log.Error("fix failed", zap.Error(err))
		}
		c.JSON(status, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// fixStatus maps fixer errors to HTTP statuses.
func fixStatus(err error) int {
	switch {
	case errors.Is(err, verify.ErrEmptyCitation),
		errors.Is(err, fix.ErrInputTooShort),
		errors.Is(err, fix.ErrUnfixable):
		return http.StatusBadRequest
	case errors.Is(err, fix.ErrNoLLM), errors.Is(err, fix.ErrUpstream):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleUploadPDF(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if !isPDFUpload(fh.Header.Get("Content-Type"), fh.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files allowed"})
		return
	}
	if fh.Size > s.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.log.Error("opening upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process PDF"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		s.log.Error("reading upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process PDF"})
		return
	}

	text, err := pdf.ExtractBytes(data, 0)
	if err != nil {
		s.log.Warn("pdf text extraction failed", zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(http.StatusOK, UploadResponse{
			Citations: []string{},
			Error:     "Could not parse PDF text. Please ensure it is a valid text-based PDF.",
		})
		return
	}

	citations := parse.ExtractCitations(text)
	if citations == nil {
		citations = []string{}
	}
	c.JSON(http.StatusOK, UploadResponse{
		Success:        true,
		CitationsFound: len(citations),
		Citations:      citations,
		Message:        "Found " + strconv.Itoa(len(citations)) + " potential citations",
	})
}

func isPDFUpload(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}

	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	q := history.Query{
		Email:    email,
		Status:   types.Status(c.Query("status")),
		Contains: c.Query("q"),
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		q.Limit = n
	}

	entries, err := s.history.Recent(c.Request.Context(), q)
	if err != nil {
		s.log.Error("reading history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	c.JSON(http.StatusOK, HistoryResponse{Entries: entries})
}
