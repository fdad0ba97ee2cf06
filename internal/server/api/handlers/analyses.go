package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cvlens/cvlens/internal/core/analysis"
	"github.com/cvlens/cvlens/internal/core/extract"
	"github.com/cvlens/cvlens/internal/core/storage"
	"github.com/cvlens/cvlens/internal/server/api/response"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AnalysesHandler struct {
	svc      *analysis.Service
	uploads  *storage.Local
	registry *extract.Registry
	maxBytes int64
}

func NewAnalysesHandler(svc *analysis.Service, uploads *storage.Local, registry *extract.Registry, maxBytes int64) *AnalysesHandler {
	return &AnalysesHandler{
		svc:      svc,
		uploads:  uploads,
		registry: registry,
		maxBytes: maxBytes,
	}
}

type UploadBody struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// Upload validates a multipart CV upload, persists it and starts an
// analysis. Validation failures are synchronous and never create a job.
func (h *AnalysesHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_error", "no file uploaded")
	}
	if fh.Filename == "" {
		return response.Error(c, http.StatusBadRequest, "validation_error", "invalid file")
	}
	if !h.registry.Supports(extract.FormatOf(fh.Filename)) {
		return response.Error(c, http.StatusBadRequest, "validation_error", "only PDF and DOCX files are allowed")
	}
	if fh.Size > h.maxBytes {
		return response.Error(c, http.StatusRequestEntityTooLarge, "validation_error",
			fmt.Sprintf("file size exceeds %d MB limit", h.maxBytes>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "upload_error", "unable to read upload")
	}
	defer src.Close()

	path, err := h.uploads.Save(uuid.NewString(), fh.Filename, src)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "upload_error", "unable to store upload")
	}

	id, err := h.svc.Submit(fh.Filename, path)
	if err != nil {
		_ = h.uploads.Delete(path)
		return response.Error(c, http.StatusInternalServerError, "submit_error", "unable to start analysis")
	}

	return response.Success(c, http.StatusCreated, UploadBody{
		AnalysisID: id,
		Status:     "processing",
		Message:    "analysis started",
	})
}

type AnalysisIDInput struct {
	ID string `path:"id" doc:"Analysis ID"`
}

type StatusBody struct {
	AnalysisID string `json:"analysis_id" doc:"Analysis ID"`
	Progress   int    `json:"progress" doc:"Progress percent (0-100)"`
	Stage      string `json:"stage" doc:"Pipeline stage (queued, extracting, analyzing, generating, complete, failed)"`
	Step       int    `json:"step" doc:"Pipeline step (1-4)"`
	Message    string `json:"message" doc:"Human-readable status line"`
	Error      string `json:"error,omitempty" doc:"Failure message when stage is failed"`
}

type StatusOutput struct {
	Body StatusBody
}

func (h *AnalysesHandler) Status(_ context.Context, input *AnalysisIDInput) (*StatusOutput, error) {
	j, err := h.svc.Status(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("analysis not found")
	}

	body := StatusBody{
		AnalysisID: j.ID,
		Progress:   j.Progress,
		Stage:      string(j.Stage),
		Step:       j.Step,
		Message:    j.Stage.Message(),
	}
	if j.Stage == analysis.StageFailed {
		body.Error = j.ErrorMessage
	}
	return &StatusOutput{Body: body}, nil
}

type ResultOutput struct {
	Body analysis.Report
}

func (h *AnalysesHandler) Result(_ context.Context, input *AnalysisIDInput) (*ResultOutput, error) {
	r, err := h.svc.Result(input.ID)
	switch {
	case errors.Is(err, analysis.ErrNotFound):
		return nil, huma.Error404NotFound("analysis not found")
	case errors.Is(err, analysis.ErrNotReady):
		return nil, huma.Error409Conflict("analysis not yet complete")
	case err != nil:
		return nil, huma.Error500InternalServerError("analysis result unavailable")
	}
	return &ResultOutput{Body: *r}, nil
}
