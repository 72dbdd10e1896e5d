package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"triance/backend/internal/export"
	"triance/backend/internal/logger"
	"triance/backend/internal/storage"
)

// ErrStorageUnavailable is returned by Publish when no object storage is configured.
var ErrStorageUnavailable = errors.New("object storage is not configured")

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// RenderedExport is a user's workout history in one format.
type RenderedExport struct {
	Data        []byte
	ContentType string
	Extension   string
}

// PublishedExport points at an uploaded export.
type PublishedExport struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

type ExportService interface {
	Render(ctx context.Context, username, format string) (*RenderedExport, error)
	// Publish renders the export, uploads it and returns a presigned
	// download URL for it.
	Publish(ctx context.Context, username, format string) (*PublishedExport, error)
}

type exportService struct {
	workouts  WorkoutService
	users     UserService
	files     storage.FileStorage
	urlExpiry time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// NewExportService builds the export service. files may be nil, in which
// case only Render is available.
func NewExportService(workouts WorkoutService, users UserService, files storage.FileStorage, urlExpiry time.Duration, baseLog *logger.Logger) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		workouts:  workouts,
		users:     users,
		files:     files,
		urlExpiry: urlExpiry,
		now:       time.Now,
		log:       baseLog.With("service", "ExportService"),
	}
}

func (s *exportService) Render(ctx context.Context, username, format string) (*RenderedExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV {
		return nil, invalid("format '%s' is not supported, use json or csv", format)
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err != nil {
		return nil, err
	}
	workouts, err := s.workouts.ListWorkoutsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	out := &RenderedExport{Extension: format}
	switch format {
	case FormatCSV:
		out.ContentType = "text/csv"
		err = export.ToCSV(&buf, workouts)
	default:
		out.ContentType = "application/json"
		err = export.ToJSON(&buf, workouts)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}
	out.Data = buf.Bytes()
	return out, nil
}

func (s *exportService) Publish(ctx context.Context, username, format string) (*PublishedExport, error) {
	if s.files == nil {
		return nil, ErrStorageUnavailable
	}
	rendered, err := s.Render(ctx, username, format)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := exportKey(username, now, rendered.Extension)
	if err := s.files.PutObject(ctx, key, rendered.ContentType, rendered.Data); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		if delErr := s.files.DeleteObject(ctx, key); delErr != nil {
			s.log.Warn("failed to remove unreachable export", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("presign export: %w", err)
	}
	s.log.Info("export published", "username", username, "key", key, "bytes", len(rendered.Data))
	return &PublishedExport{Key: key, URL: url, ExpiresAt: now.Add(s.urlExpiry)}, nil
}

func exportKey(username string, at time.Time, ext string) string {
	return fmt.Sprintf("exports/%s/%s.%s", username, at.Format("20060102T150405Z"), ext)
}
