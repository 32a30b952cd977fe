package submission

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"beatlab/internal/domain"
	"beatlab/internal/notification"
	"beatlab/internal/storage"
)

type Service struct {
	submissions submissionRepo
	store       storage.Storage
	notifier    notification.Notifier
}

func NewService(submissions submissionRepo, store storage.Storage, notifier notification.Notifier) *Service {
	return &Service{submissions: submissions, store: store, notifier: notifier}
}

// Create uploads the artist file, persists the pending submission and
// fires the owner notification plus the artist confirmation. The
// notifications are best-effort: a delivery failure is logged and the
// submission still succeeds.
func (s *Service) Create(ctx context.Context, req CreateSubmissionRequest) (*domain.Submission, error) {
	fileData, err := base64.StdEncoding.DecodeString(req.File)
	if err != nil {
		return nil, ErrInvalidFilePayload
	}

	fileType := domain.SubmissionFileType(req.FileType)
	mimeType := "audio/mpeg"
	if fileType == domain.FileTypeVideo {
		mimeType = "video/mp4"
	}

	fileKey := fmt.Sprintf("submissions/%s/%s-%s", fileType, uuid.New().String(), safeName(req.FileName))
	put, err := s.store.Put(ctx, fileKey, fileData, mimeType)
	if err != nil {
		return nil, fmt.Errorf("file upload failed: %w", err)
	}

	sub := &domain.Submission{
		ArtistName: req.ArtistName,
		Email:      req.Email,
		SongTitle:  req.SongTitle,
		Message:    req.Message,
		FileType:   fileType,
		FileKey:    put.Key,
		FileURL:    put.URL,
		FileName:   req.FileName,
		Status:     domain.SubmissionPending,
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, sub)

	if err := s.notifier.SendArtistConfirmation(ctx, req.ArtistName, req.Email, req.SongTitle); err != nil {
		log.Printf("level=error msg=artist confirmation failed submission_id=%d err=%v", sub.ID, err)
	}

	return sub, nil
}

func (s *Service) notifyOwner(ctx context.Context, sub *domain.Submission) {
	message := sub.Message
	if message == "" {
		message = "No message provided"
	}
	content := fmt.Sprintf(
		"New artist submission.\nArtist: %s <%s>\nSong: %s (%s, %s)\nMessage: %s\nDownload: %s\nRespond to the artist at %s",
		sub.ArtistName, sub.Email, sub.SongTitle, sub.FileType, sub.FileName, message, sub.FileURL, sub.Email,
	)
	if _, err := s.notifier.NotifyOwner(ctx, "New Music Submission", content); err != nil {
		log.Printf("level=error msg=owner notification failed submission_id=%d err=%v", sub.ID, err)
	}
}

// List is admin-only. The route group already filters on role; the guard
// here stays so the service cannot be misused from another call site.
func (s *Service) List(ctx context.Context, role string) ([]domain.Submission, error) {
	if role != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.submissions.GetAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, role string, id int64) (*domain.Submission, error) {
	if role != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.submissions.GetByID(ctx, id)
}

// UpdateStatus moves a submission to any of the four review states.
// Status is the only column this touches; there is deliberately no
// ordering between states so an admin can always correct a decision.
func (s *Service) UpdateStatus(ctx context.Context, role string, id int64, status string) error {
	if role != string(domain.RoleAdmin) {
		return ErrForbidden
	}

	st, err := domain.ParseSubmissionStatus(status)
	if err != nil {
		return ErrInvalidStatus
	}

	return s.submissions.UpdateStatus(ctx, id, st)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safeName(name string) string {
	name = strings.TrimSpace(name)
	name = unsafeNameChars.ReplaceAllString(name, "_")
	if name == "" {
		name = "file"
	}
	return name
}
