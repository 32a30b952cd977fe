package catalog

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"beatlab/internal/domain"
	"beatlab/internal/repository"
	"beatlab/internal/storage"
)

type Service struct {
	beats beatRepo
	store storage.Storage
}

func NewService(beats beatRepo, store storage.Storage) *Service {
	return &Service{beats: beats, store: store}
}

/* ---------- READS ---------- */

func (s *Service) List(ctx context.Context) ([]domain.Beat, error) {
	return s.beats.GetAllActive(ctx)
}

// GetByID returns the beat whether it is active or not; soft-deleted
// beats stay addressable by direct lookup.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Beat, error) {
	return s.beats.GetByID(ctx, id)
}

func (s *Service) Filter(ctx context.Context, f repository.BeatFilters) ([]domain.Beat, error) {
	return s.beats.Filter(ctx, f)
}

/* ---------- ADMIN MUTATIONS ---------- */

// CreateBeat uploads the audio (and optional cover) to storage and
// persists the catalog row. The role check repeats what the admin route
// group already enforced; mutations keep their own guard on purpose.
func (s *Service) CreateBeat(ctx context.Context, role string, req CreateBeatRequest) (*domain.Beat, error) {
	if role != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	licenseType := domain.LicenseBasic
	if req.LicenseType != "" {
		lt, err := domain.ParseLicenseType(req.LicenseType)
		if err != nil {
			return nil, ErrInvalidLicenseType
		}
		licenseType = lt
	}

	audioData, err := base64.StdEncoding.DecodeString(req.AudioFile)
	if err != nil {
		return nil, ErrInvalidFilePayload
	}

	audioKey := fmt.Sprintf("beats/audio/%s-%s", uuid.New().String(), safeName(req.AudioFileName))
	audioPut, err := s.store.Put(ctx, audioKey, audioData, "audio/mpeg")
	if err != nil {
		return nil, fmt.Errorf("audio upload failed: %w", err)
	}

	var coverKey, coverURL *string
	if req.CoverImage != "" && req.CoverImageName != "" {
		coverData, err := base64.StdEncoding.DecodeString(req.CoverImage)
		if err != nil {
			return nil, ErrInvalidFilePayload
		}
		key := fmt.Sprintf("beats/covers/%s-%s", uuid.New().String(), safeName(req.CoverImageName))
		coverPut, err := s.store.Put(ctx, key, coverData, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("cover upload failed: %w", err)
		}
		coverKey = &coverPut.Key
		coverURL = &coverPut.URL
	}

	beat := &domain.Beat{
		Title:         req.Title,
		Genre:         req.Genre,
		Mood:          req.Mood,
		BPM:           req.BPM,
		Price:         req.Price,
		Description:   req.Description,
		AudioFileKey:  audioPut.Key,
		AudioURL:      audioPut.URL,
		CoverImageKey: coverKey,
		CoverImageURL: coverURL,
		LicenseType:   licenseType,
		IsActive:      true,
	}

	if err := s.beats.Create(ctx, beat); err != nil {
		return nil, err
	}

	return beat, nil
}

func (s *Service) UpdateBeat(ctx context.Context, role string, beatID int64, req UpdateBeatRequest) (*domain.Beat, error) {
	if role != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	beat, err := s.beats.GetByID(ctx, beatID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		beat.Title = *req.Title
	}
	if req.Genre != nil {
		beat.Genre = *req.Genre
	}
	if req.Mood != nil {
		beat.Mood = *req.Mood
	}
	if req.BPM != nil {
		if *req.BPM <= 0 {
			return nil, ErrInvalidBPM
		}
		beat.BPM = *req.BPM
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrInvalidPrice
		}
		beat.Price = *req.Price
	}
	if req.Description != nil {
		beat.Description = *req.Description
	}
	if req.LicenseType != nil {
		lt, err := domain.ParseLicenseType(*req.LicenseType)
		if err != nil {
			return nil, ErrInvalidLicenseType
		}
		beat.LicenseType = lt
	}

	if err := s.beats.Update(ctx, beat); err != nil {
		return nil, err
	}
	return beat, nil
}

// DeleteBeat soft-deletes: the beat disappears from list/filter but
// remains retrievable by ID.
func (s *Service) DeleteBeat(ctx context.Context, role string, beatID int64) error {
	if role != string(domain.RoleAdmin) {
		return ErrForbidden
	}
	return s.beats.SetActive(ctx, beatID, false)
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
