package catalog

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"beatlab/internal/domain"
	"beatlab/internal/repository"
	"beatlab/internal/storage"
)

type mockBeatRepo struct {
	beats      map[int64]*domain.Beat
	nextID     int64
	setActive  []int64
	lastFilter repository.BeatFilters
}

func newMockBeatRepo() *mockBeatRepo {
	return &mockBeatRepo{beats: map[int64]*domain.Beat{}, nextID: 1}
}

func (m *mockBeatRepo) GetAllActive(_ context.Context) ([]domain.Beat, error) {
	var out []domain.Beat
	for _, b := range m.beats {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBeatRepo) GetByID(_ context.Context, id int64) (*domain.Beat, error) {
	if b, ok := m.beats[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBeatRepo) Filter(_ context.Context, f repository.BeatFilters) ([]domain.Beat, error) {
	m.lastFilter = f
	var out []domain.Beat
	for _, b := range m.beats {
		if !b.IsActive {
			continue
		}
		if f.Genre != "" && b.Genre != f.Genre {
			continue
		}
		if f.Mood != "" && b.Mood != f.Mood {
			continue
		}
		if f.MinBPM > 0 && b.BPM < f.MinBPM {
			continue
		}
		if f.MaxBPM > 0 && b.BPM > f.MaxBPM {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBeatRepo) Create(_ context.Context, beat *domain.Beat) error {
	beat.ID = m.nextID
	m.nextID++
	cp := *beat
	m.beats[beat.ID] = &cp
	return nil
}

func (m *mockBeatRepo) Update(_ context.Context, beat *domain.Beat) error {
	if _, ok := m.beats[beat.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *beat
	m.beats[beat.ID] = &cp
	return nil
}

func (m *mockBeatRepo) SetActive(_ context.Context, id int64, active bool) error {
	b, ok := m.beats[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.IsActive = active
	m.setActive = append(m.setActive, id)
	return nil
}

type mockStorage struct {
	puts    map[string][]byte
	failure error
}

func newMockStorage() *mockStorage {
	return &mockStorage{puts: map[string][]byte{}}
}

func (m *mockStorage) Put(_ context.Context, key string, data []byte, _ string) (*storage.PutResult, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	m.puts[key] = data
	return &storage.PutResult{Key: key, URL: "/static/uploads/" + key}, nil
}

func validCreateRequest() CreateBeatRequest {
	return CreateBeatRequest{
		Title:         "Midnight Vibes",
		Genre:         "Hip Hop",
		Mood:          "Dark",
		BPM:           85,
		Price:         2999,
		Description:   "Dark atmospheric hip hop beat",
		AudioFile:     base64.StdEncoding.EncodeToString([]byte("ID3 fake mp3 bytes")),
		AudioFileName: "midnight vibes.mp3",
	}
}

func TestCreateBeat_RequiresAdmin(t *testing.T) {
	repo := newMockBeatRepo()
	svc := NewService(repo, newMockStorage())

	for _, role := range []string{"", "user", "USER", "moderator"} {
		_, err := svc.CreateBeat(context.Background(), role, validCreateRequest())
		assert.ErrorIs(t, err, ErrForbidden, "role %q must be rejected", role)
	}
	assert.Empty(t, repo.beats)
}

func TestCreateBeat_UploadsAudioAndPersists(t *testing.T) {
	repo := newMockBeatRepo()
	store := newMockStorage()
	svc := NewService(repo, store)

	beat, err := svc.CreateBeat(context.Background(), "admin", validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "Midnight Vibes", beat.Title)
	assert.Equal(t, int64(2999), beat.Price)
	assert.Equal(t, domain.LicenseBasic, beat.LicenseType, "license defaults to basic")
	assert.True(t, beat.IsActive)

	require.Len(t, store.puts, 1)
	assert.NotEmpty(t, beat.AudioFileKey)
	assert.Contains(t, beat.AudioFileKey, "beats/audio/")
	assert.Contains(t, beat.AudioFileKey, "midnight_vibes.mp3", "filename is sanitized")
	assert.Equal(t, "/static/uploads/"+beat.AudioFileKey, beat.AudioURL)
	assert.Nil(t, beat.CoverImageKey)
}

func TestCreateBeat_WithCover(t *testing.T) {
	repo := newMockBeatRepo()
	store := newMockStorage()
	svc := NewService(repo, store)

	req := validCreateRequest()
	req.CoverImage = base64.StdEncoding.EncodeToString([]byte("fake jpeg"))
	req.CoverImageName = "cover.jpg"
	req.LicenseType = "Premium"

	beat, err := svc.CreateBeat(context.Background(), "admin", req)
	require.NoError(t, err)

	assert.Equal(t, domain.LicensePremium, beat.LicenseType)
	require.NotNil(t, beat.CoverImageKey)
	assert.Contains(t, *beat.CoverImageKey, "beats/covers/")
	require.NotNil(t, beat.CoverImageURL)
	assert.Len(t, store.puts, 2)
}

func TestCreateBeat_InvalidLicense(t *testing.T) {
	svc := NewService(newMockBeatRepo(), newMockStorage())

	req := validCreateRequest()
	req.LicenseType = "platinum"
	_, err := svc.CreateBeat(context.Background(), "admin", req)
	assert.ErrorIs(t, err, ErrInvalidLicenseType)
}

func TestCreateBeat_BadBase64(t *testing.T) {
	store := newMockStorage()
	svc := NewService(newMockBeatRepo(), store)

	req := validCreateRequest()
	req.AudioFile = "not base64!!"
	_, err := svc.CreateBeat(context.Background(), "admin", req)
	assert.ErrorIs(t, err, ErrInvalidFilePayload)
	assert.Empty(t, store.puts)
}

func TestCreateBeat_StorageFailure(t *testing.T) {
	repo := newMockBeatRepo()
	store := newMockStorage()
	store.failure = errors.New("disk full")
	svc := NewService(repo, store)

	_, err := svc.CreateBeat(context.Background(), "admin", validCreateRequest())
	assert.Error(t, err)
	assert.Empty(t, repo.beats, "no catalog row without a stored file")
}

func TestUpdateBeat_PartialFields(t *testing.T) {
	repo := newMockBeatRepo()
	repo.beats[1] = &domain.Beat{
		ID: 1, Title: "Old Title", Genre: "Trap", Mood: "Aggressive",
		BPM: 140, Price: 4999, LicenseType: domain.LicenseBasic, IsActive: true,
	}
	svc := NewService(repo, newMockStorage())

	newPrice := int64(5999)
	newLicense := "Exclusive"
	beat, err := svc.UpdateBeat(context.Background(), "admin", 1, UpdateBeatRequest{
		Price:       &newPrice,
		LicenseType: &newLicense,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5999), beat.Price)
	assert.Equal(t, domain.LicenseExclusive, beat.LicenseType)
	// untouched fields keep their values
	assert.Equal(t, "Old Title", beat.Title)
	assert.Equal(t, 140, beat.BPM)
}

func TestUpdateBeat_RejectsInvalidValues(t *testing.T) {
	repo := newMockBeatRepo()
	repo.beats[1] = &domain.Beat{ID: 1, Title: "Keep", BPM: 140, Price: 4999, IsActive: true}
	svc := NewService(repo, newMockStorage())

	for _, bpm := range []int{0, -5} {
		b := bpm
		_, err := svc.UpdateBeat(context.Background(), "admin", 1, UpdateBeatRequest{BPM: &b})
		assert.ErrorIs(t, err, ErrInvalidBPM, "bpm %d", bpm)
	}

	price := int64(-1)
	_, err := svc.UpdateBeat(context.Background(), "admin", 1, UpdateBeatRequest{Price: &price})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	// the rejected mutation must not touch the row
	assert.Equal(t, 140, repo.beats[1].BPM)
	assert.Equal(t, int64(4999), repo.beats[1].Price)
}

func TestUpdateBeat_NotFound(t *testing.T) {
	svc := NewService(newMockBeatRepo(), newMockStorage())

	title := "x"
	_, err := svc.UpdateBeat(context.Background(), "admin", 42, UpdateBeatRequest{Title: &title})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateBeat_RequiresAdmin(t *testing.T) {
	repo := newMockBeatRepo()
	repo.beats[1] = &domain.Beat{ID: 1, Title: "Keep", IsActive: true}
	svc := NewService(repo, newMockStorage())

	title := "changed"
	_, err := svc.UpdateBeat(context.Background(), "user", 1, UpdateBeatRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Keep", repo.beats[1].Title)
}

func TestDeleteBeat_SoftDelete(t *testing.T) {
	repo := newMockBeatRepo()
	repo.beats[1] = &domain.Beat{ID: 1, Title: "Gone Soon", IsActive: true}
	svc := NewService(repo, newMockStorage())

	require.NoError(t, svc.DeleteBeat(context.Background(), "admin", 1))

	// hidden from listing, still addressable by id
	active, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	beat, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, beat.IsActive)
}

func TestDeleteBeat_NotFound(t *testing.T) {
	svc := NewService(newMockBeatRepo(), newMockStorage())
	err := svc.DeleteBeat(context.Background(), "admin", 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteBeat_RequiresAdmin(t *testing.T) {
	repo := newMockBeatRepo()
	repo.beats[1] = &domain.Beat{ID: 1, IsActive: true}
	svc := NewService(repo, newMockStorage())

	err := svc.DeleteBeat(context.Background(), "user", 1)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.True(t, repo.beats[1].IsActive)
}

func TestFilter_PassesCriteriaThrough(t *testing.T) {
	repo := newMockBeatRepo()
	for i, bpm := range []int{85, 128, 140, 75} {
		repo.beats[int64(i+1)] = &domain.Beat{ID: int64(i + 1), Genre: "Hip Hop", BPM: bpm, IsActive: true}
	}
	svc := NewService(repo, newMockStorage())

	out, err := svc.Filter(context.Background(), repository.BeatFilters{MinBPM: 80, MaxBPM: 130})
	require.NoError(t, err)

	var bpms []int
	for _, b := range out {
		bpms = append(bpms, b.BPM)
	}
	assert.ElementsMatch(t, []int{85, 128}, bpms)
	assert.Equal(t, repository.BeatFilters{MinBPM: 80, MaxBPM: 130}, repo.lastFilter)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "my_beat.mp3", safeName("my beat.mp3"))
	assert.Equal(t, "track_1_.mp3", safeName("track (1).mp3"))
	assert.Equal(t, "file", safeName("   "))
	assert.Equal(t, "clean-name_ok.wav", safeName("clean-name_ok.wav"))
}
