package domain

import "time"

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionReviewed SubmissionStatus = "reviewed"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

func ValidSubmissionStatuses() []SubmissionStatus {
	return []SubmissionStatus{SubmissionPending, SubmissionReviewed, SubmissionAccepted, SubmissionRejected}
}

func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	for _, st := range ValidSubmissionStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrUnknownSubmissionStatus
}

type SubmissionFileType string

const (
	FileTypeAudio SubmissionFileType = "audio"
	FileTypeVideo SubmissionFileType = "video"
)

// Submission is an artist-uploaded track waiting for review. It is created
// in pending by the public submit endpoint; afterwards only an admin may
// touch it, and only the Status field.
type Submission struct {
	ID         int64              `json:"id" gorm:"primaryKey"`
	ArtistName string             `json:"artist_name" gorm:"size:255"`
	Email      string             `json:"email" gorm:"size:320"`
	SongTitle  string             `json:"song_title" gorm:"size:255"`
	Message    string             `json:"message,omitempty"`
	FileType   SubmissionFileType `json:"file_type" gorm:"size:50"`
	FileKey    string             `json:"file_key" gorm:"size:500"`
	FileURL    string             `json:"file_url" gorm:"size:1000"`
	FileName   string             `json:"file_name" gorm:"size:255"`
	Status     SubmissionStatus   `json:"status" gorm:"size:16;default:pending;index"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
