package submission

type CreateSubmissionRequest struct {
	ArtistName string `json:"artist_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	SongTitle  string `json:"song_title" validate:"required"`
	Message    string `json:"message,omitempty"`
	File       string `json:"file" validate:"required"` // base64 encoded
	FileName   string `json:"file_name" validate:"required"`
	FileType   string `json:"file_type" validate:"required,oneof=audio video"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed accepted rejected"`
}
