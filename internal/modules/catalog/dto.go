package catalog

type CreateBeatRequest struct {
	Title          string `json:"title" validate:"required"`
	Genre          string `json:"genre" validate:"required"`
	Mood           string `json:"mood" validate:"required"`
	BPM            int    `json:"bpm" validate:"required,gt=0"`
	Price          int64  `json:"price" validate:"gte=0"`
	Description    string `json:"description,omitempty"`
	AudioFile      string `json:"audio_file" validate:"required"` // base64 encoded
	AudioFileName  string `json:"audio_file_name" validate:"required"`
	CoverImage     string `json:"cover_image,omitempty"` // base64 encoded
	CoverImageName string `json:"cover_image_name,omitempty"`
	LicenseType    string `json:"license_type,omitempty"`
}

type UpdateBeatRequest struct {
	Title       *string `json:"title,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Mood        *string `json:"mood,omitempty"`
	BPM         *int    `json:"bpm,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Description *string `json:"description,omitempty"`
	LicenseType *string `json:"license_type,omitempty"`
}
