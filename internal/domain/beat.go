package domain

import "time"

type LicenseType string

const (
	LicenseBasic     LicenseType = "Basic"
	LicensePremium   LicenseType = "Premium"
	LicenseExclusive LicenseType = "Exclusive"
)

func ValidLicenseTypes() []LicenseType {
	return []LicenseType{LicenseBasic, LicensePremium, LicenseExclusive}
}

func ParseLicenseType(s string) (LicenseType, error) {
	for _, lt := range ValidLicenseTypes() {
		if string(lt) == s {
			return lt, nil
		}
	}
	return "", ErrUnknownLicenseType
}

// Beat is a purchasable track in the catalog. Price is stored in cents.
// Deleting a beat only flips IsActive; the row stays addressable by ID.
type Beat struct {
	ID            int64       `json:"id" gorm:"primaryKey"`
	Title         string      `json:"title" gorm:"size:255"`
	Genre         string      `json:"genre" gorm:"size:100;index"`
	Mood          string      `json:"mood" gorm:"size:100;index"`
	BPM           int         `json:"bpm" gorm:"column:bpm"`
	Price         int64       `json:"price"`
	Description   string      `json:"description,omitempty"`
	AudioFileKey  string      `json:"audio_file_key" gorm:"size:500"`
	AudioURL      string      `json:"audio_url" gorm:"size:1000"`
	CoverImageKey *string     `json:"cover_image_key,omitempty" gorm:"size:500"`
	CoverImageURL *string     `json:"cover_image_url,omitempty" gorm:"size:1000"`
	LicenseType   LicenseType `json:"license_type" gorm:"size:100;default:Basic"`
	IsActive      bool        `json:"is_active" gorm:"default:true;index"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
