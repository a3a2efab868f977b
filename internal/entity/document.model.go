package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyDocument records a stored document. URL points at the
// content-addressed object store; DriveFileID is the cloud mirror reference
// and stays nil until the mirror upload succeeds.
type CompanyDocument struct {
	gorm.Model
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	CompanyID   uuid.UUID  `json:"company_id" gorm:"type:uuid;not null;index"`
	RoundID     *uuid.UUID `json:"round_id" gorm:"type:uuid;index"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	FileType    string     `json:"file_type" gorm:"type:varchar(50)"`
	SizeBytes   int64      `json:"size_bytes" gorm:"type:bigint"`
	URL         string     `json:"url" gorm:"type:text"`
	DriveFileID *string    `json:"drive_file_id" gorm:"type:varchar(255)"`
}
