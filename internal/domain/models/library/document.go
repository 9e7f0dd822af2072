package library

import (
	"time"
)

// Document is a file record inside a school's library. The physical file
// lives in external storage and is referenced by URL/PublicID only; copying
// a document duplicates the row, never the file.
type Document struct {
	ID         string     `json:"id" db:"id"`
	SchoolID   string     `json:"school_id" db:"school_id"`
	FolderID   *string    `json:"folder_id" db:"folder_id"` // NULL = school root
	Name       string     `json:"name" db:"name"`
	SizeBytes  int64      `json:"size_bytes" db:"size_bytes"`
	MimeType   string     `json:"mime_type" db:"mime_type"`
	URL        string     `json:"url" db:"url"`
	PublicID   string     `json:"public_id" db:"public_id"`
	UploadedBy string     `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
