package library

import (
	"time"
)

type Folder struct {
	ID        string     `json:"id" db:"id"`
	SchoolID  string     `json:"school_id" db:"school_id"`
	ParentID  *string    `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string     `json:"name" db:"name"`
	CreatedBy string     `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
