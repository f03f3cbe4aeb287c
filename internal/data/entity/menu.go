package entity

import "github.com/google/uuid"

// Menu is an uploaded menu image. Only the newest one is served.
type Menu struct {
	BaseSimple
	URL        string    `db:"url"`
	UploadedBy uuid.UUID `db:"uploaded_by"`
}
