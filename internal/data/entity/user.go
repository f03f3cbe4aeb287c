package entity

import "time"

// User is a customer account that collects points.
type User struct {
	Credentials
	Points            int64      `db:"points"`
	QRCode            *string    `db:"qr_code"`
	QRRetrievalCount  int64      `db:"qr_retrieval_count"`
	Birthday          *time.Time `db:"birthday"`
	LastBirthdayAward *time.Time `db:"last_birthday_award"`
}
