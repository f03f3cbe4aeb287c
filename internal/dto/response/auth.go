package response

import (
	"time"

	"loyalty-rewards/internal/data/entity"
)

type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	AccountID string          `json:"accountId"`
	Username  string          `json:"username"`
	Role      entity.UserRole `json:"role"`
	QRCode    *string         `json:"qrCode,omitempty"`
}

// AccountResponse never includes the password hash.
type AccountResponse struct {
	ID                string          `json:"id"`
	Username          string          `json:"username"`
	Email             string          `json:"email"`
	Role              entity.UserRole `json:"role"`
	Points            *int64          `json:"points,omitempty"`
	QRCode            *string         `json:"qrCode,omitempty"`
	QRRetrievalCount  *int64          `json:"qrRetrievalCount,omitempty"`
	Birthday          *string         `json:"birthday,omitempty"`
	LastBirthdayAward *string         `json:"lastBirthdayAward,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// Helper converters
func AccountToResponse(account entity.Account) AccountResponse {
	creds := account.Creds()
	resp := AccountResponse{
		ID:        creds.ID.String(),
		Username:  creds.Username,
		Email:     creds.Email,
		Role:      creds.Role,
		CreatedAt: creds.CreatedAt,
		UpdatedAt: creds.UpdatedAt,
	}

	if user, ok := account.(*entity.User); ok {
		resp.Points = &user.Points
		resp.QRCode = user.QRCode
		resp.QRRetrievalCount = &user.QRRetrievalCount
		resp.Birthday = formatDate(user.Birthday)
		resp.LastBirthdayAward = formatDate(user.LastBirthdayAward)
	}

	return resp
}
