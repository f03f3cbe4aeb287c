package response

import (
	"time"

	"loyalty-rewards/internal/data/entity"
)

type MenuResponse struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

func MenuToResponse(menu *entity.Menu) MenuResponse {
	return MenuResponse{
		ID:         menu.ID.String(),
		URL:        menu.URL,
		UploadedBy: menu.UploadedBy.String(),
		CreatedAt:  menu.CreatedAt,
	}
}
