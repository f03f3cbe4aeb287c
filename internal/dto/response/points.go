package response

type PointsResponse struct {
	UserID string `json:"userId"`
	Points int64  `json:"points"`
}

type BirthdayResponse struct {
	Awarded bool  `json:"awarded"`
	Points  int64 `json:"points"`
}

type QRResponse struct {
	QRCode          string `json:"qrCode"`
	GenerationCount int64  `json:"generationCount"`
}

// ScanResponse echoes the snapshot signed into the scanned code, not the
// stored balance.
type ScanResponse struct {
	UserID          string `json:"userId"`
	Points          int64  `json:"points"`
	GenerationCount int64  `json:"generationCount"`
}

type ManagePointsResponse struct {
	UserID          string `json:"userId"`
	Points          int64  `json:"points"`
	QRCode          string `json:"qrCode"`
	GenerationCount int64  `json:"generationCount"`
}
