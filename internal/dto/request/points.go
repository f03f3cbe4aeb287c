package request

// ManagePointsRequest carries a signed delta. Any integer is accepted; the
// ledger decides whether the result is allowed.
type ManagePointsRequest struct {
	Points *int64 `json:"points" validate:"required"`
}
