package request

// UpdateRequest changes any subset of the caller's credentials. OldPassword
// is always required.
type UpdateRequest struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	OldPassword string  `json:"oldPassword"`
}

// Birthday is a calendar date, YYYY-MM-DD.
type BirthdayRequest struct {
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
}

// AccountFields is validated after uniqueness checks so duplicate errors win
// over format errors.
type AccountFields struct {
	Username string `json:"username" validate:"min=4,max=30"`
	Email    string `json:"email" validate:"email"`
}
