package entity

import (
	"loyalty-rewards/pkg/utils"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is either a *User or an *Admin. Both share Credentials and the
// login flow but live in separate tables.
type Account interface {
	AccountID() uuid.UUID
	AccountRole() UserRole
	VerifyPassword(password string) bool
	Creds() *Credentials
}

// Credentials are the fields common to every account kind.
type Credentials struct {
	BaseNoDelete
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
}

func (c *Credentials) AccountID() uuid.UUID  { return c.ID }
func (c *Credentials) AccountRole() UserRole { return c.Role }
func (c *Credentials) Creds() *Credentials   { return c }

func (c *Credentials) VerifyPassword(password string) bool {
	return utils.CheckPasswordHash(password, c.PasswordHash)
}
