package token

// Principal is the caller identity attached to a request once its tokens
// have been verified.
type Principal struct {
	SubjectID  string
	Role       string
	Capability Capability
	Points     int64
	Generation int64

	// Verified source tokens. Either may be nil.
	Session     *SessionClaims
	Transaction *TransactionClaims
}

// SessionPrincipal builds the principal of an ordinary bearer request.
func SessionPrincipal(session *SessionClaims) Principal {
	return Principal{
		SubjectID: session.AccountID,
		Role:      session.Role,
		Session:   session,
	}
}

// MergePrincipal combines a scanned transaction token with the scanner's own
// session token. Identity and snapshot come from tx; the role comes only from
// session, so a nil session yields a principal with no role at all.
func MergePrincipal(tx *TransactionClaims, session *SessionClaims) Principal {
	p := Principal{
		SubjectID:   tx.AccountID,
		Capability:  tx.Capability,
		Points:      tx.Points,
		Generation:  tx.Generation,
		Transaction: tx,
	}
	if session != nil {
		p.Role = session.Role
		p.Session = session
	}
	return p
}

// ActingAccountID is the account that presented the session token, which
// differs from SubjectID on merged principals.
func (p Principal) ActingAccountID() string {
	if p.Session == nil {
		return ""
	}
	return p.Session.AccountID
}
