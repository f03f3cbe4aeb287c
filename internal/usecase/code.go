package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"loyalty-rewards/pkg/metrics"
	"loyalty-rewards/pkg/qr"
	"loyalty-rewards/pkg/token"

	"github.com/google/uuid"
)

// CodeMinter signs a transaction token and renders the URL that carries it
// as a QR data URI. Manage-points codes point at the admin endpoint, view
// codes at the read-only points lookup.
type CodeMinter struct {
	tokens    *token.Service
	renderer  *qr.Renderer
	publicURL string
	metrics   *metrics.Metrics

	// signed, when set, sees every token before it is rendered.
	signed func(accountID uuid.UUID, token string)
}

func NewCodeMinter(tokens *token.Service, renderer *qr.Renderer, publicURL string, m *metrics.Metrics) *CodeMinter {
	return &CodeMinter{
		tokens:    tokens,
		renderer:  renderer,
		publicURL: strings.TrimRight(publicURL, "/"),
		metrics:   m,
	}
}

func (c *CodeMinter) Mint(accountID uuid.UUID, points, generation int64, capability token.Capability) (string, error) {
	signed, err := c.tokens.IssueTransaction(accountID.String(), points, generation, capability)
	if err != nil {
		return "", err
	}
	if c.signed != nil {
		c.signed(accountID, signed)
	}

	dataURI, err := c.renderer.DataURI(c.targetURL(accountID, capability, signed))
	if err != nil {
		return "", err
	}

	c.metrics.RecordQRIssued(string(capability))
	return dataURI, nil
}

func (c *CodeMinter) targetURL(accountID uuid.UUID, capability token.Capability, signed string) string {
	route := "points"
	prefix := "user"
	if capability == token.CapabilityManagePoints {
		route = "manage-points"
		prefix = "admin"
	}
	return fmt.Sprintf("%s/api/%s/%s/%s?token=%s", c.publicURL, prefix, accountID, route, url.QueryEscape(signed))
}
