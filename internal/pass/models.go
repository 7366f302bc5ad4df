package pass

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "neighnet/pkg/domain"
)

// Claim constants identifying this system and its verifier role. Gate
// scanners validate these offline, so they are part of the wire contract.
const (
	Issuer   = "neighnet"
	Audience = "vigilancia"
	Version  = 2
)

// DefaultTTLHours applies when the caller does not supply a TTL; issuance
// clamps any supplied value into [MinTTLHours, MaxTTLHours].
const (
	DefaultTTLHours = 24
	MinTTLHours     = 1
	MaxTTLHours     = 72
)

// EnvelopeClaims is the signed payload of a pass envelope. The claim names
// are the v2 wire format already deployed on gate scanners.
type EnvelopeClaims struct {
	Version   int               `json:"v"`
	PassID    string            `json:"id_qr"`
	VisitorID string            `json:"visitante_id"`
	Nonce     string            `json:"nonce"`
	Meta      map[string]string `json:"meta,omitempty"`
	jwt.RegisteredClaims
}

// Summary is the plaintext pass description returned alongside the envelope
// for client display. It carries no authority; only the envelope is trusted.
type Summary struct {
	PassID    id.PassID
	VisitorID id.VisitorID
	IssuedAt  time.Time
	ExpiresAt time.Time
	Nonce     string
}

// IssueResult pairs the opaque signed envelope with its summary.
type IssueResult struct {
	Envelope string
	Pass     Summary
}
