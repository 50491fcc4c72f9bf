// Package qrtoken builds and verifies the signed tokens embedded in ticket
// and personal QR codes. A token is `<json payload>.<hex hmac-sha256>`; the
// MAC is computed over the exact payload bytes, and verification re-MACs the
// received bytes rather than re-serializing, so key order can never break a
// round trip. A valid signature proves authenticity and existence only; the
// live ticket row remains the source of truth for current validity.
package qrtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// personalTokenType discriminates personal QR payloads from ticket
// payloads; each verifier rejects the other kind.
const personalTokenType = "USER_QR"

// TicketClaims is the payload of a ticket admission token.
type TicketClaims struct {
	Type     string `json:"type,omitempty"`
	TicketID string `json:"ticketId"`
	EventID  string `json:"eventId"`
	OwnerID  string `json:"ownerId"`
	IssuedAt int64  `json:"timestamp"`
}

type personalClaims struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	IssuedAt int64  `json:"timestamp"`
}

type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

func (c *Codec) sign(payload []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature splits a raw token and checks its MAC in constant time.
// It returns the payload bytes only after the signature checks out.
func (c *Codec) verifySignature(token string) ([]byte, bool) {
	idx := strings.LastIndex(token, ".")
	if idx <= 0 || idx == len(token)-1 {
		return nil, false
	}
	payload, signature := token[:idx], token[idx+1:]

	expected := c.sign([]byte(payload))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, false
	}
	return []byte(payload), true
}

// IssueTicketToken mints the signed admission token for a ticket.
func (c *Codec) IssueTicketToken(ticketID, eventID, ownerID string) (string, error) {
	payload, err := json.Marshal(TicketClaims{
		TicketID: ticketID,
		EventID:  eventID,
		OwnerID:  ownerID,
		IssuedAt: c.now().UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal ticket claims: %w", err)
	}
	return string(payload) + "." + c.sign(payload), nil
}

// VerifyTicketToken checks signature then shape. All failure modes — missing
// separator, bad MAC, unparseable payload, personal token in a ticket slot —
// collapse to ok=false; callers must not distinguish them.
func (c *Codec) VerifyTicketToken(token string) (TicketClaims, bool) {
	payload, ok := c.verifySignature(token)
	if !ok {
		return TicketClaims{}, false
	}

	var claims TicketClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return TicketClaims{}, false
	}
	if claims.Type != "" || claims.TicketID == "" {
		return TicketClaims{}, false
	}
	return claims, true
}

// IssuePersonalToken mints a user's personal QR token, used to receive
// transfers.
func (c *Codec) IssuePersonalToken(userID string) (string, error) {
	payload, err := json.Marshal(personalClaims{
		Type:     personalTokenType,
		UserID:   userID,
		IssuedAt: c.now().UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal personal claims: %w", err)
	}
	return string(payload) + "." + c.sign(payload), nil
}

// VerifyPersonalToken returns the embedded user id for a valid personal
// token, failing closed the same way VerifyTicketToken does.
func (c *Codec) VerifyPersonalToken(token string) (string, bool) {
	payload, ok := c.verifySignature(token)
	if !ok {
		return "", false
	}

	var claims personalClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", false
	}
	if claims.Type != personalTokenType || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

// IntegrityHash is the opaque companion hash stored with a ticket for
// fast-path lookup. It carries no trust guarantee on its own.
func (c *Codec) IntegrityHash(ticketID, eventID, ownerID string) string {
	data := fmt.Sprintf("%s-%s-%s-%d", ticketID, eventID, ownerID, c.now().UnixMilli())
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
