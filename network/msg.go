// Package network defines the wire message shapes for the account-creation
// protocol and a small line-oriented transport to carry them.
package network

import (
	"time"

	json "github.com/goccy/go-json"
)

// PrepareReq is the coordinator's vote request.
type PrepareReq struct {
	TransactionID  string  `json:"transaction_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	InitialBalance float64 `json:"initial_balance"`
}

// PrepareResp carries a participant's vote and the human-readable reason.
type PrepareResp struct {
	VoteCommit bool   `json:"vote_commit"`
	Reason     string `json:"reason"`
}

// CommitReq asks a participant to make transaction_id durable.
type CommitReq struct {
	TransactionID string `json:"transaction_id"`
}

// AbortReq asks a participant to discard transaction_id's reservation.
type AbortReq struct {
	TransactionID string `json:"transaction_id"`
}

// Empty acknowledges Commit/Abort; both are defined never to fail.
type Empty struct{}

// CreateAccountReq is the client-facing request handled by the coordinator.
type CreateAccountReq struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	InitialBalance float64 `json:"initial_balance"`
}

// CreateAccountResp is the client-facing response.
type CreateAccountResp struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Balance   float64   `json:"balance,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Envelope tags a message body so a single line-oriented connection can
// multiplex the handful of request kinds this protocol uses.
type Envelope struct {
	Kind string          `json:"kind"`
	Body json.RawMessage `json:"body"`
	Sent time.Time       `json:"sent"`
}

// Pack marshals v as the body of an Envelope tagged with kind.
func Pack(kind string, v interface{}) (Envelope, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Kind: kind, Body: body, Sent: time.Now()}, nil
}

// Unpack decodes an Envelope's body into v.
func (e Envelope) Unpack(v interface{}) error {
	return json.Unmarshal(e.Body, v)
}
