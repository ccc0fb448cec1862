package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GrantOutcome string

const (
	GrantGranted       GrantOutcome = "granted"
	GrantMissingToken  GrantOutcome = "missing_token"
	GrantMisconfigured GrantOutcome = "misconfigured"
	GrantInvalidToken  GrantOutcome = "invalid_token"
	GrantUnauthorized  GrantOutcome = "unauthorized"
	GrantStoreError    GrantOutcome = "store_error"
)

// GrantAudit records one admin grant attempt. The presented token is never stored.
type GrantAudit struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Outcome   GrantOutcome       `bson:"outcome" json:"outcome"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	RequestID string             `bson:"request_id,omitempty" json:"request_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // TTL index
}
