// Package models defines the records persisted by the account store and the
// repository contracts implemented by the DynamoDB layer.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstitutionStatusActive is the status assigned to a bank connection when
// the token exchange succeeds. No other status is written today; connections
// are never deleted.
const InstitutionStatusActive = "active"

// Institution is one linked bank connection for a user, keyed by
// (user_id, item_id). The access token is the durable Plaid credential and
// cannot be re-derived, so it is persisted immediately after exchange.
type Institution struct {
	UserID          string    `json:"user_id" dynamodbav:"user_id"`
	ItemID          string    `json:"item_id" dynamodbav:"item_id"`
	AccessToken     string    `json:"access_token" dynamodbav:"access_token"`
	InstitutionID   string    `json:"institution_id" dynamodbav:"institution_id"`
	InstitutionName string    `json:"institution_name" dynamodbav:"institution_name"`
	Status          string    `json:"status" dynamodbav:"status"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Account is one bank account or card discovered under an Institution,
// keyed by (user_id, account_id).
type Account struct {
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	AccountID    string    `json:"account_id" dynamodbav:"account_id"`
	ItemID       string    `json:"item_id" dynamodbav:"item_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	OfficialName *string   `json:"official_name" dynamodbav:"official_name"`
	Type         string    `json:"type" dynamodbav:"type"`
	Subtype      *string   `json:"subtype" dynamodbav:"subtype"`
	Mask         *string   `json:"mask" dynamodbav:"mask"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// StreamAmount is the last observed charge of a recurring stream. The amount
// is an exact decimal so persistence never loses cents; display code may
// convert to float.
type StreamAmount struct {
	Amount   decimal.Decimal
	Currency string
}

// IsZero reports whether the amount carries no information at all, which is
// the case for preferences created by the user before any sync has run.
func (a StreamAmount) IsZero() bool {
	return a.Amount.IsZero() && a.Currency == ""
}

// ReminderPreference is one per (user_id, stream_id): how many days before a
// charge the user wants to be notified, and the last known shape of the
// subscription as refreshed by the sync job. The stream_id is opaque and
// supplied by Plaid; nothing ties it to a stored Institution or Account.
type ReminderPreference struct {
	UserID             string
	StreamID           string
	ReminderDaysBefore int
	DeliveryMethod     string
	MerchantName       string
	LastAmount         StreamAmount
	Frequency          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Defaults applied when a reminder is created without explicit values,
// either by the sync job or by a set-reminder call omitting them.
const (
	DefaultReminderDaysBefore = 3
	DefaultDeliveryMethod     = "email"
)
