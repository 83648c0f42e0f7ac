// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAccountNotFound indicates that the account is absent or soft deleted.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the account id is already taken within the owner partition.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrInvalidUpdateStatus indicates that the status is not a valid target of a status update.
	ErrInvalidUpdateStatus = errors.New("incorrect field: 'status', please check again!")
)

// Account statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusDeleted   = "deleted"
)

// ValidStatuses holds every status an account can be in.
var ValidStatuses = []string{
	StatusActive,
	StatusDeleted,
	StatusSuspended,
}

// ValidUpdateStatuses holds the statuses an account can be moved to by a status update.
//
// StatusDeleted is reachable only through a delete.
var ValidUpdateStatuses = []string{
	StatusActive,
	StatusSuspended,
}

// IsValidUpdateStatus returns true if the status is an allowed status update target.
func IsValidUpdateStatus(status string) bool {
	for _, s := range ValidUpdateStatuses {
		if s == status {
			return true
		}
	}

	return false
}

// Account holds a mock bank account of an external user.
//
// Balances are fixed at creation, nothing in the API moves money.
type Account struct {
	ID               string `json:"id" dynamodbav:"id" validate:"required,uuid4"`
	ExternalUserID   string `json:"externalUserId" dynamodbav:"externalUserId" validate:"min=1,max=255"`
	AccountNumber    string `json:"accountNumber" dynamodbav:"accountNumber" validate:"len=12,numeric"`
	RoutingNumber    string `json:"routingNumber" dynamodbav:"routingNumber" validate:"len=9,numeric"`
	Status           string `json:"status" dynamodbav:"status" validate:"oneof=active suspended deleted"`
	CurrentBalance   string `json:"currentBalance" dynamodbav:"currentBalance" validate:"decimal"`
	AvailableBalance string `json:"availableBalance" dynamodbav:"availableBalance" validate:"decimal"`
}

// FieldViolation describes a single failed constraint of an entity field.
type FieldViolation struct {
	Property    string            `json:"property"`
	Value       any               `json:"value"`
	Constraints map[string]string `json:"constraints"`
}

// ValidationError is returned when an entity breaks field level rules.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))

	for _, v := range e.Violations {
		for _, m := range v.Constraints {
			msgs = append(msgs, m)
		}
	}

	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}
