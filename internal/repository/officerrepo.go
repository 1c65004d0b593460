// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
)

// OfficerRepository provides access to registered officers.
type OfficerRepository interface {
	// Create inserts a new officer; a taken e-mail yields errs.ErrDuplicateIdentity.
	Create(ctx context.Context, o *model.Officer) error
	// GetByID loads an officer by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Officer, error)
	// GetByEmail loads an officer by normalized official e-mail.
	GetByEmail(ctx context.Context, email string) (*model.Officer, error)
	// List returns all officers, newest first.
	List(ctx context.Context) ([]model.Officer, error)
}
