package domain

import (
	"context"
)

// UserRepository handles the persistent identity, including the status
// column the presence tracker writes through.
type UserRepository interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetStatus(ctx context.Context, id string, status string) error
}

// MessageRepository is the durable store's write contract. Insert returns
// the record id; FindAll returns records in insertion order.
type MessageRepository interface {
	Insert(ctx context.Context, rec *Record) (string, error)
	FindAll(ctx context.Context) ([]Record, error)
}
