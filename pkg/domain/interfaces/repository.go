package interfaces

import (
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotFound      = goerr.New("not found")
	ErrAlreadyExists = goerr.New("already exists")
)

// Repository defines the interface for data persistence
type Repository interface {
	Mention() MentionRepository
	Authorization() AuthorizationRepository
	User() UserRepository
	FirstMessage() FirstMessageRepository

	Close() error
}
