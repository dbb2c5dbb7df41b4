package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// User is the profile of an installed Slack user
type User struct {
	SlackID   string    `json:"slack_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	if u.SlackID == "" {
		return goerr.Wrap(ErrMissingRequired, "slack ID is required")
	}
	return nil
}
