package memory

import (
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps all rows in process memory. It is meant for tests and local
// development; nothing survives a restart.
type Memory struct {
	mention       *mentionRepository
	authorization *authorizationRepository
	user          *userRepository
	firstMessage  *firstMessageRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		mention:       newMentionRepository(),
		authorization: newAuthorizationRepository(),
		user:          newUserRepository(),
		firstMessage:  newFirstMessageRepository(),
	}
}

func (m *Memory) Mention() interfaces.MentionRepository {
	return m.mention
}

func (m *Memory) Authorization() interfaces.AuthorizationRepository {
	return m.authorization
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) FirstMessage() interfaces.FirstMessageRepository {
	return m.firstMessage
}

func (m *Memory) Close() error {
	return nil
}
