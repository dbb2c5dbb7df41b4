package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type firstMessageRepository struct {
	mu       sync.RWMutex
	messages map[string]*model.FirstMessage
}

func newFirstMessageRepository() *firstMessageRepository {
	return &firstMessageRepository{
		messages: make(map[string]*model.FirstMessage),
	}
}

func (r *firstMessageRepository) InsertIfAbsent(ctx context.Context, msg *model.FirstMessage) (bool, error) {
	if err := msg.Validate(); err != nil {
		return false, goerr.Wrap(err, "invalid first message")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[msg.ChannelID]; ok {
		return false, nil
	}

	msgCopy := *msg
	r.messages[msg.ChannelID] = &msgCopy
	return true, nil
}

func (r *firstMessageRepository) List(ctx context.Context) ([]*model.FirstMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.FirstMessage, 0, len(r.messages))
	for _, m := range r.messages {
		msgCopy := *m
		result = append(result, &msgCopy)
	}

	slices.SortFunc(result, func(a, b *model.FirstMessage) int {
		return strings.Compare(a.ChannelID, b.ChannelID)
	})
	return result, nil
}
