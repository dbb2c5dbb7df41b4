package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

type mentionKey struct {
	ts          string
	workspaceID string
}

type mentionRepository struct {
	mu       sync.RWMutex
	mentions map[mentionKey]*model.Mention
}

func newMentionRepository() *mentionRepository {
	return &mentionRepository{
		mentions: make(map[mentionKey]*model.Mention),
	}
}

func (r *mentionRepository) InsertIfAbsent(ctx context.Context, mention *model.Mention) (bool, error) {
	if err := mention.Validate(); err != nil {
		return false, goerr.Wrap(err, "invalid mention")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := mentionKey{ts: mention.MessageTS, workspaceID: mention.WorkspaceID}
	if _, ok := r.mentions[key]; ok {
		return false, nil
	}

	stored := *mention
	stored.Visible = true
	r.mentions[key] = &stored
	return true, nil
}

func (r *mentionRepository) ListVisible(ctx context.Context, userID string) ([]*model.Mention, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Mention, 0)
	for _, m := range r.mentions {
		if m.UserID != userID || !m.Visible {
			continue
		}
		mentionCopy := *m
		result = append(result, &mentionCopy)
	}

	slices.SortFunc(result, compareMentions)
	return result, nil
}

func (r *mentionRepository) Hide(ctx context.Context, ts string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changes := 0
	for key, m := range r.mentions {
		if key.ts == ts && m.Visible {
			m.Visible = false
			changes++
		}
	}
	return changes, nil
}

// compareMentions orders by workspace, channel name, then newest message first
func compareMentions(a, b *model.Mention) int {
	if c := cmp.Compare(a.WorkspaceID, b.WorkspaceID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ChannelName, b.ChannelName); c != 0 {
		return c
	}
	return cmp.Compare(b.MessageTS, a.MessageTS)
}
