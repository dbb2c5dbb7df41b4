package interfaces

import (
	"context"

	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

// FirstMessageRepository stores the oldest message of each public channel.
type FirstMessageRepository interface {
	// InsertIfAbsent stores msg unless its channel already has one.
	InsertIfAbsent(ctx context.Context, msg *model.FirstMessage) (bool, error)

	// List returns every stored first message ordered by channel ID.
	List(ctx context.Context) ([]*model.FirstMessage, error)
}
