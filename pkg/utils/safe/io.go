package safe

import (
	"context"
	"fmt"
	"io"

	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
)

// Close closes closer and logs the error instead of returning it, for use in
// defer. Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close",
			"type", fmt.Sprintf("%T", closer),
			"error", err.Error())
	}
}
