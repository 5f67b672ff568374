package store

import (
	"context"
	"fmt"
)

// Listen subscribes to n and hands every change to each handler until ctx is
// done or the subscription closes. Later changes overwrite earlier ones; there
// is no merge.
func Listen(ctx context.Context, n Notifier, handlers ...ChangeHandler) error {
	changes, err := n.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-changes:
			if !ok {
				return ctx.Err()
			}
			for _, h := range handlers {
				h.HandleChange(c)
			}
		}
	}
}
