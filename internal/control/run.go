package control

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Run starts the producer and consumer and blocks until both have stopped.
// A failure in either unit cancels the other and is returned. Cancelling
// ctx is a clean shutdown and returns nil.
func Run(ctx context.Context, p *Producer, c *Consumer) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Run(gctx) })
	g.Go(func() error { return c.Run(gctx) })

	err := g.Wait()
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}
