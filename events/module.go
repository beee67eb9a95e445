package events

import (
	"context"

	"github.com/pkg/errors"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"golang.org/x/sync/errgroup"
)

// Module is a long running consumer started by a binary. RunModule blocks
// until ctx is done or the subscription closes.
type Module interface {
	RunModule(ctx context.Context) error
	Name() string
	Shutdown()
}

// RunModules runs every module until ctx is done, then shuts them all down.
// A module failing to start cancels the others.
func RunModules(ctx context.Context, modules ...Module) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, module := range modules {
		module := module
		Logger.LogV2.Infof("module %s starts", module.Name())
		g.Go(func() error {
			if err := module.RunModule(gctx); err != nil {
				return errors.Wrapf(err, "module %s", module.Name())
			}
			return nil
		})
	}
	err := g.Wait()
	for _, module := range modules {
		module.Shutdown()
	}
	return err
}
