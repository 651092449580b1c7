package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/julianstephens/macroplan/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Delete an existing database file before initializing."`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := ctx.Store.GetConfigPath()
	_, remote := ctx.Store.(*postgres.Store)

	if c.Force && !remote {
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Fprintf(ctx.out(), "Deleted existing database at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(context.Background()); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Initialized macroplan storage at: %s\n", path)
	return nil
}
