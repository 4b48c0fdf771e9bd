//go:build !ebiten

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Watch the population in a window (requires the ebiten build tag)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("the viewer requires the ebiten build tag; rebuild with `go build -tags ebiten ./cmd/hivsim`")
		},
	}
}
