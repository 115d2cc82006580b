package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
)

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <polyline|->",
		Short: "Print the header of a Flexible Polyline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := polylineArg(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := flexpolyline.NewDecoder(s)
			if err != nil {
				return fmt.Errorf("header (%s): %w", flexpolyline.Code(err), err)
			}
			return writeJSON(cmd.OutOrStdout(), d.Header())
		},
	}
}
