package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
	"github.com/samirrijal/geoflex/internal/pkg/geospatial"
)

func newDecodeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode <polyline|->",
		Short: "Decode a Flexible Polyline",
		Long: `Decode a Flexible Polyline and print its points, a GeoJSON Feature or
the equivalent Google encoded polyline. Pass "-" to read the string from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := polylineArg(cmd, args[0])
			if err != nil {
				return err
			}
			pl, err := flexpolyline.Decode(s)
			if err != nil {
				return fmt.Errorf("decode (%s): %w", flexpolyline.Code(err), err)
			}
			d := geospatial.Describe(pl)

			out := cmd.OutOrStdout()
			switch format {
			case "points":
				return writeJSON(out, d)
			case "geojson":
				return writeJSON(out, geospatial.Feature(d))
			case "google":
				_, err := fmt.Fprintln(out, geospatial.GooglePolyline(d.Points))
				return err
			default:
				return fmt.Errorf("unknown format %q (want points, geojson or google)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "points", "output format (points, geojson or google)")
	return cmd
}

// polylineArg returns arg, or the first line of stdin when arg is "-".
func polylineArg(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return strings.TrimSpace(arg), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
