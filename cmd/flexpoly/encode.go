package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
)

func newEncodeCmd() *cobra.Command {
	var (
		file              string
		precision         int
		thirdDim          string
		thirdDimPrecision int
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode coordinates as a Flexible Polyline",
		Long: `Encode a JSON array of [lat, lng] or [lat, lng, z] pairs read from stdin
or --file.

Examples:
  echo '[[50.1022829,8.6982122],[50.1020076,8.6956695]]' | flexpoly encode
  flexpoly encode --file track.json --third-dimension altitude --third-dimension-precision 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			dim, err := flexpolyline.ParseThirdDimension(thirdDim)
			if err != nil {
				return err
			}
			points, err := readCoordinates(in)
			if err != nil {
				return err
			}
			s, err := flexpolyline.Encode(points, precision, dim, thirdDimPrecision)
			if err != nil {
				return fmt.Errorf("encode (%s): %w", flexpolyline.Code(err), err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read coordinates from file instead of stdin")
	cmd.Flags().IntVarP(&precision, "precision", "p", flexpolyline.DefaultPrecision, "decimal digits kept for lat/lng (0-15)")
	cmd.Flags().StringVar(&thirdDim, "third-dimension", "absent", "meaning of the third value (absent, level, altitude, elevation, custom1, custom2)")
	cmd.Flags().IntVar(&thirdDimPrecision, "third-dimension-precision", 0, "decimal digits kept for the third value (0-15)")
	return cmd
}

// readCoordinates parses [[lat, lng(, z)], ...]. Missing z values are
// reported by Encode when a third dimension is requested.
func readCoordinates(r io.Reader) ([]flexpolyline.Point, error) {
	var raw [][]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse coordinates: %w", err)
	}
	points := make([]flexpolyline.Point, 0, len(raw))
	for i, c := range raw {
		switch len(c) {
		case 2:
			points = append(points, flexpolyline.NewPoint(c[0], c[1]))
		case 3:
			points = append(points, flexpolyline.NewPoint3D(c[0], c[1], c[2]))
		default:
			return nil, fmt.Errorf("coordinate %d: want [lat, lng] or [lat, lng, z], got %d values", i, len(c))
		}
	}
	return points, nil
}
