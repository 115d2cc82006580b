package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flexpoly",
		Short: "Encode and decode HERE Flexible Polylines",
		Long: `flexpoly converts between coordinate lists and the Flexible Polyline
format used by HERE routing and isoline APIs.

Examples:
  flexpoly decode BFoz5xJ67i1B1B7PzIhaxL7Y
  flexpoly decode BFoz5xJ67i1B1B7PzIhaxL7Y --format geojson
  echo '[[50.1022829,8.6982122],[50.1020076,8.6956695]]' | flexpoly encode
  flexpoly header BlBoz5xJ67i1BU`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newDecodeCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newHeaderCmd())
	return root
}
