package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/pkg/render/ownership"
	"github.com/hallplan/hallplan/pkg/venue"
)

// newInspectCmd creates the inspect command, which renders the section
// ownership graph (balconies and the children they own) via Graphviz.
func newInspectCmd(configFile *string) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Visualize section ownership as a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ctx := cmd.Context()

			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			docs, err := newDocumentStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer docs.Close(ctx)

			doc, err := docs.Load(ctx, name)
			if err != nil {
				return err
			}
			vs := venue.NewStore()
			if err := vs.Load(doc); err != nil {
				return err
			}
			dot := ownership.ToDOT(vs.Snapshot())

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = ownership.RenderSVG(ctx, dot)
			case "png":
				data, err = ownership.RenderPNG(ctx, dot)
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = name + "-ownership." + format
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			printSuccess("Wrote ownership graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")

	return cmd
}
