package cli

import (
	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/pkg/venue"
)

// newInitCmd creates the init command, which writes a starter document
// into the document store.
func newInitCmd(configFile *string) *cobra.Command {
	var (
		withStage bool
		withRows  bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init <document>",
		Short: "Create a starter venue document",
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

			if !force {
				if _, err := docs.Load(ctx, name); err == nil {
					printWarning("Document %q already exists (use --force to overwrite)", name)
					return nil
				}
			}

			vs := venue.NewStore()
			if withStage {
				if _, err := vs.AddSection(venue.TypeStage); err != nil {
					return err
				}
			}
			if withRows {
				if _, err := vs.AddSection(venue.TypeRows); err != nil {
					return err
				}
			}

			canvas := venue.Canvas{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
			if canvas.Width <= 0 {
				canvas.Width = venue.DefaultCanvasWidth
			}
			if canvas.Height <= 0 {
				canvas.Height = venue.DefaultCanvasHeight
			}

			doc := venue.DocumentFromSnapshot(name, canvas, vs.Snapshot())
			if err := docs.Save(ctx, name, doc); err != nil {
				return err
			}

			printSuccess("Created document %q", name)
			printDetail("Canvas: %.0fx%.0f", canvas.Width, canvas.Height)
			printNextStep("Edit it", "hallplan edit "+name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withStage, "stage", true, "start with a stage")
	cmd.Flags().BoolVar(&withRows, "rows", false, "start with a block of seat rows")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing document")

	return cmd
}
