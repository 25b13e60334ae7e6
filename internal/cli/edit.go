package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hallplan/hallplan/pkg/venue"
)

// newEditCmd creates the edit command, which opens the interactive
// terminal editor for a document.
func newEditCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <document>",
		Short: "Edit a venue document interactively",
		Long: `Edit opens a terminal editor with mouse support. Drag sections to
move them, click a section for its menu, and press 'a' to add new
sections. Changes are kept in memory until saved with 's'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			docs, err := newDocumentStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer docs.Close(ctx)

			vs := venue.NewStore()
			canvas := venue.Canvas{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
			if canvas.Width <= 0 {
				canvas.Width = venue.DefaultCanvasWidth
			}
			if canvas.Height <= 0 {
				canvas.Height = venue.DefaultCanvasHeight
			}

			doc, err := docs.Load(ctx, name)
			if err == nil {
				canvas = doc.Canvas
				if err := vs.Load(doc); err != nil {
					return err
				}
				logger.Debug("loaded document", "name", name, "sections", len(doc.Sections))
			} else {
				logger.Debug("starting empty document", "name", name)
			}

			model := newEditorModel(name, vs, canvas, docs)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			final, err := p.Run()
			model.Close()
			if err != nil {
				return err
			}
			if m, ok := final.(*editorModel); ok && m.saveErr != nil {
				return m.saveErr
			}
			return nil
		},
	}
	return cmd
}
