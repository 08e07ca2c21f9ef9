package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erdraft/erdraft/pkg/canvas"
	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/render"
	"github.com/erdraft/erdraft/pkg/schema"
)

// Export formats.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatDOT = "dot"
)

// exportCommand creates the export command for rendering a diagram to a file.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		diagramName string
		format      string
		output      string
		titlesOnly  bool
		scale       float64
	)

	cmd := &cobra.Command{
		Use:   "export [project.k2p]",
		Short: "Render a diagram to SVG, PNG, or DOT",
		Long: `Render a diagram to SVG, PNG, or DOT.

SVG and DOT output is laid out by Graphviz; PNG output reproduces the
diagram exactly as arranged on the canvas. Without --diagram the project's
active diagram is exported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale == 0 {
				scale = c.Config.ExportScale
			}
			return c.runExport(args[0], diagramName, format, output, titlesOnly, scale)
		},
	}

	cmd.Flags().StringVarP(&diagramName, "diagram", "d", "", "diagram name (default: the active diagram)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: derived from the project name)")
	cmd.Flags().BoolVar(&titlesOnly, "titles-only", false, "node labels show entity names without attributes")
	cmd.Flags().Float64Var(&scale, "scale", 0, "raster scale factor for png output")

	return cmd
}

func (c *CLI) runExport(projectPath, diagramName, format, output string, titlesOnly bool, scale float64) error {
	p, d, err := openDiagram(projectPath, diagramName)
	if err != nil {
		return err
	}

	ctrl := canvas.New(d, p, canvas.Options{Logger: c.Logger})
	ctrl.Open()

	prog := newProgress(c.Logger)

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(render.ToDOT(ctrl.Scene(), render.Options{TitlesOnly: titlesOnly}))
	case formatSVG:
		data, err = render.RenderSVG(render.ToDOT(ctrl.Scene(), render.Options{TitlesOnly: titlesOnly}))
	case formatPNG:
		data, err = render.RenderPNG(ctrl.Scene(), scale)
	default:
		return fmt.Errorf("unknown format %q (want svg, png, or dot)", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", d.Name, err)
	}

	if output == "" {
		base := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
		output = fmt.Sprintf("%s-%s.%s", base, d.Name, format)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	prog.done(fmt.Sprintf("Exported %s to %s", d.Name, output))
	return nil
}

// openDiagram loads a project file and picks the requested diagram, or the
// active one when name is empty.
func openDiagram(projectPath, name string) (*schema.Project, *diagram.Diagram, error) {
	p, err := schema.ReadProjectFile(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load project %s: %w", projectPath, err)
	}

	var d *diagram.Diagram
	if name == "" {
		if d = p.ActiveDiagram(); d == nil {
			return nil, nil, fmt.Errorf("project %s has no active diagram; use --diagram", projectPath)
		}
	} else if d = p.Diagram(name); d == nil {
		return nil, nil, fmt.Errorf("no diagram %q in %s", name, projectPath)
	}
	return p, d, nil
}
