package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/erdraft/erdraft/pkg/canvas"
	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/schema"
)

// editCommand creates the edit command: the interactive diagram editor.
func (c *CLI) editCommand() *cobra.Command {
	var diagramName string

	cmd := &cobra.Command{
		Use:   "edit [project.k2p]",
		Short: "Open a project in the interactive diagram editor",
		Long: `Open a project in the interactive diagram editor.

The editor runs in the terminal with full mouse support: click to select,
shift-click to extend the selection, drag to move, right-click or escape to
cancel. Changes are written back to the project file on quit.

Without --diagram the project's active diagram is opened; a project without
diagrams gets a fresh one named "main".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(args[0], diagramName)
		},
	}

	cmd.Flags().StringVarP(&diagramName, "diagram", "d", "", "diagram name (default: the active diagram)")
	return cmd
}

func (c *CLI) runEdit(projectPath, diagramName string) error {
	p, err := schema.ReadProjectFile(projectPath)
	if err != nil {
		return fmt.Errorf("load project %s: %w", projectPath, err)
	}

	d, err := pickDiagram(p, diagramName)
	if err != nil {
		return err
	}

	ctrl := canvas.New(d, p, canvas.Options{
		Logger:   c.Logger,
		GridSnap: c.Config.GridSnap,
	})
	ctrl.Open()

	model := newEditorModel(c, ctrl, p, d)
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := prog.Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	ctrl.Leave()
	if em, ok := final.(editorModel); ok && em.aborted {
		c.Logger.Info("discarding changes", "project", projectPath)
		return nil
	}
	if err := schema.WriteProjectFile(p, projectPath); err != nil {
		return fmt.Errorf("save %s: %w", projectPath, err)
	}
	c.Logger.Info("project saved", "project", projectPath, "diagram", d.Name)
	return nil
}

// pickDiagram resolves which diagram to open. An empty name means the active
// diagram; a project without any diagrams gets a fresh active "main".
func pickDiagram(p *schema.Project, name string) (*diagram.Diagram, error) {
	if name != "" {
		d := p.Diagram(name)
		if d == nil {
			return nil, fmt.Errorf("no diagram %q in project %s", name, p.Name)
		}
		return d, nil
	}

	if d := p.ActiveDiagram(); d != nil {
		return d, nil
	}
	if len(p.Diagrams) > 0 {
		return p.Diagrams[0], nil
	}

	d := diagram.New("main", "")
	p.AddDiagram(d)
	if err := p.SetActiveDiagram(d.Name); err != nil {
		return nil, err
	}
	return d, nil
}
