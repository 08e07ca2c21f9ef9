package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/erdraft/erdraft/pkg/canvas"
	"github.com/erdraft/erdraft/pkg/render"
	"github.com/erdraft/erdraft/pkg/schema"
)

// serveCommand creates the serve command: a read-only HTTP view of a project.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [project.k2p]",
		Short: "Serve rendered diagrams over HTTP",
		Long: `Serve rendered diagrams over HTTP.

The server is read-only: it lists the project's diagrams and renders them
on demand. Useful for sharing a design with people who don't run erdraft.

Routes:
  GET /diagrams               list diagrams as JSON
  GET /diagrams/{name}.svg    Graphviz-laid-out rendering
  GET /diagrams/{name}.png    canvas-exact rendering`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.ServeAddr
			}
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, projectPath, addr string) error {
	p, err := schema.ReadProjectFile(projectPath)
	if err != nil {
		return fmt.Errorf("load project %s: %w", projectPath, err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.newServeHandler(p),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.Logger.Info("serving project", "project", p.Name, "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// diagramSummary is the list entry returned by GET /diagrams.
type diagramSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
	Items       int    `json:"items"`
}

func (c *CLI) newServeHandler(p *schema.Project) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/diagrams", func(w http.ResponseWriter, req *http.Request) {
		summaries := make([]diagramSummary, 0, len(p.Diagrams))
		for _, d := range p.Diagrams {
			summaries = append(summaries, diagramSummary{
				Name:        d.Name,
				Description: d.Description,
				IsActive:    d.IsActive,
				Items:       len(d.Items),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summaries); err != nil {
			c.Logger.Error("encode diagram list", "err", err)
		}
	})

	r.Get("/diagrams/{name}.svg", func(w http.ResponseWriter, req *http.Request) {
		c.renderDiagram(w, p, chi.URLParam(req, "name"), formatSVG)
	})
	r.Get("/diagrams/{name}.png", func(w http.ResponseWriter, req *http.Request) {
		c.renderDiagram(w, p, chi.URLParam(req, "name"), formatPNG)
	})

	return r
}

var errUnknownDiagram = errors.New("unknown diagram")

func (c *CLI) renderDiagram(w http.ResponseWriter, p *schema.Project, name, format string) {
	data, err := renderProjectDiagram(c, p, name, format)
	if errors.Is(err, errUnknownDiagram) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		c.Logger.Error("render diagram", "diagram", name, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	switch format {
	case formatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case formatPNG:
		w.Header().Set("Content-Type", "image/png")
	}
	_, _ = w.Write(data)
}

// renderProjectDiagram opens a fresh canvas over the named diagram and
// renders it. Each request gets its own controller and its own copy of the
// diagram record: opening a canvas writes measured item sizes back into the
// record, so concurrent requests must not share one.
func renderProjectDiagram(c *CLI, p *schema.Project, name, format string) ([]byte, error) {
	d := p.Diagram(name)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", errUnknownDiagram, name)
	}

	ctrl := canvas.New(d.Clone(), p, canvas.Options{Logger: c.Logger})
	ctrl.Open()

	if format == formatPNG {
		return render.RenderPNG(ctrl.Scene(), c.Config.ExportScale)
	}
	return render.RenderSVG(render.ToDOT(ctrl.Scene(), render.Options{}))
}
