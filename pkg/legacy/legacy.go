// Package legacy imports project files from the old SQLite container format.
// Current project files are plain JSON; SQLite files only appear when users
// bring archives from old installations, so the importer is read-only and
// conversion is one way.
package legacy

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/schema"
)

var sqliteMagic = []byte("SQLite format 3\x00")

// IsSQLiteFile reports whether the file starts with the SQLite header magic.
// Project files with a JSON payload return false.
func IsSQLiteFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := f.Read(header); err != nil {
		return false
	}
	return bytes.Equal(header, sqliteMagic)
}

// Load reads a legacy SQLite project file into the current model. The file
// is opened read-only and never modified.
func Load(ctx context.Context, path string) (*schema.Project, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	var name, description string
	err = db.QueryRowContext(ctx, `SELECT name, description FROM project_info LIMIT 1`).
		Scan(&name, &description)
	if err != nil {
		return nil, fmt.Errorf("read project info: %w", err)
	}

	p := schema.NewProject(name)
	applyDescription(p, description)

	if err := loadTables(ctx, db, p); err != nil {
		return nil, err
	}
	if err := loadSequences(ctx, db, p); err != nil {
		return nil, err
	}
	if err := loadForeignKeys(ctx, db, p); err != nil {
		return nil, err
	}
	if err := loadDiagrams(ctx, db, p); err != nil {
		return nil, err
	}
	return p, nil
}

// applyDescription unpacks the project description. Late legacy versions
// smuggled a JSON object into the description column to carry the last
// active diagram; earlier ones stored plain text.
func applyDescription(p *schema.Project, description string) {
	var wrapped struct {
		Description       string `json:"description"`
		LastActiveDiagram string `json:"last_active_diagram"`
	}
	if err := json.Unmarshal([]byte(description), &wrapped); err == nil && wrapped.LastActiveDiagram != "" {
		p.Description = wrapped.Description
		p.LastActiveDiagram = wrapped.LastActiveDiagram
		return
	}
	p.Description = description
}

func loadTables(ctx context.Context, db *sql.DB, p *schema.Project) error {
	rows, err := db.QueryContext(ctx, `SELECT id, name, owner, color, comment FROM tables`)
	if err != nil {
		return fmt.Errorf("read tables: %w", err)
	}
	defer rows.Close()

	type pending struct {
		id  int64
		tbl *schema.Table
	}
	var tables []pending
	for rows.Next() {
		var (
			id             int64
			name, owner    string
			color, comment sql.NullString
		)
		if err := rows.Scan(&id, &name, &owner, &color, &comment); err != nil {
			return fmt.Errorf("scan table: %w", err)
		}
		tbl := &schema.Table{
			Name:    name,
			Owner:   owner,
			Color:   color.String,
			Comment: comment.String,
		}
		if err := p.AddTable(tbl); err != nil {
			return err
		}
		tables = append(tables, pending{id, tbl})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read tables: %w", err)
	}

	for _, t := range tables {
		if err := loadColumns(ctx, db, t.id, t.tbl); err != nil {
			return err
		}
	}
	return nil
}

func loadColumns(ctx context.Context, db *sql.DB, tableID int64, tbl *schema.Table) error {
	rows, err := db.QueryContext(ctx,
		`SELECT name, data_type, nullable, comment FROM columns WHERE table_id = ? ORDER BY column_order`,
		tableID)
	if err != nil {
		return fmt.Errorf("read columns of %s: %w", tbl.FullName(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, dataType string
			nullable       bool
			comment        sql.NullString
		)
		if err := rows.Scan(&name, &dataType, &nullable, &comment); err != nil {
			return fmt.Errorf("scan column of %s: %w", tbl.FullName(), err)
		}
		tbl.Columns = append(tbl.Columns, schema.Column{
			GUID:     schema.NewGUID(),
			Name:     name,
			DataType: dataType,
			Nullable: nullable,
			Comment:  comment.String,
		})
	}
	return rows.Err()
}

func loadSequences(ctx context.Context, db *sql.DB, p *schema.Project) error {
	rows, err := db.QueryContext(ctx,
		`SELECT name, owner, start_with, increment_by, comment FROM sequences`)
	if err != nil {
		return fmt.Errorf("read sequences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, owner      string
			start, increment int64
			comment          sql.NullString
		)
		if err := rows.Scan(&name, &owner, &start, &increment, &comment); err != nil {
			return fmt.Errorf("scan sequence: %w", err)
		}
		seq := &schema.Sequence{
			Name:      name,
			Owner:     owner,
			Start:     start,
			Increment: increment,
			Comment:   comment.String,
		}
		if err := p.AddSequence(seq); err != nil {
			return err
		}
	}
	return rows.Err()
}

func loadForeignKeys(ctx context.Context, db *sql.DB, p *schema.Project) error {
	rows, err := db.QueryContext(ctx,
		`SELECT source_table, source_column, target_table, target_column FROM foreign_keys`)
	if err != nil {
		return fmt.Errorf("read foreign keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var srcTable, srcColumn, tgtTable, tgtColumn string
		if err := rows.Scan(&srcTable, &srcColumn, &tgtTable, &tgtColumn); err != nil {
			return fmt.Errorf("scan foreign key: %w", err)
		}
		p.AddForeignKey(srcTable, srcColumn, tgtTable, tgtColumn)
	}
	return rows.Err()
}

func loadDiagrams(ctx context.Context, db *sql.DB, p *schema.Project) error {
	rows, err := db.QueryContext(ctx,
		`SELECT name, description, is_active, zoom_level, scroll_x, scroll_y FROM diagrams`)
	if err != nil {
		return fmt.Errorf("read diagrams: %w", err)
	}

	var diagrams []*diagram.Diagram
	for rows.Next() {
		var (
			name, description string
			isActive          bool
			zoom, sx, sy      float64
		)
		if err := rows.Scan(&name, &description, &isActive, &zoom, &sx, &sy); err != nil {
			rows.Close()
			return fmt.Errorf("scan diagram: %w", err)
		}
		d := diagram.New(name, description)
		d.IsActive = isActive
		d.ZoomLevel = zoom
		d.ScrollX, d.ScrollY = sx, sy
		diagrams = append(diagrams, d)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("read diagrams: %w", err)
	}

	for _, d := range diagrams {
		if err := loadDiagramContent(ctx, db, d); err != nil {
			return err
		}
		p.AddDiagram(d)
	}
	return nil
}

func loadDiagramContent(ctx context.Context, db *sql.DB, d *diagram.Diagram) error {
	rows, err := db.QueryContext(ctx,
		`SELECT object_type, object_name, x, y, width, height FROM diagram_items WHERE diagram_name = ?`,
		d.Name)
	if err != nil {
		return fmt.Errorf("read items of %s: %w", d.Name, err)
	}
	for rows.Next() {
		var (
			kind, name    string
			x, y          float64
			width, height sql.NullFloat64
		)
		if err := rows.Scan(&kind, &name, &x, &y, &width, &height); err != nil {
			rows.Close()
			return fmt.Errorf("scan item of %s: %w", d.Name, err)
		}
		d.AddItem(kind, name, x, y)
		d.SetItemSize(name, width.Float64, height.Float64)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("read items of %s: %w", d.Name, err)
	}

	rows, err = db.QueryContext(ctx,
		`SELECT source_table, target_table, connection_type, label FROM diagram_connections WHERE diagram_name = ?`,
		d.Name)
	if err != nil {
		return fmt.Errorf("read connections of %s: %w", d.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			src, tgt, kind string
			label          sql.NullString
		)
		if err := rows.Scan(&src, &tgt, &kind, &label); err != nil {
			return fmt.Errorf("scan connection of %s: %w", d.Name, err)
		}
		// Only manual connections were ever persisted; derived ones are
		// rebuilt from foreign keys on load.
		if kind == diagram.ConnectionManual {
			d.AddConnection(src, tgt, label.String)
		}
	}
	return rows.Err()
}
