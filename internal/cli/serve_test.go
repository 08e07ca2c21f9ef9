package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/schema"
)

func serveTestProject(t *testing.T) *schema.Project {
	t.Helper()
	p := schema.NewProject("shop")
	if err := p.AddTable(&schema.Table{
		Owner: "sales",
		Name:  "orders",
		Columns: []schema.Column{
			{Name: "id", DataType: "NUMBER"},
		},
	}); err != nil {
		t.Fatal(err)
	}

	d := diagram.New("overview", "the main diagram")
	d.AddItem(diagram.KindTable, "sales.orders", 10, 10)
	p.AddDiagram(d)
	if err := p.SetActiveDiagram("overview"); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestServeDiagramList(t *testing.T) {
	c := New(io.Discard, LogInfo)
	srv := httptest.NewServer(c.newServeHandler(serveTestProject(t)))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/diagrams")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var list []diagramSummary
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("%d diagrams, want 1", len(list))
	}
	if list[0].Name != "overview" || !list[0].IsActive || list[0].Items != 1 {
		t.Errorf("summary = %+v", list[0])
	}
}

func TestServeUnknownDiagram(t *testing.T) {
	c := New(io.Discard, LogInfo)
	srv := httptest.NewServer(c.newServeHandler(serveTestProject(t)))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/diagrams/nope.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}

func TestServeDiagramPNG(t *testing.T) {
	c := New(io.Discard, LogInfo)
	srv := httptest.NewServer(c.newServeHandler(serveTestProject(t)))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/diagrams/overview.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("content type %q", got)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("response is not a PNG")
	}
}

func TestServeRenderLeavesRecordUntouched(t *testing.T) {
	c := New(io.Discard, LogInfo)
	p := serveTestProject(t)
	srv := httptest.NewServer(c.newServeHandler(p))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/diagrams/overview.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}

	// Opening a canvas writes measured sizes back into the diagram record it
	// was given. The server must hand each request a copy, not the project's
	// own record.
	if it := p.Diagram("overview").Item("sales.orders"); it.Width != 0 || it.Height != 0 {
		t.Errorf("project record mutated: item size (%v, %v), want (0, 0)", it.Width, it.Height)
	}
}

func TestServeConcurrentRenders(t *testing.T) {
	c := New(io.Discard, LogInfo)
	srv := httptest.NewServer(c.newServeHandler(serveTestProject(t)))
	defer srv.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		for _, path := range []string{"/diagrams/overview.png", "/diagrams/overview.svg"} {
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				resp, err := srv.Client().Get(srv.URL + path)
				if err != nil {
					errs <- err
					return
				}
				resp.Body.Close()
				if resp.StatusCode != 200 {
					errs <- fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
				}
			}(path)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
