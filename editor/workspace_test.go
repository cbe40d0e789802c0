package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/stache/template/scanner"
)

func TestWorkspaceUpdateFile(t *testing.T) {
	w := NewWorkspace(".")

	if err := w.UpdateFile("index.mustache", []byte("<p>{{name}}</p>")); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	doc := w.GetFile("index.mustache")
	if doc == nil {
		t.Fatal("GetFile returned nil")
	}
	if doc.Tree == nil {
		t.Fatal("document has no tree")
	}
	if len(doc.Tree.Children) == 0 {
		t.Error("tree has no children")
	}
}

func TestWorkspaceCheckpoint(t *testing.T) {
	w := NewWorkspace(".")
	w.UpdateFile("partial.mustache", []byte("<ul><li>a"))

	doc := w.GetFile("partial.mustache")
	if len(doc.Checkpoint) == 0 {
		t.Fatal("document has no checkpoint")
	}

	sc := scanner.New()
	sc.Deserialize(doc.Checkpoint)
	if got := sc.OpenElementDepth(); got != 2 {
		t.Errorf("OpenElementDepth = %d, want 2", got)
	}
}

func TestWorkspaceCloseFile(t *testing.T) {
	w := NewWorkspace(".")
	w.UpdateFile("a.mustache", []byte("x"))
	w.CloseFile("a.mustache")

	if w.GetFile("a.mustache") != nil {
		t.Error("GetFile returned a closed document")
	}
}

func TestWorkspaceScanAll(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	tmpl := write("page.mustache", "<p>{{greeting}}</p>")
	write("notes.txt", "not a template")

	w := NewWorkspace(dir)
	if err := w.ScanAll(); err != nil {
		t.Fatalf("ScanAll: %v", err)
	}

	if w.GetFile(tmpl) == nil {
		t.Error("template file was not scanned")
	}
	if w.GetFile(filepath.Join(dir, "notes.txt")) != nil {
		t.Error("non-template file was scanned")
	}
}
