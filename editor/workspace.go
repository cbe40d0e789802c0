// Package editor serves parsed template documents to editors over the
// Language Server Protocol: outline, folding, hover and diagnostics, all
// computed as read-only walks over the parse tree keyed on node kinds.
package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/dhamidi/stache/template/parser"
	"github.com/dhamidi/stache/template/scanner"
)

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*Document
}

type Document struct {
	Path    string
	Content []byte
	Tree    *parser.Node
	// Checkpoint is the serialized scanner state after the full parse,
	// the snapshot an incremental engine would restore from.
	Checkpoint []byte
}

func NewWorkspace(rootDir string) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*Document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

var templateExtensions = map[string]bool{
	".mustache": true,
	".stache":   true,
	".hbs":      true,
	".html":     true,
}

func (w *Workspace) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if templateExtensions[filepath.Ext(path)] {
			w.ScanFile(path)
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return w.UpdateFile(path, content)
}

func (w *Workspace) UpdateFile(path string, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := parser.ParseDocument(bytes.NewReader(content), parser.WithFile(filepath.Base(path)))
	tree := p.Finish()

	checkpoint := make([]byte, scanner.SerializationBufferSize)
	n := p.Scanner().Serialize(checkpoint)

	w.files[path] = &Document{
		Path:       path,
		Content:    content,
		Tree:       tree,
		Checkpoint: checkpoint[:n],
	}
	return nil
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

func (w *Workspace) CloseFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}
