package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/sn/project"
)

var log = commonlog.GetLogger("sn.workspace")

// Workspace holds the analysed documents of a project. It is safe for
// concurrent use.
type Workspace struct {
	mu     sync.RWMutex
	config *project.Config
	files  map[string]*Document
}

func New(cfg *project.Config) *Workspace {
	if cfg == nil {
		cfg = project.Default()
	}
	return &Workspace{
		config: cfg,
		files:  make(map[string]*Document),
	}
}

func (w *Workspace) Config() *project.Config {
	return w.config
}

func (w *Workspace) Roots() []string {
	return w.config.Source.Dirs
}

// ScanAll analyses every source file below the configured roots. Hidden
// directories are skipped.
func (w *Workspace) ScanAll() error {
	for _, root := range w.Roots() {
		err := w.walk(root, func(path string, _ os.FileInfo) {
			if _, err := w.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		})
		if err != nil {
			return fmt.Errorf("scan %s: %w", root, err)
		}
	}
	return nil
}

func (w *Workspace) walk(root string, fn func(path string, info os.FileInfo)) error {
	if _, err := os.Stat(root); err != nil {
		return err
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if w.config.Matches(path) {
			fn(path, info)
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile replaces the content of path and re-analyses it.
func (w *Workspace) UpdateFile(path string, content []byte) *Document {
	doc := Analyze(path, content)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = doc
	log.Debugf("analysed %s: %d tokens, %d diagnostics", path, len(doc.Tokens), len(doc.Diagnostics))
	return doc
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns all documents sorted by path.
func (w *Workspace) Files() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]*Document, 0, len(w.files))
	for _, doc := range w.files {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
	return docs
}

// Diagnostics returns the diagnostics of every document, ordered by path
// and position.
func (w *Workspace) Diagnostics() []Diagnostic {
	var all []Diagnostic
	for _, doc := range w.Files() {
		all = append(all, doc.Diagnostics...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Span.Start.Offset < b.Span.Start.Offset
	})
	return all
}
