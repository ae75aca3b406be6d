// Package ui serves a small web interface over a workspace: a list of
// source files with their diagnostics, a per-file view with the parsed
// tree, and a playground that parses submitted text.
package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/sn/format"
	"github.com/dhamidi/sn/workspace"
)

var log = commonlog.GetLogger("sn.ui")

//go:embed templates
var embeddedFS embed.FS

// maxSourceSize bounds the body of a playground request.
const maxSourceSize = 1 << 20

type Server struct {
	workspace *workspace.Workspace
	templates *template.Template
	mux       *http.ServeMux
}

func NewServer(ws *workspace.Workspace) (*Server, error) {
	funcMap := template.FuncMap{
		"errorCount": func(doc *workspace.Document) int {
			n := 0
			for _, d := range doc.Diagnostics {
				if d.Severity == workspace.SeverityError {
					n++
				}
			}
			return n
		},
		"tree": func(doc *workspace.Document) string {
			if doc.Expr == nil {
				return ""
			}
			return format.TreeString(doc.Expr)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(embeddedFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		workspace: ws,
		templates: tmpl,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /file", s.handleFile)
	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Debugf("%s %s", r.Method, r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

type playground struct {
	Source  string
	Format  string
	Formats []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Files      []*workspace.Document
		Playground playground
	}{
		Files:      s.workspace.Files(),
		Playground: playground{Format: s.workspace.Config().Output.Format, Formats: format.Formats},
	}
	s.render(w, "index.html", data)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	doc := s.workspace.GetFile(path)
	if doc == nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	s.render(w, "file.html", doc)
}

// ParseRequest is the JSON body accepted by POST /parse.
type ParseRequest struct {
	Source string `json:"source"`
	Format string `json:"format"`
}

// ParseResult is the response of POST /parse.
type ParseResult struct {
	Source      string   `json:"source"`
	Format      string   `json:"format"`
	Output      string   `json:"output,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceSize)

	var req ParseRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Source = r.FormValue("source")
		req.Format = r.FormValue("format")
	}
	if req.Format == "" {
		req.Format = s.workspace.Config().Output.Format
	}

	result, err := Parse(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}
	s.render(w, "parse.html", struct {
		Result     *ParseResult
		Playground playground
	}{
		Result:     result,
		Playground: playground{Source: req.Source, Format: req.Format, Formats: format.Formats},
	})
}

// Parse analyses req.Source and encodes the tree in req.Format. Syntax
// errors are reported in the result, not as an error.
func Parse(req ParseRequest) (*ParseResult, error) {
	var out bytes.Buffer
	enc, err := format.NewEncoder(req.Format, &out)
	if err != nil {
		return nil, err
	}

	doc := workspace.Analyze("<input>", []byte(req.Source))
	result := &ParseResult{Source: req.Source, Format: req.Format}
	for _, d := range doc.Diagnostics {
		result.Diagnostics = append(result.Diagnostics, d.String())
	}
	if doc.Expr != nil {
		if err := enc.Encode(doc.Expr); err != nil {
			return nil, err
		}
		result.Output = out.String()
	}
	return result, nil
}
