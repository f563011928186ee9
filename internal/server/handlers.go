package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/chart"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/notes"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/render"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

type noteDTO struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type entryDTO struct {
	Title      string      `json:"title"`
	Seconds    chart.Value `json:"seconds"`
	Duration   string      `json:"duration"`
	Percentage chart.Value `json:"percentage"`
}

type summaryDTO struct {
	File         string      `json:"file"`
	Section      string      `json:"section"`
	TotalSeconds chart.Value `json:"total_seconds"`
	Entries      []entryDTO  `json:"entries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	docs, err := s.vault.Documents(r.Context())
	if err != nil {
		s.log.Error("list notes", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list notes")
		return
	}

	list := make([]noteDTO, 0, len(docs))
	for _, doc := range docs {
		list = append(list, noteDTO{Name: doc.Basename, Path: s.vault.Relative(doc)})
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	doc, err := s.vault.Lookup(r.Context(), name)
	if err != nil {
		if errors.Is(err, tracker.ErrTargetFileNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error("lookup note", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not look up note")
		return
	}

	content, err := s.vault.Read(r.Context(), doc)
	if err != nil {
		s.log.Error("read note", "path", doc.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "could not read note")
		return
	}

	blocks := notes.Blocks([]byte(content), s.language)
	sections := make([]render.Section, 0, len(blocks))
	for _, block := range blocks {
		surface := render.NewHTML()
		if err := s.processor.Render(r.Context(), block.Source, surface); err != nil {
			s.log.Debug("block ended with warning", "note", name, "line", block.Line, "warning", err)
		}
		sections = append(sections, render.Section{
			Heading: fmt.Sprintf("Block %d (line %d)", block.Index+1, block.Line),
			Block:   surface,
		})
	}
	if len(sections) == 0 {
		sections = append(sections, render.Section{Heading: fmt.Sprintf("No %s blocks", s.language)})
	}

	writePage(w, name, sections)
}

func (s *Server) handleSummaryPage(w http.ResponseWriter, r *http.Request) {
	source := tracker.Directives{
		File:    r.URL.Query().Get("file"),
		Section: r.URL.Query().Get("section"),
	}.Source()

	surface := render.NewHTML()
	if err := s.processor.Render(r.Context(), source, surface); err != nil {
		s.log.Debug("summary ended with warning", "warning", err)
	}
	writePage(w, chart.Title, []render.Section{{Block: surface}})
}

func (s *Server) handleSummaryJSON(w http.ResponseWriter, r *http.Request) {
	d, err := tracker.ParseDirectives(tracker.Directives{
		File:    r.URL.Query().Get("file"),
		Section: r.URL.Query().Get("section"),
	}.Source())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.processor.Summarize(r.Context(), d)
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrTargetFileNotFound), errors.Is(err, tracker.ErrSectionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			s.log.Error("summarize", "file", d.File, "section", d.Section, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	entries := make([]entryDTO, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		entries = append(entries, entryDTO{
			Title:      e.Title,
			Seconds:    chart.Value(e.Seconds),
			Duration:   e.Duration(),
			Percentage: chart.Value(e.Percentage),
		})
	}
	writeJSON(w, http.StatusOK, summaryDTO{
		File:         d.File,
		Section:      d.Section,
		TotalSeconds: chart.Value(summary.Total),
		Entries:      entries,
	})
}

func writePage(w http.ResponseWriter, title string, sections []render.Section) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, title, sections); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
