// Package server exposes the DTX library over HTTP: a song listing,
// per-file metadata and raw chart downloads.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cwchanap/Virgo/internal/dtx"
)

const (
	serverName = "Virgo DTX Server"
	version    = "1.0.0"
)

type Server struct {
	lib *dtx.Library
}

// New builds a Server over the configured chart directory.
func New(cfg Config) *Server {
	return NewWithFS(os.DirFS(cfg.DTXDir))
}

// NewWithFS builds a Server over an arbitrary filesystem root.
func NewWithFS(fsys fs.FS) *Server {
	return &Server{lib: dtx.NewLibrary(fsys)}
}

// Router assembles the chi router with CORS open to any origin, matching
// the local-development setup the clients expect.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/dtx/list", s.handleList)
	r.Get("/dtx/download/{filename}", s.handleDownloadFile)
	r.Get("/dtx/download/{songID}/{chartFilename}", s.handleDownloadChart)
	r.Get("/dtx/metadata/{filename}", s.handleMetadata)
	return r
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write_response_error err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": serverName,
		"version": version,
	})
}

type listResponse struct {
	Songs           []dtx.Song      `json:"songs"`
	IndividualFiles []dtx.LooseFile `json:"individual_files"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	songs, files, err := s.lib.ListSongs()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing DTX songs: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Songs: songs, IndividualFiles: files})
}

// validName rejects path segments that could step outside the library.
// chi only routes single segments here, but an encoded separator or a
// dot-dot element would otherwise survive into the filesystem lookup.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if !strings.HasSuffix(filename, ".dtx") {
		writeError(w, http.StatusBadRequest, "Invalid file type. Only .dtx files are allowed")
		return
	}
	if !validName(filename) {
		writeError(w, http.StatusNotFound, "DTX file not found")
		return
	}
	if _, err := s.lib.Stat(filename); err != nil {
		writeError(w, http.StatusNotFound, "DTX file not found")
		return
	}
	s.serveFile(w, filename, filename)
}

var chartExtensions = []string{".dtx", ".ogg", ".mp3"}

func (s *Server) handleDownloadChart(w http.ResponseWriter, r *http.Request) {
	songID := chi.URLParam(r, "songID")
	chartFilename := chi.URLParam(r, "chartFilename")

	allowed := false
	for _, ext := range chartExtensions {
		if strings.HasSuffix(chartFilename, ext) {
			allowed = true
			break
		}
	}
	if !allowed {
		writeError(w, http.StatusBadRequest, "Invalid file type. Only .dtx, .ogg, and .mp3 files are allowed")
		return
	}

	if !validName(songID) {
		writeError(w, http.StatusNotFound, "Song not found")
		return
	}
	info, err := s.lib.Stat(songID)
	if err != nil || !info.IsDir() {
		writeError(w, http.StatusNotFound, "Song not found")
		return
	}

	if !validName(chartFilename) {
		writeError(w, http.StatusNotFound, "Chart file not found")
		return
	}
	filePath := path.Join(songID, chartFilename)
	if _, err := s.lib.Stat(filePath); err != nil {
		writeError(w, http.StatusNotFound, "Chart file not found")
		return
	}
	s.serveFile(w, filePath, songID+"_"+chartFilename)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if !strings.HasSuffix(filename, ".dtx") {
		writeError(w, http.StatusBadRequest, "Invalid file type. Only .dtx files are allowed")
		return
	}
	if !validName(filename) {
		writeError(w, http.StatusNotFound, "DTX file not found")
		return
	}
	if _, err := s.lib.Stat(filename); err != nil {
		writeError(w, http.StatusNotFound, "DTX file not found")
		return
	}

	meta, err := s.lib.ChartMetadata(filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error reading DTX file: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Filename string            `json:"filename"`
		Metadata dtx.ChartMetadata `json:"metadata"`
	}{Filename: filename, Metadata: meta})
}

// serveFile streams raw library bytes as an attachment download.
func (s *Server) serveFile(w http.ResponseWriter, name, downloadName string) {
	data, err := s.lib.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "DTX file not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error reading DTX file: %v", err))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	n, err := w.Write(data)
	if err != nil {
		log.Printf("serve_error file=%s err=%v", name, err)
		return
	}
	log.Printf("served file=%s bytes=%d", name, n)
}
