// Package server serves generated declaration files over HTTP, so editors
// and build tooling can fetch the current artifacts without a checkout.
//
//	GET /healthz                      - liveness
//	GET /api/sections                 - artifact listing with content hashes
//	GET /api/link?member=X&fragment=Y - documentation URL for a member
//	GET /{file}                       - one generated file (e.g. /concepts.lua)
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/logger"
	"github.com/teranos/protolua/typegen"
)

// LinkResolver maps a documented member to its documentation URL
type LinkResolver func(member, fragment string) (string, error)

// Snapshot is one complete generation: every file renders from the same Result.
type Snapshot struct {
	Result *typegen.Result
	Files  []typegen.File
	Links  LinkResolver
}

type artifact struct {
	file typegen.File
	etag string
}

// SectionInfo describes one served artifact
type SectionInfo struct {
	Section string `json:"section"`
	File    string `json:"file"`
	Size    int    `json:"size"`
	SHA256  string `json:"sha256"`
}

// Listing is the /api/sections response
type Listing struct {
	Application        string        `json:"application"`
	ApplicationVersion string        `json:"application_version"`
	GeneratedAt        time.Time     `json:"generated_at"`
	Sections           []SectionInfo `json:"sections"`
}

// Server holds the latest snapshot. Updates swap it whole, so a client never
// sees files from two different generations.
type Server struct {
	mu        sync.RWMutex
	artifacts map[string]artifact
	listing   *Listing
	links     LinkResolver

	log *zap.SugaredLogger
	now func() time.Time
}

// New creates a server with no artifacts; requests fail with 503 until Update
func New() *Server {
	return &Server{
		artifacts: make(map[string]artifact),
		log:       logger.Named("server"),
		now:       time.Now,
	}
}

// Update replaces the served snapshot
func (s *Server) Update(snap Snapshot) {
	artifacts := make(map[string]artifact, len(snap.Files))
	listing := &Listing{GeneratedAt: s.now().UTC()}
	if snap.Result != nil {
		listing.Application = snap.Result.Application
		listing.ApplicationVersion = snap.Result.ApplicationVersion
	}

	for _, f := range snap.Files {
		sum := sha256.Sum256([]byte(f.Content))
		hash := hex.EncodeToString(sum[:])
		artifacts[f.Name] = artifact{file: f, etag: `"` + hash + `"`}
		listing.Sections = append(listing.Sections, SectionInfo{
			Section: f.Section,
			File:    f.Name,
			Size:    len(f.Content),
			SHA256:  hash,
		})
	}

	s.mu.Lock()
	s.artifacts = artifacts
	s.listing = listing
	s.links = snap.Links
	s.mu.Unlock()

	s.log.Infow("Artifacts updated", logger.FieldCount, len(artifacts))
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/sections", s.handleSections)
	mux.HandleFunc("GET /api/link", s.handleLink)
	mux.HandleFunc("GET /{file}", s.handleFile)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	listing := s.listing
	s.mu.RUnlock()

	if listing == nil {
		writeErr(w, errors.Wrap(ErrServiceUnavailable, "no artifacts generated yet"))
		return
	}
	if err := writeJSON(w, http.StatusOK, listing); err != nil {
		s.log.Warnw("Failed to write listing", logger.FieldError, err)
	}
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	member := r.URL.Query().Get("member")
	if member == "" {
		writeErr(w, NewInvalidRequestError("member query parameter is required"))
		return
	}

	s.mu.RLock()
	links := s.links
	s.mu.RUnlock()

	if links == nil {
		writeErr(w, errors.Wrap(ErrServiceUnavailable, "no document loaded yet"))
		return
	}

	url, err := links(member, r.URL.Query().Get("fragment"))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, map[string]string{"member": member, "url": url})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")

	s.mu.RLock()
	a, ok := s.artifacts[name]
	ready := s.listing != nil
	s.mu.RUnlock()

	if !ready {
		writeErr(w, errors.Wrap(ErrServiceUnavailable, "no artifacts generated yet"))
		return
	}
	if !ok {
		writeErr(w, NewNotFoundError("no artifact named %s", name))
		return
	}

	w.Header().Set("ETag", a.etag)
	if r.Header.Get("If-None-Match") == a.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/x-lua; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(a.file.Content)); err != nil {
		s.log.Debugw("Client went away", logger.FieldFile, name, logger.FieldError, err)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("Serving artifacts", logger.FieldAddress, ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shut down server")
		}
		return nil
	}
}
