// Package adaptertest provides an in-memory remote backend that speaks the
// HTTP protocol of [adapter.NewHTTPRemoteBackend]. It is meant for tests that
// drive whole sync cycles against a real transport.
package adaptertest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/notesync/internal/adapter"
	"github.com/MKhiriev/notesync/internal/utils"
	"github.com/MKhiriev/notesync/models"
)

type stored struct {
	entity  models.RemoteEntity
	seq     int64
	version int
}

// Server is a fake remote backend. Its zero value is not usable; create one
// with [NewServer] and release it with [Server.Close].
type Server struct {
	*httptest.Server

	// Token and HashKey are fixed at construction; see [WithToken] and
	// [WithHashKey].
	Token   string
	HashKey string

	mu       sync.Mutex
	seq      int64
	nextID   int
	entities map[string]*stored // by remote id
	byLocal  map[string]string  // local id -> remote id
	blobs    map[string][]byte

	down         bool
	failStatus   int
	failUploads  int
	uploadStatus int
	failPush     map[string]int // local id -> status

	calls map[string]int
}

// Option configures a [Server] before it starts.
type Option func(*Server)

// WithToken requires every request to carry token as a bearer token.
func WithToken(token string) Option {
	return func(s *Server) { s.Token = token }
}

// WithHashKey verifies the transport hash of pushed bodies with key.
func WithHashKey(key string) Option {
	return func(s *Server) { s.HashKey = key }
}

// NewServer starts a fake remote backend on a loopback port.
func NewServer(opts ...Option) *Server {
	s := &Server{
		entities: make(map[string]*stored),
		byLocal:  make(map[string]string),
		blobs:    make(map[string][]byte),
		failPush: make(map[string]int),
		calls:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.faults)
	router.Use(s.auth)

	router.Get("/api/sync/changes", s.listChanges)
	router.Group(func(r chi.Router) {
		r.Use(s.verifyHash)
		r.Put("/api/entities", s.pushEntity)
		r.Post("/api/blobs", s.uploadBlob)
	})
	router.Delete("/api/entities/{type}/{id}", s.deleteEntity)

	return router
}

// SetDown makes every request fail at the transport level (the connection is
// closed without a response).
func (s *Server) SetDown(down bool) {
	s.mu.Lock()
	s.down = down
	s.mu.Unlock()
}

// FailAll answers every request with status until reset with 0.
func (s *Server) FailAll(status int) {
	s.mu.Lock()
	s.failStatus = status
	s.mu.Unlock()
}

// FailUploads answers the next n blob uploads with status.
func (s *Server) FailUploads(n, status int) {
	s.mu.Lock()
	s.failUploads = n
	s.uploadStatus = status
	s.mu.Unlock()
}

// FailPushFor answers pushes of localID with status until reset with 0.
func (s *Server) FailPushFor(localID string, status int) {
	s.mu.Lock()
	if status == 0 {
		delete(s.failPush, localID)
	} else {
		s.failPush[localID] = status
	}
	s.mu.Unlock()
}

// Calls returns how many requests reached the named handler: "list", "push",
// "delete" or "blob".
func (s *Server) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

// ResetCalls zeroes the request counters.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	s.calls = make(map[string]int)
	s.mu.Unlock()
}

// Entity returns the stored entity pushed with localID.
func (s *Server) Entity(localID string) (models.RemoteEntity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remoteID, ok := s.byLocal[localID]
	if !ok {
		return models.RemoteEntity{}, false
	}
	return s.entities[remoteID].entity, true
}

// Blob returns the stored blob under key.
func (s *Server) Blob(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	return b, ok
}

func (s *Server) faults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		down, status := s.down, s.failStatus
		s.mu.Unlock()

		if down {
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, err := hj.Hijack()
				if err == nil {
					_ = conn.Close()
					return
				}
			}
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if status != 0 {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) verifyHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.HashKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if utils.HashString(string(body), s.HashKey) != r.Header.Get(adapter.HashHeader) {
			http.Error(w, "integrity check failed", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listChanges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["list"]++

	var since int64
	if c := r.URL.Query().Get("cursor"); c != "" {
		var err error
		if since, err = strconv.ParseInt(c, 10, 64); err != nil {
			http.Error(w, "bad cursor", http.StatusBadRequest)
			return
		}
	}

	changed := make([]*stored, 0)
	for _, e := range s.entities {
		if e.seq > since {
			changed = append(changed, e)
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].seq < changed[j].seq })

	out := models.ChangeSet{Entities: make([]models.RemoteEntity, 0, len(changed)), Cursor: strconv.FormatInt(s.seq, 10)}
	for _, e := range changed {
		out.Entities = append(out.Entities, e.entity)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) pushEntity(w http.ResponseWriter, r *http.Request) {
	var req models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["push"]++

	if status, ok := s.failPush[req.LocalID]; ok {
		http.Error(w, "injected failure", status)
		return
	}
	if req.LocalID == "" || !req.EntityType.Valid() || len(req.Update) == 0 {
		http.Error(w, "invalid entity", http.StatusUnprocessableEntity)
		return
	}

	remoteID := req.RemoteID
	if remoteID == "" {
		remoteID = s.byLocal[req.LocalID]
	}

	cur, exists := s.entities[remoteID]
	if exists && req.BaseVersion != cur.entity.VersionTag {
		http.Error(w, "stale base version", http.StatusConflict)
		return
	}
	if !exists {
		if req.RemoteID != "" {
			http.Error(w, "unknown entity", http.StatusNotFound)
			return
		}
		s.nextID++
		remoteID = fmt.Sprintf("r-%d", s.nextID)
		cur = &stored{}
		s.entities[remoteID] = cur
		s.byLocal[req.LocalID] = remoteID
	}

	s.seq++
	cur.seq = s.seq
	cur.version++
	cur.entity = models.RemoteEntity{
		RemoteID:           remoteID,
		LocalID:            req.LocalID,
		EntityType:         req.EntityType,
		ParentID:           req.ParentID,
		VersionTag:         fmt.Sprintf("%s@%d", remoteID, cur.version),
		ContentHash:        req.ContentHash,
		Update:             req.Update,
		EncryptedKeyHeader: req.EncryptedKeyHeader,
	}

	writeJSON(w, http.StatusOK, models.PushResult{RemoteID: remoteID, VersionTag: cur.entity.VersionTag})
}

func (s *Server) deleteEntity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["delete"]++

	cur, ok := s.entities[chi.URLParam(r, "id")]
	if !ok || cur.entity.Deleted || string(cur.entity.EntityType) != chi.URLParam(r, "type") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	s.seq++
	cur.seq = s.seq
	cur.version++
	cur.entity.Deleted = true
	cur.entity.Update = nil
	cur.entity.VersionTag = fmt.Sprintf("%s@%d", cur.entity.RemoteID, cur.version)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadBlob(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["blob"]++

	if s.failUploads > 0 {
		s.failUploads--
		http.Error(w, "injected failure", s.uploadStatus)
		return
	}
	if len(body) == 0 {
		http.Error(w, "empty blob", http.StatusBadRequest)
		return
	}

	key := "blob/" + utils.HashString(string(body), "blobs")[:16]
	s.blobs[key] = body
	writeJSON(w, http.StatusCreated, models.BlobResult{Key: key})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
