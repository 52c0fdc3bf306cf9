// Package session persists orchestration sessions on disk, one JSON
// document per session named by its id.
//
// Records hold whatever the orchestrator knows about a design plus a
// bounded conversation history. The dispatch pipeline never touches
// this package; it exists for the layers above that want continuity
// across orchestrator runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/easelworks/easel/internal/platform/errors"
)

// Message roles allowed in a conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxHistory bounds the conversation history kept per session. Older
// entries fall off after each append.
const maxHistory = 20

// Message is one conversation history entry. Actions optionally holds
// the canvas operations taken for this turn, stored verbatim.
type Message struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Actions   json.RawMessage `json:"actions,omitempty"`
}

// DesignState is the orchestrator's view of the canvas document. The
// store does not interpret it.
type DesignState struct {
	Frames   []any          `json:"frames"`
	Nodes    map[string]any `json:"nodes"`
	Styles   map[string]any `json:"styles"`
	Metadata map[string]any `json:"metadata"`
}

// NewDesignState returns an empty state whose collections marshal as
// empty JSON containers rather than null.
func NewDesignState() DesignState {
	return DesignState{
		Frames:   []any{},
		Nodes:    map[string]any{},
		Styles:   map[string]any{},
		Metadata: map[string]any{},
	}
}

// Record is one stored session.
type Record struct {
	SessionID           string      `json:"sessionId"`
	Timestamp           time.Time   `json:"timestamp"`
	DesignState         DesignState `json:"designState"`
	ConversationHistory []Message   `json:"conversationHistory"`
}

// Sentinel errors. They match wrapped errors carrying the same code.
var (
	ErrNotFound  = apperrors.New(apperrors.CodeSessionNotFound, "session not found")
	ErrInvalidID = apperrors.New(apperrors.CodeSessionInvalidID, "invalid session id")
)

// Store reads and writes session records under one directory. Writes
// to the same session are serialized; distinct sessions proceed in
// parallel. Safe for concurrent use.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New opens a store rooted at dir, creating the directory when absent.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSessionStoreIO, "create session directory", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the directory records are stored under.
func (s *Store) Dir() string {
	return s.dir
}

// Create stores a fresh session with empty state and history and
// returns its id.
func (s *Store) Create() (string, error) {
	id := uuid.NewString()
	rec := &Record{
		SessionID:           id,
		Timestamp:           time.Now().UTC(),
		DesignState:         NewDesignState(),
		ConversationHistory: []Message{},
	}
	if err := s.write(rec); err != nil {
		return "", err
	}
	return id, nil
}

// Load returns the record for id, or ErrNotFound when no such session
// exists.
func (s *Store) Load(id string) (*Record, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.read(id)
}

// Save replaces the record stored for id. The record's timestamp is
// the caller's to manage; Save only normalizes the session id. The
// write replaces the whole document atomically.
func (s *Store) Save(id string, rec *Record) error {
	if err := validateID(id); err != nil {
		return err
	}
	rec.SessionID = id

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()
	return s.write(rec)
}

// AppendMessage loads the session, appends msg, trims the history to
// the most recent entries and saves, all in one critical section per
// session so concurrent appenders cannot lose each other's writes. A
// zero message timestamp is stamped with the current time.
func (s *Store) AppendMessage(id string, msg Message) error {
	if err := validateID(id); err != nil {
		return err
	}
	if msg.Role != RoleUser && msg.Role != RoleAssistant {
		return apperrors.New(apperrors.CodeSessionInvalidRole, fmt.Sprintf("invalid message role %q", msg.Role))
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.read(id)
	if err != nil {
		return err
	}
	rec.ConversationHistory = append(rec.ConversationHistory, msg)
	if len(rec.ConversationHistory) > maxHistory {
		rec.ConversationHistory = rec.ConversationHistory[len(rec.ConversationHistory)-maxHistory:]
	}
	rec.Timestamp = time.Now().UTC()
	return s.write(rec)
}

// Delete removes the session. Deleting an absent session returns
// ErrNotFound.
func (s *Store) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeSessionStoreIO, "delete session", err)
	}
	return nil
}

// List returns every stored session, newest first by record timestamp.
// Files that do not decode as records are skipped with a log entry so
// one corrupt document cannot hide the rest.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSessionStoreIO, "list sessions", err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			log.Printf("session: skipping %s: %v", entry.Name(), err)
			continue
		}
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].SessionID < records[j].SessionID
		}
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// Cleanup deletes sessions whose timestamp predates the cutoff of
// olderThanDays days ago and returns how many were removed.
func (s *Store) Cleanup(olderThanDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	records, err := s.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range records {
		if !rec.Timestamp.Before(cutoff) {
			continue
		}
		switch err := s.Delete(rec.SessionID); {
		case err == nil:
			removed++
		case errors.Is(err, ErrNotFound):
			// Already gone; someone else deleted it first.
		default:
			return removed, err
		}
	}
	return removed, nil
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) read(id string) (*Record, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSessionStoreIO, "read session", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSessionStoreIO, "decode session", err)
	}
	return &rec, nil
}

// write lands the record atomically: temp file in the same directory,
// then rename over the final path.
func (s *Store) write(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.CodeSessionStoreIO, "encode session", err)
	}

	tmp, err := os.CreateTemp(s.dir, "session-*.tmp")
	if err != nil {
		return apperrors.Wrap(apperrors.CodeSessionStoreIO, "create temp file", err)
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.CodeSessionStoreIO, "write session", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.CodeSessionStoreIO, "chmod session", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.CodeSessionStoreIO, "sync session", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(apperrors.CodeSessionStoreIO, "close temp file", err)
	}
	if err := os.Rename(tmpPath, s.path(rec.SessionID)); err != nil {
		return apperrors.Wrap(apperrors.CodeSessionStoreIO, "replace session", err)
	}
	cleanup = false
	return nil
}

// validateID rejects ids that are empty or could escape the store
// directory.
func validateID(id string) error {
	if id == "" || id == "." || id == ".." ||
		id != filepath.Base(id) ||
		strings.Contains(id, "/") || strings.Contains(id, "\\") {
		return ErrInvalidID
	}
	return nil
}
