package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"code-manta/internal/conversation"

	"github.com/google/uuid"
)

// Record 是一次会话的持久化快照。
type Record struct {
	ID       string                 `json:"id"`
	Workdir  string                 `json:"workdir,omitempty"`
	Task     string                 `json:"task,omitempty"`
	Messages []conversation.Message `json:"messages"`
	Updated  time.Time              `json:"updated"`
}

// Store keeps one JSON file per session under Dir.
type Store struct {
	Dir string
}

func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".manta", "sessions"), nil
}

func NewDefault() (*Store, error) {
	d, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: d}, nil
}

func (s *Store) path(id string) (string, error) {
	if s == nil || strings.TrimSpace(s.Dir) == "" {
		return "", errors.New("session store dir is empty")
	}
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.Dir, id+".json"), nil
}

// Save writes rec, assigning a new id when rec.ID is empty, and returns the id.
func (s *Store) Save(rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	path, err := s.path(rec.ID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	rec.Updated = time.Now().UTC()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *Store) Load(id string) (Record, error) {
	var rec Record
	path, err := s.path(id)
	if err != nil {
		return rec, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode session %s: %w", id, err)
	}
	return rec, nil
}

// Last returns the most recently updated session.
func (s *Store) Last() (Record, error) {
	records, err := s.List("")
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("no sessions found")
	}
	return records[0], nil
}

func (s *Store) ListIDs() ([]string, error) {
	if s == nil || strings.TrimSpace(s.Dir) == "" {
		return nil, errors.New("session store dir is empty")
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, trimExt(e.Name()))
	}
	return ids, nil
}

// List returns sessions newest first. A non-empty workdir keeps only
// sessions recorded for that directory (or with no directory recorded).
func (s *Store) List(workdir string) ([]Record, error) {
	ids, err := s.ListIDs()
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, id := range ids {
		rec, err := s.Load(id)
		if err != nil {
			continue
		}
		if rec.Workdir == "" || workdir == "" || samePath(rec.Workdir, workdir) {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Updated.After(records[j].Updated)
	})
	return records, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return false
	}
	return absA == absB
}
