// Package store persists schedules as a single JSON document.
//
// The document is always read and written as a whole. Every Load re-reads
// the file so that changes made by other clawsched processes (create,
// delete) are seen by a running scheduler on its next poll. Save writes to a
// temporary file and renames it into place.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/afero"
	"github.com/tinyclaw/clawsched/internal/fsutil"
)

// CurrentVersion is the document version written by Save. Documents
// without a version field (written by older tools) are read as version 0.
const CurrentVersion = 1

// FileMode is the permission of the schedule document.
const FileMode os.FileMode = 0o644

// Store is a schedule document on a filesystem.
type Store struct {
	fs   afero.Fs
	path string
}

// New returns a Store backed by the document at path on fs.
func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the location of the backing document.
func (s *Store) Path() string {
	return s.path
}

// document is the on-disk shape.
type document struct {
	Version   int                `json:"version,omitempty"`
	Schedules *map[string]record `json:"schedules"`
}

type record struct {
	Cron      string `json:"cron"`
	Agent     string `json:"agent"`
	Message   string `json:"message"`
	Channel   string `json:"channel,omitempty"`
	Sender    string `json:"sender,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Load reads the document. A missing document yields an empty map; a
// document that cannot be parsed or has the wrong shape yields a
// *CorruptionError.
func (s *Store) Load() (map[string]Schedule, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Schedule{}, nil
		}
		return nil, &CorruptionError{Path: s.path, Err: err}
	}
	doc, err := decode(data)
	if err != nil {
		return nil, &CorruptionError{Path: s.path, Err: err}
	}
	out := make(map[string]Schedule, len(*doc.Schedules))
	for label, r := range *doc.Schedules {
		if err := r.check(label); err != nil {
			return nil, &CorruptionError{Path: s.path, Err: err}
		}
		out[label] = r.schedule(label)
	}
	return out, nil
}

func decode(data []byte) (*document, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after the document")
		}
		return nil, err
	}
	if doc.Version < 0 || doc.Version > CurrentVersion {
		return nil, fmt.Errorf("unsupported document version %d (max %d)", doc.Version, CurrentVersion)
	}
	if doc.Schedules == nil {
		return nil, errors.New(`missing "schedules" mapping`)
	}
	return &doc, nil
}

func (r record) check(label string) error {
	switch {
	case label == "":
		return errors.New("schedule with empty label")
	case r.Cron == "":
		return fmt.Errorf("schedule %q: missing cron", label)
	case r.Agent == "":
		return fmt.Errorf("schedule %q: missing agent", label)
	case r.Message == "":
		return fmt.Errorf("schedule %q: missing message", label)
	case r.CreatedAt < 0:
		return fmt.Errorf("schedule %q: negative created_at", label)
	}
	return nil
}

func (r record) schedule(label string) Schedule {
	sc := Schedule{
		Label:     label,
		Cron:      r.Cron,
		Agent:     r.Agent,
		Message:   r.Message,
		Channel:   r.Channel,
		Sender:    r.Sender,
		CreatedAt: r.CreatedAt,
	}
	sc.applyDefaults()
	return sc
}

// Save replaces the whole document with schedules. The map key is the
// label; Schedule.Label is ignored.
func (s *Store) Save(schedules map[string]Schedule) error {
	recs := make(map[string]record, len(schedules))
	for label, sc := range schedules {
		sc.applyDefaults()
		recs[label] = record{
			Cron:      sc.Cron,
			Agent:     sc.Agent,
			Message:   sc.Message,
			Channel:   sc.Channel,
			Sender:    sc.Sender,
			CreatedAt: sc.CreatedAt,
		}
	}
	data, err := json.MarshalIndent(document{Version: CurrentVersion, Schedules: &recs}, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return fsutil.WriteFileAtomic(s.fs, s.path, data, FileMode)
}

// Create adds sc to the store. It fails with ErrDuplicateLabel, leaving the
// document untouched, when the label is already taken.
func (s *Store) Create(sc Schedule) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	schedules, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := schedules[sc.Label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, sc.Label)
	}
	sc.applyDefaults()
	schedules[sc.Label] = sc
	return s.Save(schedules)
}

// Delete removes the schedule with the given label. It fails with
// ErrNotFound, leaving the document untouched, when there is none.
func (s *Store) Delete(label string) error {
	schedules, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := schedules[label]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	delete(schedules, label)
	return s.Save(schedules)
}

// DeleteAll removes every schedule and returns how many there were. The
// document is always rewritten, so an empty store ends up as an empty
// mapping rather than a missing file.
func (s *Store) DeleteAll() (int, error) {
	schedules, err := s.Load()
	if err != nil {
		return 0, err
	}
	if err := s.Save(map[string]Schedule{}); err != nil {
		return 0, err
	}
	return len(schedules), nil
}

// Sorted returns the schedules ordered by creation time, then label.
func Sorted(schedules map[string]Schedule) []Schedule {
	out := make([]Schedule, 0, len(schedules))
	for _, sc := range schedules {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// FilterByAgent returns the schedules targeting agent. An empty agent
// returns schedules unchanged.
func FilterByAgent(schedules map[string]Schedule, agent string) map[string]Schedule {
	if agent == "" {
		return schedules
	}
	out := make(map[string]Schedule)
	for label, sc := range schedules {
		if sc.Agent == agent {
			out[label] = sc
		}
	}
	return out
}
