package vss

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidDump is returned when a revision dump is structurally invalid.
var ErrInvalidDump = errors.New("invalid revision dump")

// ReadOptions configures how a revision dump is loaded.
type ReadOptions struct {
	DumpPath   string
	Include    []string // Glob patterns to include, relative to "$/"
	Exclude    []string // Glob patterns to exclude, relative to "$/"
	OnProgress func(revisions int)
}

// DumpSource is a RevisionSource backed by a JSON revision dump written by the
// database reader.
type DumpSource struct {
	opts      ReadOptions
	sorted    *SortedRevisions
	destroyed map[string]bool
	existing  map[string]bool
	files     map[string]struct{}
	skipped   int
}

type jsonDump struct {
	Revisions []jsonRevision `json:"revisions"`
	Destroyed []string       `json:"destroyed"`
	Existing  []string       `json:"existing"`
}

type jsonItem struct {
	Logical  string `json:"logical"`
	Physical string `json:"physical"`
	Project  bool   `json:"project"`
}

type jsonAction struct {
	Kind         string    `json:"kind"`
	Name         *jsonItem `json:"name,omitempty"`
	Physical     string    `json:"physical,omitempty"`
	Label        string    `json:"label,omitempty"`
	OriginalName string    `json:"originalName,omitempty"`
	FromPath     string    `json:"fromPath,omitempty"`
	Source       string    `json:"source,omitempty"`
	Pinned       bool      `json:"pinned,omitempty"`
	PinVersion   int       `json:"pinVersion,omitempty"`
}

type jsonRevision struct {
	Time    time.Time  `json:"time"`
	User    string     `json:"user"`
	Path    string     `json:"path"`
	Item    jsonItem   `json:"item"`
	Version int        `json:"version"`
	Comment string     `json:"comment,omitempty"`
	Action  jsonAction `json:"action"`
}

// OpenDump reads the dump at opts.DumpPath.
func OpenDump(opts ReadOptions) (*DumpSource, error) {
	f, err := os.Open(opts.DumpPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDump(f, opts)
}

// ReadDump decodes a revision dump from r, applying the include/exclude filters.
func ReadDump(r io.Reader, opts ReadOptions) (*DumpSource, error) {
	var dump jsonDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("decode revision dump: %w", err)
	}

	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid filter pattern %q", p)
		}
	}

	s := &DumpSource{
		opts:      opts,
		sorted:    NewSortedRevisions(),
		destroyed: toSet(dump.Destroyed),
		existing:  toSet(dump.Existing),
		files:     map[string]struct{}{},
	}

	for i, jr := range dump.Revisions {
		rev, err := jr.toRevision()
		if err != nil {
			return nil, fmt.Errorf("%w: revision %d: %v", ErrInvalidDump, i, err)
		}
		if !s.matchesFilters(rev.Path) {
			s.skipped++
			continue
		}
		s.sorted.Add(rev)
		if !rev.Item.IsProject {
			s.files[rev.Item.PhysicalName] = struct{}{}
		}
		if opts.OnProgress != nil {
			opts.OnProgress(s.sorted.RevisionCount())
		}
	}

	return s, nil
}

// SortedRevisions returns the loaded revisions.
func (s *DumpSource) SortedRevisions() *SortedRevisions {
	return s.sorted
}

// IsDestroyed reports whether physicalName is listed as destroyed.
func (s *DumpSource) IsDestroyed(physicalName string) bool {
	return s.destroyed[physicalName]
}

// ItemExists reports whether physicalName is listed as existing.
func (s *DumpSource) ItemExists(physicalName string) bool {
	return s.existing[physicalName]
}

// FileCount returns the number of distinct file items seen.
func (s *DumpSource) FileCount() int {
	return len(s.files)
}

// RevisionCount returns the number of revisions kept after filtering.
func (s *DumpSource) RevisionCount() int {
	return s.sorted.RevisionCount()
}

// Skipped returns the number of revisions dropped by the filters.
func (s *DumpSource) Skipped() int {
	return s.skipped
}

// matchesFilters checks if a path matches the include/exclude filters.
func (s *DumpSource) matchesFilters(path string) bool {
	path = RelativePath(path)

	for _, pattern := range s.opts.Exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
	}

	if len(s.opts.Include) == 0 {
		return true
	}

	for _, pattern := range s.opts.Include {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}

	return false
}

func (ji jsonItem) toItemName() ItemName {
	return ItemName{LogicalName: ji.Logical, PhysicalName: ji.Physical, IsProject: ji.Project}
}

func (jr jsonRevision) toRevision() (Revision, error) {
	if jr.Time.IsZero() {
		return Revision{}, errors.New("missing time")
	}
	action, err := jr.Action.toAction()
	if err != nil {
		return Revision{}, err
	}
	return Revision{
		Time:    jr.Time,
		User:    jr.User,
		Item:    jr.Item.toItemName(),
		Path:    jr.Path,
		Version: jr.Version,
		Comment: jr.Comment,
		Action:  action,
	}, nil
}

func (ja jsonAction) toAction() (Action, error) {
	kind, err := ParseActionKind(ja.Kind)
	if err != nil {
		return Action{}, err
	}

	switch kind {
	case ActionEdit:
		return NewEdit(ja.Physical), nil
	case ActionLabel:
		return NewLabel(ja.Label), nil
	}

	if ja.Name == nil {
		return Action{}, fmt.Errorf("%s action without name", kind)
	}
	name := ja.Name.toItemName()

	switch kind {
	case ActionRename:
		return NewRename(name, ja.OriginalName), nil
	case ActionMove:
		return NewMove(name, ja.FromPath), nil
	case ActionBranch:
		return NewBranch(name, ja.Source), nil
	case ActionPin:
		return NewPin(name, ja.Pinned, ja.PinVersion), nil
	default:
		return named(kind, name), nil
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
