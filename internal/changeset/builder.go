package changeset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masmgr/vss2git-go/internal/vss"
)

// ErrEmptyBucket is returned when the revision source yields a timestamp bucket
// without revisions. Continuing would silently produce incorrect changesets.
var ErrEmptyBucket = errors.New("empty revision bucket")

// Result is the outcome of a build.
type Result struct {
	Changesets []*Changeset // in commit (flush) order
	Canceled   bool
	Elapsed    time.Duration
}

// Builder reconstructs changesets from independent revisions.
// A Builder performs one build at a time and does no I/O besides trace logging.
type Builder struct {
	source vss.RevisionSource
	opts   Options
	log    logrus.FieldLogger

	flushed       atomic.Int64
	unnamedLabels uint64
}

// NewBuilder creates a builder over source. A nil logger discards trace notes.
func NewBuilder(source vss.RevisionSource, opts Options, log logrus.FieldLogger) *Builder {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if opts.UnnamedLabelFormat == "" {
		opts.UnnamedLabelFormat = DefaultUnnamedLabelFormat
	}
	return &Builder{source: source, opts: opts, log: log}
}

// Count returns the number of changesets flushed so far. Safe to poll from another
// goroutine while Build runs.
func (b *Builder) Count() int {
	return int(b.flushed.Load())
}

// pendingSet maps users to their open changeset, remembering the order in which
// users opened them so flushes are deterministic.
type pendingSet struct {
	users  []string
	byUser map[string]*Changeset
}

func newPendingSet() *pendingSet {
	return &pendingSet{byUser: map[string]*Changeset{}}
}

func (p *pendingSet) open(user string) *Changeset {
	c := newChangeset(user)
	p.users = append(p.users, user)
	p.byUser[user] = c
	return c
}

func (p *pendingSet) remove(users []string) {
	if len(users) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(users))
	for _, u := range users {
		drop[u] = struct{}{}
		delete(p.byUser, u)
	}
	kept := p.users[:0]
	for _, u := range p.users {
		if _, ok := drop[u]; !ok {
			kept = append(kept, u)
		}
	}
	p.users = kept
}

// Build consumes the sorted revisions once and returns the reconstructed changesets.
// When ctx is canceled the build stops between revisions, discards pending changesets
// and returns the changesets flushed so far with Canceled set; that is not an error.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	b.flushed.Store(0)
	b.unnamedLabels = 0

	b.log.Info("Building changesets")

	sorted := b.source.SortedRevisions()
	pending := newPendingSet()
	result := &Result{}

	var buildErr error
	sorted.Each(func(t time.Time, revisions []vss.Revision) bool {
		if len(revisions) == 0 {
			buildErr = fmt.Errorf("%w at %s", ErrEmptyBucket, t.Format(time.RFC3339))
			return false
		}
		for i := range revisions {
			if ctx.Err() != nil {
				result.Canceled = true
				return false
			}
			rev, keep := b.preprocess(sorted, i, revisions[i])
			if !keep {
				continue
			}
			b.place(rev, pending, result)
		}
		return true
	})
	if buildErr != nil {
		return nil, buildErr
	}

	if result.Canceled {
		b.log.WithField("pending", len(pending.users)).Warn("Build canceled; discarding pending changesets")
	} else {
		for _, user := range pending.users {
			b.flush(pending.byUser[user], result)
		}
	}

	result.Elapsed = time.Since(start)
	b.log.Infof("Found %d changesets in %s", len(result.Changesets), result.Elapsed.Round(time.Millisecond))
	return result, nil
}

// preprocess applies the per-revision rewrites and reports whether the revision takes
// part in grouping. Rewritten revisions are stored back into their bucket so later
// searches observe them.
func (b *Builder) preprocess(sorted *vss.SortedRevisions, index int, rev vss.Revision) (vss.Revision, bool) {
	if b.opts.ExcludeAllDestroyedItems {
		if name, ok := rev.Action.Named(); ok && name.PhysicalName != "" &&
			b.source.IsDestroyed(name.PhysicalName) && !b.source.ItemExists(name.PhysicalName) {
			b.log.WithField("physical", name.PhysicalName).Debug("Skipping revision on destroyed item")
			return rev, false
		}
	}

	// creation comments are only recorded on the Create, not on the Add
	if rev.Action.Kind == vss.ActionAdd && rev.Comment == "" {
		if create, ok := findCorrespondingAction(sorted, rev, vss.ActionCreate); ok {
			rev = rev.WithComment(create.Comment)
			sorted.Replace(rev.Time, index, rev)
		}
	}

	if rev.Action.Kind == vss.ActionLabel && rev.Action.Label() == "" {
		b.unnamedLabels++
		name := fmt.Sprintf(b.opts.UnnamedLabelFormat, rev.Time.Format(UnnamedLabelTimeLayout), b.unnamedLabels)
		rev = rev.WithAction(vss.NewLabel(name))
		sorted.Replace(rev.Time, index, rev)
	}

	// items are actually created when added to a project
	if rev.Action.Kind == vss.ActionCreate {
		return rev, false
	}

	return rev, true
}

// place assigns rev to its user's pending changeset, flushing whatever the label,
// conflict and threshold rules select first.
func (b *Builder) place(rev vss.Revision, pending *pendingSet, result *Result) {
	targetFile := rev.TargetFile()
	kind := rev.Action.Kind

	// a branch of a leaf item does not yet represent a user-visible mutation
	creating := kind == vss.ActionCreate || (kind == vss.ActionBranch && !rev.Item.IsProject)
	// shares never conflict; a Share always precedes the Branch it enables
	nonconflicting := creating || kind == vss.ActionShare

	var current *Changeset
	var flushedUsers []string
	for _, user := range pending.users {
		change := pending.byUser[user]
		flush := false

		if user == rev.User {
			if isLabel(rev) != isLabel(change.last()) {
				b.log.Infof("NOTE: Splitting changeset due to label: %s", change.last().Action)
				flush = true
			} else if !nonconflicting && change.Touches(targetFile) {
				b.log.Infof("NOTE: Splitting changeset due to file conflict on %s", targetFile)
				flush = true
			}
		}

		if !flush {
			flush = b.exceedsThreshold(rev, change)
		}

		if flush {
			b.flush(change, result)
			flushedUsers = append(flushedUsers, user)
		} else if user == rev.User {
			current = change
		}
	}
	pending.remove(flushedUsers)

	if current == nil {
		current = pending.open(rev.User)
	}
	current.add(rev, targetFile, nonconflicting)
}

// exceedsThreshold applies the time/comment rule to one pending changeset.
func (b *Builder) exceedsThreshold(rev vss.Revision, change *Changeset) bool {
	gap := rev.Time.Sub(change.Time)
	if !exceeds(gap, b.opts.AnyCommentThreshold) {
		return false
	}

	last := change.lastCommented()
	if !sameComment(rev, last) {
		b.log.Infof("NOTE: Splitting changeset due to different comment: %q != %q", last.Comment, rev.Comment)
		return true
	}
	if within(gap, b.opts.SameCommentThreshold) {
		b.log.WithField("user", change.User).Debug("Using same-comment threshold")
		return false
	}
	b.log.Infof("NOTE: Splitting changeset due to same comment but exceeded threshold (%v second gap)", gap.Seconds())
	return true
}

func (b *Builder) flush(change *Changeset, result *Result) {
	result.Changesets = append(result.Changesets, change)
	id := b.flushed.Add(1)
	b.dump(change, int(id))
}

func (b *Builder) dump(change *Changeset, id int) {
	entry := b.log.WithFields(logrus.Fields{
		"changeset": id,
		"user":      change.User,
		"time":      change.Time.Format(time.RFC3339),
		"duration":  change.Duration().Seconds(),
		"revisions": len(change.Revisions),
	})
	entry.Info("Changeset")
	if change.Comment != "" {
		entry.Debug(change.Comment)
	}
	for _, r := range change.Revisions {
		entry.Debugf("  %s", r)
	}
}
