package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"

	"github.com/masmgr/vss2git-go/internal/changeset"
	"github.com/masmgr/vss2git-go/internal/vss"
	"github.com/masmgr/vss2git-go/internal/workqueue"
)

// ErrUnsafePath is returned when a revision path would resolve outside the worktree.
var ErrUnsafePath = errors.New("path escapes repository")

// Options configures a GitExporter.
type Options struct {
	RepoPath           string
	EmailDomain        string
	DefaultComment     string
	DefaultBranch      string
	ForceAnnotatedTags bool
}

// GitExporter replays changesets into a git repository. Files are written as stubs
// describing the revision that produced them, since file contents are not part of a
// revision dump.
type GitExporter struct {
	opts Options
	log  logrus.FieldLogger
	repo *git.Repository
	root string
}

// NewGitExporter opens the repository at opts.RepoPath, initialising it when absent.
func NewGitExporter(opts Options, log logrus.FieldLogger) (*GitExporter, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if opts.EmailDomain == "" {
		opts.EmailDomain = "localhost"
	}
	if opts.DefaultComment == "" {
		opts.DefaultComment = "Imported from VSS"
	}

	repo, err := git.PlainOpen(opts.RepoPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		initOpts := &git.PlainInitOptions{}
		if opts.DefaultBranch != "" {
			initOpts.InitOptions.DefaultBranch = plumbing.NewBranchReferenceName(opts.DefaultBranch)
		}
		repo, err = git.PlainInitWithOptions(opts.RepoPath, initOpts)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", opts.RepoPath, err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	return &GitExporter{opts: opts, log: log, repo: repo, root: w.Filesystem.Root()}, nil
}

// Repository returns the underlying repository.
func (e *GitExporter) Repository() *git.Repository {
	return e.repo
}

// Export commits each changeset in order. Label changesets become tags on the most
// recent commit.
func (e *GitExporter) Export(ctx context.Context, changesets []*changeset.Changeset) (Stats, error) {
	var stats Stats
	started := time.Now()

	for i, cs := range changesets {
		if ctx.Err() != nil {
			stats.Canceled = true
			e.log.Infof("Export canceled after %d of %d changesets", i, len(changesets))
			return stats, nil
		}
		workqueue.SetStatus(ctx, "Exporting changeset %d of %d", i+1, len(changesets))

		if cs.IsLabel() {
			if err := e.tag(cs, &stats); err != nil {
				return stats, fmt.Errorf("changeset %d: %w", i+1, err)
			}
			continue
		}

		if err := e.commit(cs); err != nil {
			return stats, fmt.Errorf("changeset %d: %w", i+1, err)
		}
		stats.Commits++
	}

	e.log.Infof("Exported %d commits and %d tags in %s", stats.Commits, stats.Tags, time.Since(started).Round(time.Millisecond))
	return stats, nil
}

func (e *GitExporter) signature(cs *changeset.Changeset) *object.Signature {
	user := cs.User
	if user == "" {
		user = "unknown"
	}
	return &object.Signature{
		Name:  user,
		Email: strings.ToLower(strings.ReplaceAll(user, " ", ".")) + "@" + e.opts.EmailDomain,
		When:  cs.Time,
	}
}

func (e *GitExporter) message(comment string) string {
	if comment == "" {
		return e.opts.DefaultComment
	}
	return comment
}

func (e *GitExporter) commit(cs *changeset.Changeset) error {
	w, err := e.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	for _, rev := range cs.Revisions {
		if err := e.apply(rev); err != nil {
			return fmt.Errorf("apply %s: %w", rev.Action, err)
		}
	}

	if err := e.stage(w); err != nil {
		return err
	}

	sig := e.signature(cs)
	hash, err := w.Commit(e.message(cs.Comment), &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"commit":    hash.String()[:7],
		"user":      cs.User,
		"revisions": len(cs.Revisions),
	}).Debug("Committed changeset")
	return nil
}

// stage brings the index in line with the worktree, including removals.
func (e *GitExporter) stage(w *git.Worktree) error {
	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("worktree status: %w", err)
	}
	for file, st := range status {
		if st.Worktree == git.Unmodified {
			continue
		}
		if st.Worktree == git.Deleted {
			if _, err := w.Remove(file); err != nil {
				return fmt.Errorf("remove %s: %w", file, err)
			}
			continue
		}
		if _, err := w.Add(file); err != nil {
			return fmt.Errorf("add %s: %w", file, err)
		}
	}
	return nil
}

func (e *GitExporter) tag(cs *changeset.Changeset, stats *Stats) error {
	head, err := e.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		for _, rev := range cs.Revisions {
			e.log.Warnf("Skipping label %q: no commits to tag yet", rev.Action.Label())
			stats.SkippedTags++
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	for _, rev := range cs.Revisions {
		name := sanitizeTagName(rev.Action.Label())
		if name == "" {
			e.log.Warnf("Skipping label %q: no valid tag name", rev.Action.Label())
			stats.SkippedTags++
			continue
		}

		var opts *git.CreateTagOptions
		if e.opts.ForceAnnotatedTags || rev.Comment != "" {
			opts = &git.CreateTagOptions{
				Tagger:  &object.Signature{Name: rev.User, Email: e.signature(cs).Email, When: rev.Time},
				Message: e.message(rev.Comment),
			}
		}

		created, err := e.createTag(name, head.Hash(), opts)
		if err != nil {
			return fmt.Errorf("tag %s: %w", name, err)
		}
		e.log.WithField("tag", created).Debug("Created tag")
		stats.Tags++
	}
	return nil
}

// createTag creates name, appending a numeric suffix when the name is taken.
func (e *GitExporter) createTag(name string, hash plumbing.Hash, opts *git.CreateTagOptions) (string, error) {
	candidate := name
	for n := 2; ; n++ {
		_, err := e.repo.CreateTag(candidate, hash, opts)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, git.ErrTagExists) {
			return "", err
		}
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
}

// apply mirrors one revision into the worktree.
func (e *GitExporter) apply(rev vss.Revision) error {
	target, ok := targetPath(rev)
	if !ok {
		return nil
	}
	name, _ := rev.Action.Named()

	switch rev.Action.Kind {
	case vss.ActionAdd, vss.ActionCreate, vss.ActionShare, vss.ActionBranch, vss.ActionRecover:
		if name.IsProject {
			return e.mkdir(target)
		}
		return e.writeStub(target, rev)
	case vss.ActionEdit:
		return e.writeStub(target, rev)
	case vss.ActionDelete, vss.ActionDestroy:
		return e.remove(target)
	case vss.ActionRename:
		return e.rename(path.Join(path.Dir(target), rev.Action.OriginalName()), target)
	case vss.ActionMove:
		return e.rename(path.Join(vss.RelativePath(rev.Action.FromPath()), name.LogicalName), target)
	}
	return nil
}

// targetPath resolves the repository-relative path rev acts on.
func targetPath(rev vss.Revision) (string, bool) {
	name, ok := rev.Action.Named()
	switch {
	case rev.Action.Kind == vss.ActionEdit:
		return vss.RelativePath(rev.Path), true
	case !ok:
		return "", false
	case rev.Item.IsProject:
		return path.Join(vss.RelativePath(rev.Path), name.LogicalName), true
	default:
		return vss.RelativePath(rev.Path), true
	}
}

func (e *GitExporter) abs(rel string) (string, error) {
	local := filepath.FromSlash(rel)
	if rel == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return filepath.Join(e.root, local), nil
}

func (e *GitExporter) mkdir(rel string) error {
	p, err := e.abs(rel)
	if err != nil {
		return err
	}
	return os.MkdirAll(p, 0755)
}

func (e *GitExporter) writeStub(rel string, rev vss.Revision) error {
	p, err := e.abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	content := fmt.Sprintf("physical: %s\nversion: %d\naction: %s\nuser: %s\ntime: %s\n",
		rev.TargetFile(), rev.Version, rev.Action, rev.User, rev.Time.UTC().Format(time.RFC3339))
	return os.WriteFile(p, []byte(content), 0644)
}

func (e *GitExporter) remove(rel string) error {
	p, err := e.abs(rel)
	if err != nil {
		return err
	}
	return os.RemoveAll(p)
}

func (e *GitExporter) rename(fromRel, toRel string) error {
	from, err := e.abs(fromRel)
	if err != nil {
		return err
	}
	to, err := e.abs(toRel)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	if _, err := os.Stat(from); errors.Is(err, os.ErrNotExist) {
		e.log.Warnf("Cannot relocate %s: source not in worktree", fromRel)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return err
	}
	return os.Rename(from, to)
}
