package ocfl

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/ocflkit/ocfl/digest"
	ocflfs "github.com/ocflkit/ocfl/fs"
)

// VersionContent supplies a pending version's logical state together with
// a way to resolve any digest in that state that the object doesn't
// already store. Both *[Stage] (a whole-directory replacement) and
// *[Updater] (per-file edits against the current state) implement it, so
// either can be passed to [Commit].
type VersionContent interface {
	ContentSource
	// State returns the logical path -> digest map for the version being
	// built.
	State() DigestMap
}

// fixityHints is implemented by VersionContent values that recorded
// fixity witnesses while building their state (currently only *Updater,
// via AddFixity). Commit checks for it with a type assertion rather than
// adding it to VersionContent, since most callers never populate fixity.
type fixityHints interface {
	FixityFor(dig string) map[string]string
}

// sourceCleaner is implemented by VersionContent values that need to
// delete source files after a successful commit (*Updater, when built
// with [MoveSource]). Commit checks for it the same way as fixityHints.
type sourceCleaner interface {
	CleanupMoved(ctx context.Context) error
}

// Stage holds digested content staged for an object's next version: a
// logical-path -> digest state and the backing FS/path each digest's bytes
// can be read from. A *Stage implements [VersionContent], so it can be
// passed directly to the commit pipeline.
type Stage struct {
	state   DigestMap
	content DigestMap // digest -> content-relative path under fsys/dir
	fsys    ocflfs.FS
	dir     string
	alg     digest.Algorithm
}

// StageDir digests every regular file under dir in fsys using alg and
// returns a *Stage whose logical paths mirror their path relative to dir.
func StageDir(ctx context.Context, fsys ocflfs.FS, dir string, alg digest.Algorithm) (*Stage, error) {
	stage := &Stage{
		state:   DigestMap{},
		content: DigestMap{},
		fsys:    fsys,
		dir:     dir,
		alg:     alg,
	}
	files := func(yield func(*ocflfs.FileRef) bool) {
		for ref, err := range ocflfs.WalkFiles(ctx, fsys, dir) {
			if err != nil {
				return
			}
			if !yield(ref) {
				return
			}
		}
	}
	for ref, err := range digest.DigestFiles(ctx, files, alg) {
		if err != nil {
			return nil, &StorageErr{Op: "digest staged content", Err: err}
		}
		dig := ref.Digests[alg.ID()]
		stage.state[dig] = append(stage.state[dig], ref.Path)
		stage.content[dig] = append(stage.content[dig], ref.Path)
	}
	return stage, nil
}

// State returns the stage's logical path -> digest map.
func (s *Stage) State() DigestMap { return s.state }

// GetContent implements [ContentSource], resolving dig to a path under the
// stage's backing FS.
func (s *Stage) GetContent(dig string) (ocflfs.FS, string) {
	paths := s.content[dig]
	if len(paths) == 0 {
		return nil, ""
	}
	return s.fsys, path.Join(s.dir, paths[0])
}

// CommitOption configures [Commit].
type CommitOption func(*commitArgs)

type commitArgs struct {
	message      string
	user         *User
	spec         Spec
	alg          string
	contDir      string
	logger       *slog.Logger
	goLimit      int
	expectedHead VNum
	lockWait     time.Duration
}

// WithMessage sets the version's commit message.
func WithMessage(msg string) CommitOption {
	return func(a *commitArgs) { a.message = msg }
}

// WithUser sets the version's user.
func WithUser(u *User) CommitOption {
	return func(a *commitArgs) { a.user = u }
}

// WithExpectedHead requires that obj's observed head version matches v at
// the moment the commit acquires the object lock. A mismatch fails the
// commit with [ObjectOutOfSyncErr] instead of silently building the next
// version on top of work the caller never saw. Use the zero VNum (the
// default) to skip the check, e.g. when the caller doesn't care whether
// another writer got there first.
func WithExpectedHead(v VNum) CommitOption {
	return func(a *commitArgs) { a.expectedHead = v }
}

// WithLockTimeout bounds how long Commit waits to acquire the object lock
// before failing with [LockContentionErr]. The default is 30s.
func WithLockTimeout(d time.Duration) CommitOption {
	return func(a *commitArgs) { a.lockWait = d }
}

// WithOCFLSpec sets the OCFL specification version of the committed
// version's inventory. Without it, a new object gets 1.1 and an existing
// object keeps its current version. A version higher than the object's
// current one upgrades the object; a lower one makes Commit fail, since an
// object's spec never regresses.
func WithOCFLSpec(s Spec) CommitOption {
	return func(a *commitArgs) { a.spec = s }
}

// WithDigestAlgorithm sets the primary digest algorithm for a new object.
// It is a no-op when the object already has a version.
func WithDigestAlgorithm(alg digest.Algorithm) CommitOption {
	return func(a *commitArgs) { a.alg = alg.ID() }
}

// WithContentDirectory sets the per-version content directory name for a
// new object. It is a no-op when the object already has a version.
func WithContentDirectory(name string) CommitOption {
	return func(a *commitArgs) { a.contDir = name }
}

// WithCommitLogger sets the *slog.Logger used to trace commit pipeline
// steps.
func WithCommitLogger(l *slog.Logger) CommitOption {
	return func(a *commitArgs) { a.logger = l }
}

// WithGoLimit bounds the number of goroutines used for concurrent content
// transfer steps. The default is runtime.NumCPU().
func WithGoLimit(n int) CommitOption {
	return func(a *commitArgs) { a.goLimit = n }
}

// Commit builds and applies an [UpdatePlan] that adds a new version to obj,
// using content's state as the version's logical content. obj's FS must
// implement [ocflfs.WriteFS]. The returned *Object reflects the newly
// committed version.
//
// Commit runs inside the object's lock (obj's [Root]'s lock, or an
// in-process default if obj wasn't opened through a Root): once acquired,
// it re-reads the object from storage so a concurrent writer that
// committed first is observed rather than silently overwritten, enforces
// [WithExpectedHead] against that freshly observed head, then builds and
// applies the new version before releasing the lock. A commit that can't
// acquire the lock within [WithLockTimeout] fails with
// [LockContentionErr].
func Commit(ctx context.Context, obj *Object, content VersionContent, opts ...CommitOption) (*Object, error) {
	dstFS, ok := obj.fsys.(ocflfs.WriteFS)
	if !ok {
		return nil, &RepositoryConfigurationErr{Msg: "object's FS does not support writes"}
	}
	args := &commitArgs{
		alg:      digest.SHA512.ID(),
		contDir:  defaultContentDirectory,
		lockWait: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(args)
	}

	lockCtx, cancel := context.WithTimeout(ctx, args.lockWait)
	defer cancel()
	unlock, err := obj.objectLock().Lock(lockCtx, obj.id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-read from storage now that the lock is held: obj may have been
	// opened before a concurrent writer's commit landed.
	current, err := NewObject(ctx, obj.fsys, obj.path, ObjectWithID(obj.id))
	if err != nil {
		return nil, err
	}
	if !args.expectedHead.IsZero() && current.Head() != args.expectedHead {
		return nil, &ObjectOutOfSyncErr{ID: obj.id, Expected: args.expectedHead, Observed: current.Head()}
	}

	builder := NewInventoryBuilder(nil)
	if current.inv != nil {
		builder = NewInventoryBuilder(&current.inv.Inventory)
	}
	spec := args.spec
	if spec.Empty() {
		spec = Spec1_1
		if current.inv != nil {
			spec = current.inv.Type.Spec
		}
	}
	builder.ID(obj.id).Spec(spec).DigestAlgorithm(args.alg).ContentDirectory(args.contDir)
	nextHead, err := builder.inv.Head.Next()
	if err != nil {
		return nil, fmt.Errorf("computing next version number: %w", err)
	}
	contDir := builder.inv.ContentDirectory
	if contDir == "" {
		contDir = defaultContentDirectory
	}
	state := content.State()
	hints, _ := content.(fixityHints)
	for dig, logicalPaths := range state {
		if len(builder.inv.Manifest.DigestPaths(dig)) == 0 {
			contentPath := path.Join(nextHead.String(), contDir, logicalPaths[0])
			builder.AddFileToManifest(dig, contentPath)
			if hints != nil {
				for algID, fixDig := range hints.FixityFor(dig) {
					builder.AddFixity(contentPath, algID, fixDig)
				}
			}
		}
	}
	ver := &Version{
		Created: time.Now().UTC(),
		Message: args.message,
		User:    args.user,
		State:   state,
	}
	builder.AddHeadVersion(ver)
	newInv, err := builder.Build()
	if err != nil {
		return nil, err
	}
	plan, err := newUpdatePlan(newInv, current.inv)
	if err != nil {
		return nil, err
	}
	plan.setGoLimit(args.goLimit)
	plan.setLogger(args.logger)
	if args.logger != nil {
		args.logger.Info("committing", "object", obj.id, "plan", plan.Summary())
	}
	storedInv, err := plan.Apply(ctx, dstFS, obj.path, content)
	if err != nil {
		return nil, err
	}
	if sc, ok := content.(sourceCleaner); ok {
		if cleanupErr := sc.CleanupMoved(ctx); cleanupErr != nil && args.logger != nil {
			args.logger.Warn("commit: cleaning up moved sources", "object", obj.id, "error", cleanupErr)
		}
	}
	committed := &Object{fsys: obj.fsys, path: obj.path, root: obj.root, id: obj.id, inv: storedInv}
	return committed, nil
}
