package ocfl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/ocflkit/ocfl/digest"
	ocflfs "github.com/ocflkit/ocfl/fs"
)

// AddFileOption configures [Updater.AddFile], [Updater.RenameFile], and
// [Updater.WriteFile].
type AddFileOption func(*addFileArgs)

type addFileArgs struct {
	overwrite bool
	move      bool
}

// WithOverwrite allows AddFile/RenameFile to replace an existing logical
// path instead of failing with [OverwriteConflictErr].
func WithOverwrite() AddFileOption {
	return func(a *addFileArgs) { a.overwrite = true }
}

// MoveSource marks the file's source for deletion once the version that
// references it is committed successfully. It has no effect on content
// added through [Updater.WriteFile], which has no source to delete.
func MoveSource() AddFileOption {
	return func(a *addFileArgs) { a.move = true }
}

// contentRef locates the bytes for a digest that isn't already present in
// an object's manifest: either a caller-supplied file, or a buffer filled
// by [Updater.WriteFile].
type contentRef struct {
	fsys ocflfs.FS
	path string
	move bool
}

// Updater accumulates per-file edits against an object's current version
// state, the same role the teacher's StageDir fills in bulk: AddFile,
// RemoveFile, RenameFile, and ReinstateFile mutate a pending logical-path
// map one entry at a time instead of re-digesting an entire directory.
// Edits to distinct logical paths may run concurrently; edits to the same
// path are serialized by a per-path lock, and RenameFile takes both locks
// in lexicographic order to avoid deadlocking against a concurrent rename
// of the reverse pair.
//
// An *Updater implements [VersionContent], so it can be passed to [Commit]
// in place of a *[Stage].
type Updater struct {
	mu        sync.Mutex
	pathLocks pathLockTable

	alg          digest.Algorithm
	prevManifest DigestMap // obj's manifest before this version, for content dedup

	state            DigestMap             // pending head version state
	content          map[string]contentRef // new-this-version digest -> source
	addedThisVersion map[string]bool        // logical paths added/renamed-in this version
	fixity           map[string]map[string]string // digest -> algID -> fixity digest

	memFS *memContentFS // backs WriteFile; nil until first use
}

// NewUpdater returns an *Updater seeded with obj's current head version
// state (or empty, for an object that doesn't exist yet), so that edits
// apply relative to what's already committed.
func NewUpdater(obj *Object, alg digest.Algorithm) *Updater {
	u := &Updater{
		alg:              alg,
		state:            DigestMap{},
		content:          map[string]contentRef{},
		addedThisVersion: map[string]bool{},
		fixity:           map[string]map[string]string{},
		prevManifest:     DigestMap{},
	}
	if obj != nil && obj.Exists() {
		inv := obj.Inventory()
		u.prevManifest = inv.Manifest
		if head := inv.Versions[inv.Head]; head != nil {
			u.state = head.State.Clone()
		}
	}
	return u
}

// State implements [VersionContent].
func (u *Updater) State() DigestMap {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.Clone()
}

// GetContent implements [ContentSource].
func (u *Updater) GetContent(dig string) (ocflfs.FS, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	ref, ok := u.content[dig]
	if !ok {
		return nil, ""
	}
	return ref.fsys, ref.path
}

// FixityFor implements the optional fixity-hint interface Commit checks
// for: the recorded fixity digests (keyed by algorithm id) for dig, if
// any were added with [Updater.AddFixity].
func (u *Updater) FixityFor(dig string) map[string]string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.fixity[dig]
}

// CleanupMoved implements the optional source-cleanup interface Commit
// checks for after a successful commit: it removes every source file
// added with [MoveSource]. Deletion failures are collected and returned
// jointly rather than stopping at the first one, since a partial cleanup
// still leaves the commit itself intact.
func (u *Updater) CleanupMoved(ctx context.Context) error {
	u.mu.Lock()
	refs := make([]contentRef, 0, len(u.content))
	for _, ref := range u.content {
		if ref.move {
			refs = append(refs, ref)
		}
	}
	u.mu.Unlock()
	var errs []error
	for _, ref := range refs {
		wfs, ok := ref.fsys.(ocflfs.WriteFS)
		if !ok {
			continue
		}
		if err := wfs.Remove(ctx, ref.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("cleaning up moved sources: %w", errors.Join(errs...))
}

// AddFile digests the file at srcPath in fsys and maps it to logicalPath in
// the pending version. A digest already present in the object's manifest
// or already staged earlier in this same call is deduplicated: no new
// content reference is recorded, only the logical-path mapping. Without
// [WithOverwrite], mapping logicalPath onto a different digest than it
// already has fails with [OverwriteConflictErr]; mapping it onto the same
// digest is always a no-op.
func (u *Updater) AddFile(ctx context.Context, fsys ocflfs.FS, srcPath, logicalPath string, opts ...AddFileOption) error {
	if !fs.ValidPath(logicalPath) || logicalPath == "." {
		return &PathConstraintViolationErr{Path: logicalPath, Rule: "logical path must be a valid, non-root path"}
	}
	args := &addFileArgs{}
	for _, opt := range opts {
		opt(args)
	}
	unlock := u.pathLocks.lock(logicalPath)
	defer unlock()
	dig, err := digestFile(ctx, fsys, srcPath, u.alg)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if existing := u.state.DigestFor(logicalPath); existing != "" {
		if existing == dig {
			return nil
		}
		if !args.overwrite {
			return &OverwriteConflictErr{Path: logicalPath}
		}
		removeStatePath(u.state, logicalPath)
	}
	u.state[dig] = append(u.state[dig], logicalPath)
	if len(u.prevManifest.DigestPaths(dig)) == 0 {
		if _, staged := u.content[dig]; !staged {
			u.content[dig] = contentRef{fsys: fsys, path: srcPath, move: args.move}
		}
	}
	u.addedThisVersion[logicalPath] = true
	return nil
}

// WriteFile digests r while buffering it, then maps logicalPath to the
// result the same as AddFile. Unlike AddFile, there is no source file to
// read twice, so the bytes are held in memory until the version is
// committed.
func (u *Updater) WriteFile(ctx context.Context, r io.Reader, logicalPath string, opts ...AddFileOption) error {
	if !fs.ValidPath(logicalPath) || logicalPath == "." {
		return &PathConstraintViolationErr{Path: logicalPath, Rule: "logical path must be a valid, non-root path"}
	}
	args := &addFileArgs{}
	for _, opt := range opts {
		opt(args)
	}
	unlock := u.pathLocks.lock(logicalPath)
	defer unlock()
	digester := u.alg.Digester()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.TeeReader(r, digester)); err != nil {
		return &StorageErr{Op: "buffer uploaded content", Err: err}
	}
	dig := digester.String()
	u.mu.Lock()
	defer u.mu.Unlock()
	if existing := u.state.DigestFor(logicalPath); existing != "" {
		if existing == dig {
			return nil
		}
		if !args.overwrite {
			return &OverwriteConflictErr{Path: logicalPath}
		}
		removeStatePath(u.state, logicalPath)
	}
	u.state[dig] = append(u.state[dig], logicalPath)
	if len(u.prevManifest.DigestPaths(dig)) == 0 {
		if _, staged := u.content[dig]; !staged {
			if u.memFS == nil {
				u.memFS = &memContentFS{files: map[string][]byte{}}
			}
			key := fmt.Sprintf("%s-%d", dig, len(u.memFS.files))
			u.memFS.files[key] = buf.Bytes()
			u.content[dig] = contentRef{fsys: u.memFS, path: key}
		}
	}
	u.addedThisVersion[logicalPath] = true
	return nil
}

// RemoveFile deletes logicalPath from the pending version and reports the
// digests, if any, that became unreferenced as a result. Content staged
// earlier in this same call for a now-unreferenced digest is dropped so it
// isn't written to storage for nothing.
func (u *Updater) RemoveFile(logicalPath string) ([]string, error) {
	unlock := u.pathLocks.lock(logicalPath)
	defer unlock()
	u.mu.Lock()
	defer u.mu.Unlock()
	dig := u.state.DigestFor(logicalPath)
	if dig == "" {
		return nil, ErrNoLogicalPath
	}
	removeStatePath(u.state, logicalPath)
	delete(u.addedThisVersion, logicalPath)
	if len(u.state.DigestPaths(dig)) == 0 {
		delete(u.content, dig)
		return []string{dig}, nil
	}
	return nil, nil
}

// RenameFile removes src and adds dst sharing its digest, taking both
// path locks in lexicographic order so a concurrent rename of the reverse
// pair can't deadlock against this one.
func (u *Updater) RenameFile(src, dst string, opts ...AddFileOption) error {
	first, second := src, dst
	if second < first {
		first, second = second, first
	}
	unlockFirst := u.pathLocks.lock(first)
	defer unlockFirst()
	if second != first {
		unlockSecond := u.pathLocks.lock(second)
		defer unlockSecond()
	}
	args := &addFileArgs{}
	for _, opt := range opts {
		opt(args)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	dig := u.state.DigestFor(src)
	if dig == "" {
		return ErrNoLogicalPath
	}
	if existing := u.state.DigestFor(dst); existing != "" {
		if existing == dig {
			removeStatePath(u.state, src)
			delete(u.addedThisVersion, src)
			return nil
		}
		if !args.overwrite {
			return &OverwriteConflictErr{Path: dst}
		}
		removeStatePath(u.state, dst)
	}
	removeStatePath(u.state, src)
	u.state[dig] = append(u.state[dig], dst)
	delete(u.addedThisVersion, src)
	u.addedThisVersion[dst] = true
	return nil
}

// ReinstateFile copies the logical-path/digest mapping from an earlier
// version's state into the pending head version. The digest must already
// be present in the object's manifest (it was a real file in some past
// version), so no new content needs to be staged.
func (u *Updater) ReinstateFile(obj *Object, sourceVersion VNum, srcLogicalPath, dstLogicalPath string, opts ...AddFileOption) error {
	if obj == nil || !obj.Exists() {
		return &NotFoundErr{ID: "", Err: fmt.Errorf("reinstate: object has no prior versions")}
	}
	inv := obj.Inventory()
	srcVer, ok := inv.Versions[sourceVersion]
	if !ok {
		return &NotFoundErr{ID: obj.id, Err: fmt.Errorf("version %s not found", sourceVersion)}
	}
	dig := srcVer.State.DigestFor(srcLogicalPath)
	if dig == "" {
		return ErrNoLogicalPath
	}
	if len(inv.Manifest.DigestPaths(dig)) == 0 {
		return &CorruptObjectErr{ID: obj.id, Msg: "reinstated digest is not in the object manifest: " + dig}
	}
	args := &addFileArgs{}
	for _, opt := range opts {
		opt(args)
	}
	unlock := u.pathLocks.lock(dstLogicalPath)
	defer unlock()
	u.mu.Lock()
	defer u.mu.Unlock()
	if existing := u.state.DigestFor(dstLogicalPath); existing != "" {
		if existing == dig {
			return nil
		}
		if !args.overwrite {
			return &OverwriteConflictErr{Path: dstLogicalPath}
		}
		removeStatePath(u.state, dstLogicalPath)
	}
	u.state[dig] = append(u.state[dig], dstLogicalPath)
	u.addedThisVersion[dstLogicalPath] = true
	return nil
}

// AddFixity records a fixity witness for logicalPath under alg, recomputing
// the digest from the staged content if it hasn't already been computed
// for this (digest, algorithm) pair. logicalPath must have been added or
// renamed-in during this same call; otherwise there's no staged content
// left to re-read.
func (u *Updater) AddFixity(ctx context.Context, logicalPath string, alg digest.Algorithm, expected string) error {
	u.mu.Lock()
	added := u.addedThisVersion[logicalPath]
	dig := u.state.DigestFor(logicalPath)
	if !added || dig == "" {
		u.mu.Unlock()
		return fmt.Errorf("addFixity: logical path was not added in this version: %s", logicalPath)
	}
	if cached, ok := u.fixity[dig][alg.ID()]; ok {
		u.mu.Unlock()
		if cached != expected {
			return &FixityMismatchErr{Path: logicalPath, Alg: alg.ID(), Got: cached, Expected: expected}
		}
		return nil
	}
	ref, hasRef := u.content[dig]
	u.mu.Unlock()
	if !hasRef {
		return fmt.Errorf("addFixity: %s: no staged content available to verify", logicalPath)
	}
	got, err := digestFile(ctx, ref.fsys, ref.path, alg)
	if err != nil {
		return err
	}
	u.mu.Lock()
	if u.fixity[dig] == nil {
		u.fixity[dig] = map[string]string{}
	}
	u.fixity[dig][alg.ID()] = got
	u.mu.Unlock()
	if got != expected {
		return &FixityMismatchErr{Path: logicalPath, Alg: alg.ID(), Got: got, Expected: expected}
	}
	return nil
}

// ClearState discards every pending logical-path mapping, reverting to an
// empty version. Use it to build a version that replaces an object's
// entire content in one call instead of removing files one at a time.
func (u *Updater) ClearState() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = DigestMap{}
	u.content = map[string]contentRef{}
	u.addedThisVersion = map[string]bool{}
}

// ClearFixity discards every fixity witness recorded with AddFixity.
func (u *Updater) ClearFixity() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fixity = map[string]map[string]string{}
}

// removeStatePath removes logical path p from m, deleting its digest
// entry entirely once no paths reference it.
func removeStatePath(m DigestMap, p string) {
	dig := m.DigestFor(p)
	if dig == "" {
		return
	}
	paths := m[dig]
	idx := slices.Index(paths, p)
	if idx < 0 {
		return
	}
	paths = slices.Delete(paths, idx, idx+1)
	if len(paths) == 0 {
		delete(m, dig)
		return
	}
	m[dig] = paths
}

// digestFile opens name in fsys and computes its digest under alg.
func digestFile(ctx context.Context, fsys ocflfs.FS, name string, alg digest.Algorithm) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := fsys.OpenFile(ctx, name)
	if err != nil {
		return "", &StorageErr{Op: "open file for digest", Err: err}
	}
	defer f.Close()
	digester := alg.Digester()
	if _, err := io.Copy(digester, f); err != nil {
		return "", &StorageErr{Op: "digest file", Err: err}
	}
	return digester.String(), nil
}

// pathLockTable hands out one mutex per logical path so concurrent edits
// to distinct paths don't block each other, while edits to the same path
// are serialized.
type pathLockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (t *pathLockTable) lock(p string) (unlock func()) {
	t.mu.Lock()
	if t.locks == nil {
		t.locks = map[string]*sync.Mutex{}
	}
	m, ok := t.locks[p]
	if !ok {
		m = &sync.Mutex{}
		t.locks[p] = m
	}
	t.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// memContentFS is a minimal write-once, read-many in-memory FS backing
// [Updater.WriteFile], which has no caller-supplied source file to read
// the bytes back from.
type memContentFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memContentFS) OpenFile(ctx context.Context, name string) (fs.File, error) {
	m.mu.Lock()
	b, ok := m.files[name]
	m.mu.Unlock()
	if !ok {
		return nil, &fs.PathError{Op: "openfile", Path: name, Err: fs.ErrNotExist}
	}
	return &memContentFile{Reader: bytes.NewReader(b), name: path.Base(name), size: int64(len(b))}, nil
}

type memContentFile struct {
	*bytes.Reader
	name string
	size int64
}

func (f *memContentFile) Stat() (fs.FileInfo, error) { return f, nil }
func (f *memContentFile) Close() error               { return nil }
func (f *memContentFile) Name() string                { return f.name }
func (f *memContentFile) Size() int64                 { return f.size }
func (f *memContentFile) Mode() fs.FileMode           { return 0444 }
func (f *memContentFile) ModTime() time.Time          { return time.Time{} }
func (f *memContentFile) IsDir() bool                 { return false }
func (f *memContentFile) Sys() any                    { return nil }
