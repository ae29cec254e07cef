package ocfl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/ocflkit/ocfl/digest"
	ocflfs "github.com/ocflkit/ocfl/fs"
)

// Object represents a single OCFL object, rooted at a directory in a
// storage backend. An *Object may refer to an object that does not yet
// exist in storage; such a value is only useful as the target of a commit
// that creates it.
type Object struct {
	fsys ocflfs.FS
	path string // object root, relative to fsys
	root *Root  // storage root the object belongs to, or nil

	id        string // requested id, set by ObjectWithID
	mustExist bool

	decl Namaste          // object root NAMASTE declaration, zero value if object doesn't exist
	inv  *StoredInventory // root inventory.json, nil if the object doesn't exist
}

// ObjectOption is used to configure the behavior of [NewObject].
type ObjectOption func(*Object)

// ObjectWithID sets the expected object identifier: when the object
// already exists, its inventory id must match or NewObject returns an
// error.
func ObjectWithID(id string) ObjectOption {
	return func(o *Object) { o.id = id }
}

// ObjectMustExist requires that the object already exists in storage;
// otherwise NewObject returns a *NotFoundErr.
func ObjectMustExist() ObjectOption {
	return func(o *Object) { o.mustExist = true }
}

// objectWithRoot associates obj with the [Root] it was resolved through.
func objectWithRoot(r *Root) ObjectOption {
	return func(o *Object) { o.root = r }
}

// NewObject returns an *Object for the OCFL object rooted at dir in fsys.
// If an object declaration and inventory are found at dir, they are read
// and validated against any expected id from [ObjectWithID]. If nothing is
// found at dir, the returned Object represents a not-yet-existing object,
// unless [ObjectMustExist] was given, in which case a *NotFoundErr is
// returned.
func NewObject(ctx context.Context, fsys ocflfs.FS, dir string, opts ...ObjectOption) (*Object, error) {
	obj := &Object{fsys: fsys, path: dir}
	for _, opt := range opts {
		opt(obj)
	}
	entries, err := ocflfs.ReadDir(ctx, fsys, dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &StorageErr{Op: "read object directory", Err: err}
	}
	decl, err := FindNamaste(entries)
	switch {
	case err == nil:
		if !decl.IsObject() {
			return nil, &RepositoryConfigurationErr{Msg: fmt.Sprintf("%q has the wrong NAMASTE declaration type: %q", dir, decl.Type)}
		}
		obj.decl = decl
		inv, err := readStoredInventory(ctx, fsys, dir)
		if err != nil {
			return nil, &CorruptObjectErr{ID: obj.id, Msg: err.Error()}
		}
		if obj.id != "" && inv.ID != obj.id {
			return nil, &CorruptObjectErr{ID: obj.id, Msg: fmt.Sprintf("inventory id %q does not match expected id %q", inv.ID, obj.id)}
		}
		obj.id = inv.ID
		obj.inv = inv
	case errors.Is(err, ErrNamasteMultiple):
		return nil, &CorruptObjectErr{ID: obj.id, Msg: err.Error()}
	case obj.mustExist:
		return nil, &NotFoundErr{ID: obj.id, Err: err}
	}
	return obj, nil
}

// Exists reports whether the object already has a declaration and
// inventory in storage.
func (o *Object) Exists() bool { return o.inv != nil }

// ID returns the object's identifier: the id read from its inventory, or
// the expected id set with [ObjectWithID] if the object does not yet
// exist.
func (o *Object) ID() string { return o.id }

// Path returns the object root's path, relative to its FS.
func (o *Object) Path() string { return o.path }

// FS returns the object's backing FS.
func (o *Object) FS() ocflfs.FS { return o.fsys }

// Root returns the storage Root the object was resolved through, or nil if
// the object was opened directly with [NewObject].
func (o *Object) Root() *Root { return o.root }

// objectLock resolves the [Lock] that [Commit] acquires before mutating o:
// the root's lock when o was resolved through a [Root], otherwise an
// in-process default shared by every directly opened *Object.
func (o *Object) objectLock() Lock {
	if o.root != nil && o.root.lock != nil {
		return o.root.lock
	}
	return defaultLock
}

// Inventory returns the object's current inventory, or nil if the object
// does not exist.
func (o *Object) Inventory() *Inventory {
	if o.inv == nil {
		return nil
	}
	return &o.inv.Inventory
}

// Head returns the object's current head version, or the zero VNum if the
// object does not exist.
func (o *Object) Head() VNum {
	if o.inv == nil {
		return VNum{}
	}
	return o.inv.Head
}

// OpenVersion returns a read-only [ocflfs.FS] over the logical contents of
// version v (the zero value [Head] means the object's head version).
func (o *Object) OpenVersion(ctx context.Context, v VNum) (*ObjectStateFS, error) {
	if o.inv == nil {
		return nil, &NotFoundErr{ID: o.id}
	}
	if v.IsZero() {
		v = o.inv.Head
	}
	ver, ok := o.inv.Versions[v]
	if !ok {
		return nil, &NotFoundErr{ID: o.id, Err: fmt.Errorf("version %s not found", v)}
	}
	contentFS := o.fsys
	contentDir := o.path
	state := &ObjectStateFS{
		ObjectState: ObjectState{
			DigestMap: ver.State,
			Manifest:  o.inv.Manifest,
			Alg:       o.inv.DigestAlgorithm,
			User:      ver.User,
			Created:   ver.Created,
			Message:   ver.Message,
			VNum:      v,
			Head:      o.inv.Head,
			Spec:      o.inv.Type.Spec,
		},
		OpenContentFile: func(ctx context.Context, name string) (fs.File, error) {
			return contentFS.OpenFile(ctx, path.Join(contentDir, name))
		},
	}
	return state, nil
}

// ExtractVersion copies the full logical contents of version v from storage
// into dstFS at dstDir, fixity-checking every file as it is copied. If any
// fixity check fails, the destination is removed and the error is a
// *FixityMismatchErr.
func (o *Object) ExtractVersion(ctx context.Context, v VNum, dstFS ocflfs.WriteFS, dstDir string) error {
	state, err := o.OpenVersion(ctx, v)
	if err != nil {
		return err
	}
	alg, err := digest.DefaultRegistry().Get(state.Alg)
	if err != nil {
		return &InvalidInventoryErr{Msg: "unsupported digest algorithm", Err: err}
	}
	var copyErr error
	state.DigestMap.EachPath(func(name, want string) bool {
		contentPaths := state.Manifest.DigestPaths(want)
		if len(contentPaths) == 0 {
			copyErr = &CorruptObjectErr{ID: o.id, Msg: "digest in state has no manifest entry: " + want}
			return false
		}
		srcName := path.Join(o.path, contentPaths[0])
		src, openErr := o.fsys.OpenFile(ctx, srcName)
		if openErr != nil {
			copyErr = openErr
			return false
		}
		defer src.Close()
		digester := alg.Digester()
		dstName := path.Join(dstDir, name)
		if _, copyErr = dstFS.Write(ctx, dstName, io.TeeReader(src, digester)); copyErr != nil {
			return false
		}
		if got := digester.String(); got != want {
			copyErr = &FixityMismatchErr{Path: dstName, Alg: state.Alg, Got: got, Expected: want}
			return false
		}
		return true
	})
	if copyErr != nil {
		_ = ocflfs.RemoveAll(ctx, dstFS, dstDir)
		return copyErr
	}
	return nil
}
