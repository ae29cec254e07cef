package ocfl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/go-logr/logr"
	"github.com/ocflkit/ocfl/digest"
	ocflfs "github.com/ocflkit/ocfl/fs"
	"github.com/ocflkit/ocfl/validation"
)

// ObjectValidation accumulates the results of validating an OCFL object.
type ObjectValidation struct {
	validation.Log

	fsys        ocflfs.FS
	path        string
	skipDigests bool
	algRegistry digest.AlgorithmRegistry
	pathChecker *Checker
}

// ObjectValidationOption is used to configure an *ObjectValidation created
// with [ValidateObject] or [Root.ValidateObject].
type ObjectValidationOption func(*ObjectValidation)

// ValidationLogger sets the logr.Logger used to report validation errors
// and warnings as they're encountered.
func ValidationLogger(l logr.Logger) ObjectValidationOption {
	return func(v *ObjectValidation) { v.Log.Logger = l }
}

// ValidationSkipDigest skips recomputing file digests during validation;
// only the manifest/state/content-directory structure is checked.
func ValidationSkipDigest() ObjectValidationOption {
	return func(v *ObjectValidation) { v.skipDigests = true }
}

// ValidationPathChecker sets the Checker used to validate logical and
// content paths. The default is MinimalChecker, the OCFL-spec floor.
func ValidationPathChecker(c *Checker) ObjectValidationOption {
	return func(v *ObjectValidation) { v.pathChecker = c }
}

func newObjectValidation(fsys ocflfs.FS, dir string, opts ...ObjectValidationOption) *ObjectValidation {
	v := &ObjectValidation{
		Log:         validation.NewLog(logr.Discard()),
		fsys:        fsys,
		path:        dir,
		algRegistry: digest.DefaultRegistry(),
		pathChecker: MinimalChecker(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateObject validates the OCFL object at dir in fsys.
func ValidateObject(ctx context.Context, fsys ocflfs.FS, dir string, opts ...ObjectValidationOption) *ObjectValidation {
	v := newObjectValidation(fsys, dir, opts...)
	obj, err := NewObject(ctx, fsys, dir, ObjectMustExist())
	if err != nil {
		v.AddFatal(err)
		return v
	}
	v.validate(ctx, obj)
	return v
}

func (v *ObjectValidation) validate(ctx context.Context, obj *Object) {
	inv := obj.Inventory()
	if inv == nil {
		v.AddFatal(fmt.Errorf("object has no inventory"))
		return
	}
	if err := inv.Manifest.Valid(); err != nil {
		v.AddFatal(&ErrE096)
		v.AddFatal(err)
	}
	if _, err := getOCFL(inv.Type.Spec); err != nil {
		v.AddFatal(&ErrE007)
	}
	for vnum, ver := range inv.Versions {
		if err := ver.State.Valid(); err != nil {
			v.AddFatal(fmt.Errorf("version %s state: %w", vnum, err))
			continue
		}
		ver.State.EachPath(func(name, dig string) bool {
			if len(inv.Manifest.DigestPaths(dig)) == 0 {
				v.AddFatal(&ErrE050)
				return false
			}
			if err := v.pathChecker.CheckLogicalPath(name); err != nil {
				v.AddFatal(&ErrE052)
				v.AddFatal(err)
			}
			return true
		})
	}
	inv.Manifest.EachPath(func(contentPath, _ string) bool {
		if err := v.pathChecker.CheckContentPath(inv.contentDirectory(), contentPath); err != nil {
			v.AddFatal(&ErrE099)
			v.AddFatal(err)
		}
		return true
	})
	if v.skipDigests {
		return
	}
	v.validateContent(ctx, obj, inv)
}

// validateContent recomputes digests for every file in the manifest and
// checks them against their manifest digest, and checks that every file
// under a version's content directory is referenced by the manifest.
func (v *ObjectValidation) validateContent(ctx context.Context, obj *Object, inv *Inventory) {
	alg, err := v.algRegistry.Get(inv.DigestAlgorithm)
	if err != nil {
		v.AddFatal(&ErrE025)
		return
	}
	seen := map[string]bool{}
	inv.Manifest.EachPath(func(contentPath, want string) bool {
		seen[contentPath] = true
		fullPath := path.Join(obj.Path(), contentPath)
		f, openErr := obj.FS().OpenFile(ctx, fullPath)
		if openErr != nil {
			v.AddFatal(fmt.Errorf("content path %q: %w", contentPath, openErr))
			return true
		}
		digester := alg.Digester()
		_, copyErr := io.Copy(digester, f)
		f.Close()
		if copyErr != nil {
			v.AddFatal(fmt.Errorf("digesting %q: %w", contentPath, copyErr))
			return true
		}
		if got := digester.String(); got != want {
			v.AddFatal(&FixityMismatchErr{Path: contentPath, Alg: inv.DigestAlgorithm, Got: got, Expected: want})
		}
		return true
	})
	for vnum := range inv.Versions {
		contentDir := path.Join(obj.Path(), vnum.String(), inv.contentDirectory())
		for ref, walkErr := range ocflfs.WalkFiles(ctx, obj.FS(), contentDir) {
			if walkErr != nil {
				if errors.Is(walkErr, fs.ErrNotExist) {
					break
				}
				v.AddFatal(walkErr)
				break
			}
			rel := path.Join(vnum.String(), inv.contentDirectory(), ref.Path)
			if !seen[rel] {
				v.AddFatal(&ErrE023)
			}
		}
	}
}

