package ocfltest_test

import (
	"context"
	"io/fs"
	"math/rand"
	"testing"

	"github.com/ocflkit/ocfl/digest"
	ocflfs "github.com/ocflkit/ocfl/fs"
	"github.com/ocflkit/ocfl/internal/ocfltest"
)

const (
	seed     = 7382892873
	numfiles = 300
	maxsize  = 1024 * 1024
)

func TestGenerateFS(t *testing.T) {
	genr := rand.New(rand.NewSource(seed))
	fsys := ocfltest.GenerateFS(genr, numfiles, maxsize)
	found := 0
	gotMax := 0
	walkfn := func(name string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.Type().IsRegular() {
			found++
			inf, err := e.Info()
			if err != nil {
				return err
			}
			if inf.Size() > int64(gotMax) {
				gotMax = int(inf.Size())
			}
		}
		return nil
	}
	if err := fs.WalkDir(fsys, ".", walkfn); err != nil {
		t.Fatal(err)
	}
	if found != numfiles {
		t.Fatalf("expected %d files, found %d", numfiles, found)
	}
	if gotMax > maxsize {
		t.Fatalf("expected no files larger than %d", maxsize)
	}

	ctx := context.Background()
	wrapped := ocflfs.NewFS(fsys)
	digested := 0
	for ref, err := range digest.DigestFiles(ctx, seqFiles(ctx, wrapped), digest.SHA256) {
		if err != nil {
			t.Fatal(err)
		}
		if ref.Digests[digest.SHA256.ID()] == "" {
			t.Fatalf("%s: missing sha256 digest", ref.Path)
		}
		digested++
	}
	if digested != numfiles {
		t.Fatalf("digested %d files, expected %d", digested, numfiles)
	}
}

// seqFiles adapts ocflfs.WalkFiles' iter.Seq2 to the iter.Seq digest.DigestFiles
// expects, since the generated FS has no I/O errors to surface.
func seqFiles(ctx context.Context, fsys ocflfs.FS) func(yield func(*ocflfs.FileRef) bool) {
	return func(yield func(*ocflfs.FileRef) bool) {
		for ref, err := range ocflfs.WalkFiles(ctx, fsys, ".") {
			if err != nil {
				return
			}
			if !yield(ref) {
				return
			}
		}
	}
}
