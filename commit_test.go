package ocfl_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"

	ocfl "github.com/ocflkit/ocfl"
	"github.com/ocflkit/ocfl/digest"
	ocflfs "github.com/ocflkit/ocfl/fs"
	"github.com/ocflkit/ocfl/internal/testfs"
)

func newCommitTestFS(t *testing.T) ocflfs.WriteFS {
	t.Helper()
	dir, err := os.MkdirTemp("", "ocfl-commit-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	fsys, err := testfs.NewTestFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return fsys
}

func TestCommit(t *testing.T) {
	ctx := context.Background()
	t.Run("new object", func(t *testing.T) {
		objFS := newCommitTestFS(t)
		contentFS := ocflfs.NewFS(fstest.MapFS{
			"a.txt": &fstest.MapFile{Data: []byte("content a")},
			"b.txt": &fstest.MapFile{Data: []byte("content b")},
		})
		obj, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID("commit-test-001"))
		if err != nil {
			t.Fatal(err)
		}
		stage, err := ocfl.StageDir(ctx, contentFS, ".", digest.SHA256)
		if err != nil {
			t.Fatal(err)
		}
		committed, err := ocfl.Commit(ctx, obj, stage, ocfl.WithMessage("initial commit"), ocfl.WithUser(&ocfl.User{Name: "tester"}))
		if err != nil {
			t.Fatal(err)
		}
		if committed.ID() != "commit-test-001" {
			t.Fatalf("unexpected object id: %s", committed.ID())
		}
		if committed.Head() != ocfl.V(1) {
			t.Fatalf("expected head v1, got %s", committed.Head())
		}
		result := ocfl.ValidateObject(ctx, objFS, ".")
		if err := result.Err(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("second version", func(t *testing.T) {
		objFS := newCommitTestFS(t)
		contentFS := ocflfs.NewFS(fstest.MapFS{
			"a.txt": &fstest.MapFile{Data: []byte("content a")},
		})
		obj, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID("commit-test-002"))
		if err != nil {
			t.Fatal(err)
		}
		stage, err := ocfl.StageDir(ctx, contentFS, ".", digest.SHA256)
		if err != nil {
			t.Fatal(err)
		}
		obj, err = ocfl.Commit(ctx, obj, stage, ocfl.WithMessage("v1"))
		if err != nil {
			t.Fatal(err)
		}
		contentFS2 := ocflfs.NewFS(fstest.MapFS{
			"a.txt": &fstest.MapFile{Data: []byte("content a")},
			"c.txt": &fstest.MapFile{Data: []byte("content c")},
		})
		stage2, err := ocfl.StageDir(ctx, contentFS2, ".", digest.SHA256)
		if err != nil {
			t.Fatal(err)
		}
		obj, err = ocfl.Commit(ctx, obj, stage2, ocfl.WithMessage("v2"))
		if err != nil {
			t.Fatal(err)
		}
		if obj.Head() != ocfl.V(2) {
			t.Fatalf("expected head v2, got %s", obj.Head())
		}
		result := ocfl.ValidateObject(ctx, objFS, ".")
		if err := result.Err(); err != nil {
			t.Fatal(err)
		}
	})
}

func TestCommitUpdater(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrite conflict", func(t *testing.T) {
		objFS := newCommitTestFS(t)
		obj, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID("commit-test-overwrite"))
		if err != nil {
			t.Fatal(err)
		}
		srcFS1 := ocflfs.NewFS(fstest.MapFS{"a.txt": &fstest.MapFile{Data: []byte("version one")}})
		u := ocfl.NewUpdater(obj, digest.SHA256)
		if err := u.AddFile(ctx, srcFS1, "a.txt", "a.txt"); err != nil {
			t.Fatal(err)
		}
		obj, err = ocfl.Commit(ctx, obj, u, ocfl.WithMessage("v1"))
		if err != nil {
			t.Fatal(err)
		}

		srcFS2 := ocflfs.NewFS(fstest.MapFS{"a.txt": &fstest.MapFile{Data: []byte("version two")}})
		u2 := ocfl.NewUpdater(obj, digest.SHA256)
		err = u2.AddFile(ctx, srcFS2, "a.txt", "a.txt")
		var conflict *ocfl.OverwriteConflictErr
		if !errors.As(err, &conflict) {
			t.Fatalf("expected *ocfl.OverwriteConflictErr, got %v", err)
		}
		if err := u2.AddFile(ctx, srcFS2, "a.txt", "a.txt", ocfl.WithOverwrite()); err != nil {
			t.Fatal(err)
		}
		obj, err = ocfl.Commit(ctx, obj, u2, ocfl.WithMessage("v2"))
		if err != nil {
			t.Fatal(err)
		}
		if obj.Head() != ocfl.V(2) {
			t.Fatalf("expected head v2, got %s", obj.Head())
		}
	})

	t.Run("reinstate", func(t *testing.T) {
		objFS := newCommitTestFS(t)
		obj, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID("commit-test-reinstate"))
		if err != nil {
			t.Fatal(err)
		}
		srcFS := ocflfs.NewFS(fstest.MapFS{"a.txt": &fstest.MapFile{Data: []byte("original")}})
		u := ocfl.NewUpdater(obj, digest.SHA256)
		if err := u.AddFile(ctx, srcFS, "a.txt", "a.txt"); err != nil {
			t.Fatal(err)
		}
		obj, err = ocfl.Commit(ctx, obj, u, ocfl.WithMessage("v1"))
		if err != nil {
			t.Fatal(err)
		}

		u2 := ocfl.NewUpdater(obj, digest.SHA256)
		if _, err := u2.RemoveFile("a.txt"); err != nil {
			t.Fatal(err)
		}
		obj, err = ocfl.Commit(ctx, obj, u2, ocfl.WithMessage("v2, removed a.txt"))
		if err != nil {
			t.Fatal(err)
		}

		u3 := ocfl.NewUpdater(obj, digest.SHA256)
		if err := u3.ReinstateFile(obj, ocfl.V(1), "a.txt", "a.txt"); err != nil {
			t.Fatal(err)
		}
		obj, err = ocfl.Commit(ctx, obj, u3, ocfl.WithMessage("v3, reinstated a.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if obj.Head() != ocfl.V(3) {
			t.Fatalf("expected head v3, got %s", obj.Head())
		}
		result := ocfl.ValidateObject(ctx, objFS, ".")
		if err := result.Err(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("out of sync", func(t *testing.T) {
		objFS := newCommitTestFS(t)
		id := "commit-test-oos"
		base, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID(id))
		if err != nil {
			t.Fatal(err)
		}
		srcFS1 := ocflfs.NewFS(fstest.MapFS{"a.txt": &fstest.MapFile{Data: []byte("one")}})
		u := ocfl.NewUpdater(base, digest.SHA256)
		if err := u.AddFile(ctx, srcFS1, "a.txt", "a.txt"); err != nil {
			t.Fatal(err)
		}
		if _, err := ocfl.Commit(ctx, base, u, ocfl.WithMessage("v1")); err != nil {
			t.Fatal(err)
		}

		// Two readers both see the object at head v1.
		readerA, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID(id))
		if err != nil {
			t.Fatal(err)
		}
		readerB, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID(id))
		if err != nil {
			t.Fatal(err)
		}

		srcFS2 := ocflfs.NewFS(fstest.MapFS{"b.txt": &fstest.MapFile{Data: []byte("two")}})
		uA := ocfl.NewUpdater(readerA, digest.SHA256)
		if err := uA.AddFile(ctx, srcFS2, "b.txt", "b.txt"); err != nil {
			t.Fatal(err)
		}
		if _, err := ocfl.Commit(ctx, readerA, uA, ocfl.WithMessage("v2 from A"), ocfl.WithExpectedHead(ocfl.V(1))); err != nil {
			t.Fatal(err)
		}

		srcFS3 := ocflfs.NewFS(fstest.MapFS{"c.txt": &fstest.MapFile{Data: []byte("three")}})
		uB := ocfl.NewUpdater(readerB, digest.SHA256)
		if err := uB.AddFile(ctx, srcFS3, "c.txt", "c.txt"); err != nil {
			t.Fatal(err)
		}
		_, err = ocfl.Commit(ctx, readerB, uB, ocfl.WithMessage("v2 from B"), ocfl.WithExpectedHead(ocfl.V(1)))
		var oos *ocfl.ObjectOutOfSyncErr
		if !errors.As(err, &oos) {
			t.Fatalf("expected *ocfl.ObjectOutOfSyncErr, got %v", err)
		}
		if oos.Expected != ocfl.V(1) || oos.Observed != ocfl.V(2) {
			t.Fatalf("unexpected out-of-sync details: %+v", oos)
		}
	})
}
