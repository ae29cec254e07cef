package ocfl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	ocfl "github.com/ocflkit/ocfl"
	"github.com/ocflkit/ocfl/digest"
	ocflfs "github.com/ocflkit/ocfl/fs"
)

func TestMemLock(t *testing.T) {
	lock := ocfl.NewMemLock()

	t.Run("serializes same id", func(t *testing.T) {
		ctx := context.Background()
		unlock1, err := lock.Lock(ctx, "obj-1")
		if err != nil {
			t.Fatal(err)
		}
		var started, finished sync.WaitGroup
		started.Add(1)
		finished.Add(1)
		go func() {
			started.Done()
			unlock2, err := lock.Lock(ctx, "obj-1")
			if err != nil {
				t.Error(err)
				finished.Done()
				return
			}
			unlock2()
			finished.Done()
		}()
		started.Wait()
		time.Sleep(20 * time.Millisecond) // give the goroutine a chance to block on unlock1
		unlock1()
		finished.Wait()
	})

	t.Run("distinct ids don't block each other", func(t *testing.T) {
		ctx := context.Background()
		unlockA, err := lock.Lock(ctx, "obj-a")
		if err != nil {
			t.Fatal(err)
		}
		defer unlockA()
		done := make(chan struct{})
		go func() {
			unlockB, err := lock.Lock(ctx, "obj-b")
			if err != nil {
				t.Error(err)
				return
			}
			unlockB()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock for a distinct id blocked unexpectedly")
		}
	})

	t.Run("contention reports LockContentionErr on cancellation", func(t *testing.T) {
		ctx := context.Background()
		unlock, err := lock.Lock(ctx, "obj-contend")
		if err != nil {
			t.Fatal(err)
		}
		defer unlock()
		shortCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, err = lock.Lock(shortCtx, "obj-contend")
		var contention *ocfl.LockContentionErr
		if !errors.As(err, &contention) {
			t.Fatalf("expected *ocfl.LockContentionErr, got %v", err)
		}
	})
}

func TestCommitConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	objFS := newCommitTestFS(t)
	id := "commit-test-concurrent"
	base, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID(id))
	if err != nil {
		t.Fatal(err)
	}
	contentFS := ocflfs.NewFS(fstest.MapFS{"a.txt": &fstest.MapFile{Data: []byte("a")}})
	stage, err := ocfl.StageDir(ctx, contentFS, ".", digest.SHA256)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ocfl.Commit(ctx, base, stage, ocfl.WithMessage("v1")); err != nil {
		t.Fatal(err)
	}

	readerA, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID(id))
	if err != nil {
		t.Fatal(err)
	}
	readerB, err := ocfl.NewObject(ctx, objFS, ".", ocfl.ObjectWithID(id))
	if err != nil {
		t.Fatal(err)
	}

	results := make(chan error, 2)
	run := func(obj *ocfl.Object, content string) {
		u := ocfl.NewUpdater(obj, digest.SHA256)
		if err := u.WriteFile(ctx, strings.NewReader(content), "b.txt"); err != nil {
			results <- err
			return
		}
		_, err := ocfl.Commit(ctx, obj, u, ocfl.WithMessage("v2"), ocfl.WithExpectedHead(ocfl.V(1)))
		results <- err
	}
	go run(readerA, "from a")
	go run(readerB, "from b")

	var succeeded, outOfSync int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, new(*ocfl.ObjectOutOfSyncErr)):
			outOfSync++
		default:
			t.Fatalf("unexpected error from concurrent commit: %v", err)
		}
	}
	if succeeded != 1 || outOfSync != 1 {
		t.Fatalf("expected exactly one success and one out-of-sync failure, got %d successes, %d out-of-sync", succeeded, outOfSync)
	}
}
