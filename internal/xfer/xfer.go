// Package xfer copies a batch of named files between two [ocflfs.FS]
// backends concurrently, preferring a backend-native copy when the source
// and destination are the same FS value and it implements [ocflfs.CopyFS].
package xfer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	ocflfs "github.com/ocflkit/ocfl/fs"
	"golang.org/x/sync/errgroup"
)

const (
	modeCopy  = "fs-copy"
	modeWrite = "read/write"
)

// Copy transfers files (dst name -> src name) from srcFS to dstFS, running
// up to conc transfers concurrently.
func Copy(ctx context.Context, srcFS ocflfs.FS, dstFS ocflfs.WriteFS, files map[string]string, conc int, logger *slog.Logger) error {
	if conc < 1 {
		conc = 1
	}
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(conc)
	for dst, src := range files {
		dst, src := dst, src
		grp.Go(func() error {
			return copyFile(ctx, dstFS, dst, srcFS, src, logger)
		})
	}
	return grp.Wait()
}

func copyFile(ctx context.Context, dstFS ocflfs.WriteFS, dst string, srcFS ocflfs.FS, src string, logger *slog.Logger) (err error) {
	_, isCopyFS := dstFS.(ocflfs.CopyFS)
	xferMode := modeWrite
	if isCopyFS && any(dstFS) == any(srcFS) {
		xferMode = modeCopy
	}
	if logger != nil {
		logger.DebugContext(ctx, "file xfer", "mode", xferMode, "src", src, "dst", dst)
	}
	if xferMode == modeCopy {
		_, err = ocflfs.Copy(ctx, dstFS, dst, srcFS, src)
		return err
	}
	var srcF fs.File
	srcF, err = srcFS.OpenFile(ctx, src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := srcF.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	_, err = dstFS.Write(ctx, dst, srcF)
	return err
}
