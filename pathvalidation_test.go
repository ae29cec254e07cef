package ocfl_test

import (
	"errors"
	"testing"

	"github.com/ocflkit/ocfl"
)

func TestCheckerMinimal(t *testing.T) {
	c := ocfl.MinimalChecker()
	valid := []string{"file.txt", "a/b/c.txt", `back\slash.txt`}
	for _, p := range valid {
		if err := c.CheckLogicalPath(p); err != nil {
			t.Errorf("%q: unexpected error: %v", p, err)
		}
	}
	invalid := []string{"", "/file.txt", "file.txt/", "a//b.txt", "./a.txt", "../a.txt", "a/./b.txt", "a/../b.txt"}
	for _, p := range invalid {
		if err := c.CheckLogicalPath(p); err == nil {
			t.Errorf("%q: expected an error", p)
		}
	}
}

func TestCheckerUnix(t *testing.T) {
	c := ocfl.UnixChecker()
	if err := c.CheckLogicalPath("file.txt"); err != nil {
		t.Fatal(err)
	}
	if err := c.CheckLogicalPath("a\x00b.txt"); err == nil {
		t.Fatal("expected NUL byte to be rejected")
	}
}

func TestCheckerWindows(t *testing.T) {
	c := ocfl.WindowsChecker()
	valid := []string{"file.txt", "a/b/c.txt"}
	for _, p := range valid {
		if err := c.CheckLogicalPath(p); err != nil {
			t.Errorf("%q: unexpected error: %v", p, err)
		}
	}
	invalid := []string{
		`a\b.txt`,
		"a<b.txt",
		"con.txt",
		"a/CON/b.txt",
		"trailing.",
		"trailing ",
	}
	for _, p := range invalid {
		var pcErr *ocfl.PathConstraintViolationErr
		err := c.CheckLogicalPath(p)
		if err == nil {
			t.Errorf("%q: expected an error", p)
			continue
		}
		if !errors.As(err, &pcErr) {
			t.Errorf("%q: expected a *PathConstraintViolationErr, got %T", p, err)
		}
	}
}

func TestCheckerCloud(t *testing.T) {
	c := ocfl.CloudChecker()
	if err := c.CheckLogicalPath("a/b/c.txt"); err != nil {
		t.Fatal(err)
	}
	if err := c.CheckLogicalPath("a\x7fb.txt"); err == nil {
		t.Fatal("expected DEL byte to be rejected")
	}
}

func TestCheckerAll(t *testing.T) {
	c := ocfl.AllChecker()
	if err := c.CheckLogicalPath("a/b/c.txt"); err != nil {
		t.Fatal(err)
	}
	// rejected by any of the three presets it intersects
	for _, p := range []string{`a\b.txt`, "con.txt", "a\x00b.txt"} {
		if err := c.CheckLogicalPath(p); err == nil {
			t.Errorf("%q: expected an error", p)
		}
	}
}

func TestCheckerContentPath(t *testing.T) {
	c := ocfl.MinimalChecker()
	if err := c.CheckContentPath("content", "v1/content/a/b.txt"); err != nil {
		t.Fatal(err)
	}
	if err := c.CheckContentPath("content", "v1/content/../escape.txt"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestPreset(t *testing.T) {
	for _, name := range []string{"minimal", "unix", "windows", "cloud", "all"} {
		if ocfl.Preset(name) == nil {
			t.Errorf("Preset(%q) returned nil", name)
		}
	}
	if ocfl.Preset("nonexistent") != nil {
		t.Error("Preset(\"nonexistent\") should return nil")
	}
}
