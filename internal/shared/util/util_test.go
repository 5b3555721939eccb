package util

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCompileGlobsAndMatchAny(t *testing.T) {
	t.Parallel()

	globs, err := CompileGlobs([]string{"com.example.**", "org.*.Util"}, "class", '.')
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	cases := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "Deep", value: "com.example.a.b.Foo", expected: true},
		{name: "SingleSegment", value: "org.lib.Util", expected: true},
		{name: "TooDeep", value: "org.lib.inner.Util", expected: false},
		{name: "Other", value: "net.example.Foo", expected: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := MatchAny(globs, tc.value); got != tc.expected {
				t.Fatalf("MatchAny(%q) = %v, want %v", tc.value, got, tc.expected)
			}
		})
	}

	if _, err := CompileGlobs([]string{"[unclosed"}, "class"); err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}

func TestUniqueRoots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got := UniqueRoots([]string{dir, filepath.Join(dir, "."), filepath.Join(dir, "b", "..")})
	if len(got) != 1 || got[0] != filepath.Clean(dir) {
		t.Fatalf("expected a single root %q, got %v", dir, got)
	}
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	exts := []string{".smali"}
	if !HasExtension("a/B.smali", exts) || !HasExtension("a/B.SMALI", exts) {
		t.Fatal("expected .smali files to match case-insensitively")
	}
	if HasExtension("a/B.java", exts) {
		t.Fatal("expected .java file to be rejected")
	}
}

func TestClassFilePath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"com.example.Foo":     filepath.Join("com", "example", "Foo.js"),
		"com.example.Foo$Bar": filepath.Join("com", "example", "Foo$Bar.js"),
		"Top":                 "Top.js",
		"a..b":                filepath.Join("a", "_", "b.js"),
	}
	for in, want := range cases {
		if got := ClassFilePath(in); got != want {
			t.Errorf("ClassFilePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	got := SortedStringKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestWriteStringWithDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "Foo.js")
	if err := WriteStringWithDirs(path, "x", 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "x" {
		t.Fatalf("unexpected content %q", data)
	}
}
