package ops

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/corentinmace/clockwork-sub000/internal/config"
)

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{AllowedPaths: []string{dir}}

	existing := filepath.Join(dir, "story.msg")
	if err := os.WriteFile(existing, []byte{0, 0, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("read existing file", func(t *testing.T) {
		if err := ValidatePath(existing, PathCheckRead, cfg, BinaryExts); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("write new file", func(t *testing.T) {
		p := filepath.Join(dir, "new.msg")
		if err := ValidatePath(p, PathCheckWrite, cfg, BinaryExts); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if err := ValidatePath("", PathCheckRead, cfg, BinaryExts); !isCode(err, "INVALID_REQUEST") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("traversal rejected", func(t *testing.T) {
		p := filepath.Join(dir, "..", "story.msg")
		if err := ValidatePath(p, PathCheckRead, cfg, BinaryExts); !isCode(err, "INVALID_REQUEST") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		p := filepath.Join(dir, "story.exe")
		if err := ValidatePath(p, PathCheckRead, cfg, BinaryExts); !isCode(err, "INVALID_REQUEST") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("text exts reject binary ext", func(t *testing.T) {
		if err := ValidatePath(existing, PathCheckRead, cfg, TextExts); !isCode(err, "INVALID_REQUEST") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("missing file in read mode", func(t *testing.T) {
		p := filepath.Join(dir, "ghost.msg")
		if err := ValidatePath(p, PathCheckRead, cfg, BinaryExts); !isCode(err, "FILE_NOT_FOUND") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("subdirectory rejected", func(t *testing.T) {
		sub := filepath.Join(dir, "sub")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		p := filepath.Join(sub, "story.msg")
		if err := ValidatePath(p, PathCheckWrite, cfg, BinaryExts); !isCode(err, "INVALID_REQUEST") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("outside allowed dirs rejected", func(t *testing.T) {
		other := t.TempDir()
		p := filepath.Join(other, "story.msg")
		if err := ValidatePath(p, PathCheckWrite, cfg, BinaryExts); !isCode(err, "INVALID_REQUEST") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("symlink rejected", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks need privileges on windows")
		}
		link := filepath.Join(dir, "link.msg")
		if err := os.Symlink(existing, link); err != nil {
			t.Fatal(err)
		}
		if err := ValidatePath(link, PathCheckRead, cfg, BinaryExts); !isCode(err, "INVALID_REQUEST") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("unsafe mode skips directory checks", func(t *testing.T) {
		other := t.TempDir()
		p := filepath.Join(other, "story.msg")
		if err := os.WriteFile(p, []byte{0}, 0644); err != nil {
			t.Fatal(err)
		}
		unsafe := &config.Config{AllowUnsafePaths: true}
		if err := ValidatePath(p, PathCheckRead, unsafe, BinaryExts); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unsafe mode still rejects symlinks", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks need privileges on windows")
		}
		link := filepath.Join(dir, "unsafe-link.msg")
		if err := os.Symlink(existing, link); err != nil {
			t.Fatal(err)
		}
		unsafe := &config.Config{AllowUnsafePaths: true}
		if err := ValidatePath(link, PathCheckRead, unsafe, BinaryExts); !isCode(err, "INVALID_REQUEST") {
			t.Errorf("got %v", err)
		}
	})
}

func TestContainsTraversal(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"story.msg", false},
		{"../story.msg", true},
		{"a/../b.msg", true},
		{"a/b..c.msg", false},
		{"..", true},
	}
	for _, tt := range tests {
		if got := containsTraversal(tt.path); got != tt.want {
			t.Errorf("containsTraversal(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSanitizeForFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"story", "story"},
		{"a/b\\c", "a-b-c"},
		{"..secret", "secret"},
		{"a..b", "a-b"},
		{"", "unnamed"},
		{"///", "unnamed"},
		{"hello world", "hello world"},
		{"a--b", "a-b"},
	}
	for _, tt := range tests {
		if got := SanitizeForFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeForFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasAllowedExt(t *testing.T) {
	if !hasAllowedExt("a.MSG", BinaryExts) {
		t.Error("extension match should be case-insensitive")
	}
	if hasAllowedExt("a.msg", TextExts) {
		t.Error(".msg should not pass the text allowlist")
	}
	if !hasAllowedExt("anything", nil) {
		t.Error("empty allowlist should accept anything")
	}
}
