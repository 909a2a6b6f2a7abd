package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corentinmace/clockwork-sub000/internal/chartable"
	"github.com/corentinmace/clockwork-sub000/internal/db"
	"github.com/corentinmace/clockwork-sub000/internal/ops"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// writeArchive encodes messages with the default table and writes the
// binary archive to dir/name.
func writeArchive(t *testing.T, dir, name string, key uint16, messages []string) string {
	t.Helper()
	tbl, err := chartable.Default()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}
	var buf bytes.Buffer
	if _, err := textarc.Encode(&buf, &textarc.Archive{Key: key, Messages: messages}, tbl); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// runCapture runs the app with args, capturing stdout.
func runCapture(t *testing.T, args ...string) (string, error) {
	t.Helper()
	database, cleanup := setupTestDB(t)
	defer cleanup()
	return runCaptureWith(t, database, args...)
}

// runCaptureWith runs the app against an existing database, capturing stdout.
func runCaptureWith(t *testing.T, database *sql.DB, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(database, nil)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"clockwork"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

func TestCLIDumpBuildRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeArchive(t, dir, "story.msg", 0x1234, []string{"Hello!", "Goodbye!"})

	out, err := runCapture(t, "dump", in)
	if err != nil {
		t.Fatalf("dump command failed: %v", err)
	}

	var dump ops.DumpOutput
	if err := json.Unmarshal([]byte(out), &dump); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if dump.Key != "0x1234" || dump.MessageCount != 2 {
		t.Errorf("dump output: %+v", dump)
	}

	rebuilt := filepath.Join(dir, "rebuilt.msg")
	if _, err := runCapture(t, "build", "--out="+rebuilt, dump.Out); err != nil {
		t.Fatalf("build command failed: %v", err)
	}

	orig, _ := os.ReadFile(in)
	got, _ := os.ReadFile(rebuilt)
	if !bytes.Equal(orig, got) {
		t.Error("rebuilt archive differs from original")
	}
}

func TestCLIInspect(t *testing.T) {
	dir := t.TempDir()
	in := writeArchive(t, dir, "story.msg", 7, []string{"Hello!"})

	out, err := runCapture(t, "inspect", in)
	if err != nil {
		t.Fatalf("inspect command failed: %v", err)
	}

	var inspect ops.InspectOutput
	if err := json.Unmarshal([]byte(out), &inspect); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if inspect.Key != "0x0007" || inspect.MessageCount != 1 {
		t.Errorf("inspect output: %+v", inspect)
	}
}

func TestCLIPatchAndAppend(t *testing.T) {
	dir := t.TempDir()
	in := writeArchive(t, dir, "story.msg", 1, []string{"One", "Two"})

	if _, err := runCapture(t, "patch", "--index=0", "--text=ONE!", in); err != nil {
		t.Fatalf("patch command failed: %v", err)
	}

	out, err := runCapture(t, "append", "--text=Three", in)
	if err != nil {
		t.Fatalf("append command failed: %v", err)
	}

	var appended ops.AppendOutput
	if err := json.Unmarshal([]byte(out), &appended); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if appended.Index != 2 || appended.MessageCount != 3 {
		t.Errorf("append output: %+v", appended)
	}

	inspectOut, err := runCapture(t, "inspect", in)
	if err != nil {
		t.Fatalf("inspect command failed: %v", err)
	}
	var inspect ops.InspectOutput
	if err := json.Unmarshal([]byte(inspectOut), &inspect); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if inspect.Messages[0].Preview != "ONE!" || inspect.Messages[2].Preview != "Three" {
		t.Errorf("inspect after edits: %+v", inspect.Messages)
	}
}

func TestCLIIndexWorkflow(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	dir := t.TempDir()
	path := writeArchive(t, dir, "story.msg", 1, []string{"Hello, trainer!", "Goodbye!"})

	out, err := runCaptureWith(t, database, "index", "--game=platinum", "--name=story", path)
	if err != nil {
		t.Fatalf("index command failed: %v", err)
	}
	var indexed ops.IndexOutput
	if err := json.Unmarshal([]byte(out), &indexed); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if indexed.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	t.Run("fetch by id", func(t *testing.T) {
		out, err := runCaptureWith(t, database, "fetch", indexed.ID)
		if err != nil {
			t.Fatalf("fetch command failed: %v", err)
		}
		var fetched ops.FetchOutput
		if err := json.Unmarshal([]byte(out), &fetched); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if fetched.Archive.ID != indexed.ID || len(fetched.Messages) != 2 {
			t.Errorf("fetch output: %+v", fetched)
		}
	})

	t.Run("fetch by name", func(t *testing.T) {
		out, err := runCaptureWith(t, database, "fetch", "--game=platinum", "--name=story")
		if err != nil {
			t.Fatalf("fetch command failed: %v", err)
		}
		var fetched ops.FetchOutput
		if err := json.Unmarshal([]byte(out), &fetched); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if fetched.Archive.ID != indexed.ID {
			t.Errorf("expected ID=%s, got %s", indexed.ID, fetched.Archive.ID)
		}
	})

	t.Run("fetch single message", func(t *testing.T) {
		out, err := runCaptureWith(t, database, "fetch", "--message=1", indexed.ID)
		if err != nil {
			t.Fatalf("fetch command failed: %v", err)
		}
		var fetched ops.FetchOutput
		if err := json.Unmarshal([]byte(out), &fetched); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if fetched.Message == nil || fetched.Message.Text != "Goodbye!" {
			t.Errorf("fetch output: %+v", fetched)
		}
	})

	t.Run("list", func(t *testing.T) {
		out, err := runCaptureWith(t, database, "list", "--game=platinum")
		if err != nil {
			t.Fatalf("list command failed: %v", err)
		}
		var listed ops.ListOutput
		if err := json.Unmarshal([]byte(out), &listed); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(listed.Archives) != 1 || listed.Archives[0].Name != "story" {
			t.Errorf("list output: %+v", listed)
		}
	})

	t.Run("search", func(t *testing.T) {
		out, err := runCaptureWith(t, database, "search", "trainer")
		if err != nil {
			t.Fatalf("search command failed: %v", err)
		}
		var found ops.SearchOutput
		if err := json.Unmarshal([]byte(out), &found); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(found.Hits) != 1 || found.Hits[0].Index != 0 {
			t.Errorf("search output: %+v", found)
		}
	})

	t.Run("inventory", func(t *testing.T) {
		out, err := runCaptureWith(t, database, "inventory")
		if err != nil {
			t.Fatalf("inventory command failed: %v", err)
		}
		var inv ops.InventoryOutput
		if err := json.Unmarshal([]byte(out), &inv); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if inv.TotalArchives != 1 || inv.TotalMessages != 2 {
			t.Errorf("inventory output: %+v", inv)
		}
	})

	t.Run("purge by id", func(t *testing.T) {
		out, err := runCaptureWith(t, database, "purge", indexed.ID)
		if err != nil {
			t.Fatalf("purge command failed: %v", err)
		}
		var purged ops.PurgeOutput
		if err := json.Unmarshal([]byte(out), &purged); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if purged.Removed != 1 || purged.Scope != "id" {
			t.Errorf("purge output: %+v", purged)
		}
	})
}

func TestCLIErrorHandling(t *testing.T) {
	t.Run("dump missing argument", func(t *testing.T) {
		_, err := runCapture(t, "dump")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "INVALID_REQUEST") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("dump missing file", func(t *testing.T) {
		_, err := runCapture(t, "dump", filepath.Join(t.TempDir(), "nope.msg"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "FILE_NOT_FOUND") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("fetch unknown id", func(t *testing.T) {
		_, err := runCapture(t, "fetch", "01JUNKJUNKJUNKJUNKJUNKJUNK")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "NOT_FOUND") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("purge without scope", func(t *testing.T) {
		_, err := runCapture(t, "purge")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "INVALID_REQUEST") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"clockwork"}, false},
		{"known subcommand", []string{"clockwork", "dump"}, true},
		{"index subcommand", []string{"clockwork", "index"}, true},
		{"help flag", []string{"clockwork", "--help"}, true},
		{"version flag", []string{"clockwork", "-v"}, true},
		{"unknown arg", []string{"clockwork", "bogus"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			os.Args = tt.args
			defer func() { os.Args = oldArgs }()

			if got := isCLIMode(); got != tt.want {
				t.Errorf("isCLIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"clockwork"}, false},
		{"help flag", []string{"clockwork", "--help"}, true},
		{"help command", []string{"clockwork", "help"}, true},
		{"version flag", []string{"clockwork", "--version"}, true},
		{"subcommand", []string{"clockwork", "dump"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			os.Args = tt.args
			defer func() { os.Args = oldArgs }()

			if got := isHelpOrVersion(); got != tt.want {
				t.Errorf("isHelpOrVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}
