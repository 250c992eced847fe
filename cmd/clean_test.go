package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAgedFile(t *testing.T, path string, age time.Duration) {
	t.Helper()

	if err := os.WriteFile(path, []byte("partial data"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	modTime := time.Now().Add(-age)
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("Failed to set file mtime: %v", err)
	}
}

func TestCleanPartials(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "clean-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	subDir := filepath.Join(tempDir, "nested")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	oldPartial := filepath.Join(tempDir, "stale.bin.partial")
	nestedPartial := filepath.Join(subDir, "deep.bin.partial")
	freshPartial := filepath.Join(tempDir, "inflight.bin.partial")
	regularFile := filepath.Join(tempDir, "complete.bin")

	writeAgedFile(t, oldPartial, 72*time.Hour)
	writeAgedFile(t, nestedPartial, 72*time.Hour)
	writeAgedFile(t, freshPartial, time.Minute)
	writeAgedFile(t, regularFile, 72*time.Hour)

	cutoff := time.Now().Add(-24 * time.Hour)

	result, err := cleanPartials(tempDir, cutoff, false)
	if err != nil {
		t.Fatalf("cleanPartials() error = %v", err)
	}

	if result.RemovedCount != 2 {
		t.Errorf("RemovedCount = %d, want %d", result.RemovedCount, 2)
	}

	if result.TotalSizeBytes != int64(2*len("partial data")) {
		t.Errorf("TotalSizeBytes = %d, want %d", result.TotalSizeBytes, 2*len("partial data"))
	}

	if _, err := os.Stat(oldPartial); !os.IsNotExist(err) {
		t.Errorf("Old partial file was not removed: %s", oldPartial)
	}

	if _, err := os.Stat(nestedPartial); !os.IsNotExist(err) {
		t.Errorf("Nested partial file was not removed: %s", nestedPartial)
	}

	if _, err := os.Stat(freshPartial); err != nil {
		t.Errorf("Fresh partial file should survive the cutoff: %v", err)
	}

	if _, err := os.Stat(regularFile); err != nil {
		t.Errorf("Regular file should never be touched: %v", err)
	}
}

func TestCleanPartialsDryRun(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "clean-dryrun-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	oldPartial := filepath.Join(tempDir, "stale.bin.partial")
	writeAgedFile(t, oldPartial, 72*time.Hour)

	cutoff := time.Now().Add(-24 * time.Hour)

	result, err := cleanPartials(tempDir, cutoff, true)
	if err != nil {
		t.Fatalf("cleanPartials() error = %v", err)
	}

	if result.RemovedCount != 1 {
		t.Errorf("RemovedCount = %d, want %d", result.RemovedCount, 1)
	}

	if !result.DryRun {
		t.Errorf("DryRun = false, want true")
	}

	if _, err := os.Stat(oldPartial); err != nil {
		t.Errorf("Dry run must not delete files: %v", err)
	}
}

func TestCleanPartialsMissingDirectory(t *testing.T) {
	_, err := cleanPartials(filepath.Join(os.TempDir(), "devsync-does-not-exist"), time.Now(), false)
	if err == nil {
		t.Errorf("cleanPartials() with missing directory should return error")
	}
}

func TestCleanDaysValidation(t *testing.T) {
	oldStdout := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w
	defer func() {
		w.Close()
		os.Stdout = oldStdout
	}()

	cleanCmd.SetArgs([]string{
		"--days", "0",
		"--confirm",
	})
	err := cleanCmd.Execute()

	if err != nil {
		t.Errorf("cleanCmd.Execute() with days=0 returned error: %v", err)
	}

	cleanCmd.SetArgs([]string{
		"--days", "-1",
		"--confirm",
	})
	err = cleanCmd.Execute()

	if err != nil {
		t.Errorf("cleanCmd.Execute() with days=-1 returned error: %v", err)
	}
}
