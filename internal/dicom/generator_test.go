package dicom

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateStudy_EndToEnd(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "study")
	opts := GeneratorOptions{
		NumImages: 5,
		TotalSize: "5MB",
		OutputDir: outputDir,
		Seed:      42,
		Quiet:     true,
	}

	files, err := GenerateStudy(opts)
	if err != nil {
		t.Fatalf("GenerateStudy failed: %v", err)
	}
	if len(files) != 5 {
		t.Fatalf("Expected 5 generated files, got %d", len(files))
	}

	for i, f := range files {
		if f.InstanceNumber != i+1 {
			t.Errorf("File %d has instance number %d", i, f.InstanceNumber)
		}
		if filepath.Base(f.Path) != fmt.Sprintf("IMG%04d.dcm", i+1) {
			t.Errorf("Unexpected file name %s", filepath.Base(f.Path))
		}
		info, err := os.Stat(f.Path)
		if err != nil {
			t.Fatalf("Generated file missing: %v", err)
		}
		if info.Size() != f.Size {
			t.Errorf("Reported size %d differs from on-disk %d", f.Size, info.Size())
		}
		if info.Size() < 128*128*2 {
			t.Errorf("File %s suspiciously small: %d bytes", f.Path, info.Size())
		}
	}

	if _, err := os.Stat(filepath.Join(outputDir, "DICOMDIR")); err != nil {
		t.Errorf("Run did not produce a DICOMDIR index: %v", err)
	}
}

func TestGenerateImageFromTask_ReleasesPixels(t *testing.T) {
	rec := testRecord(t, 128, 128)
	rec.Pixels = nil

	task := imageTask{
		index:     1,
		record:    rec,
		pixelSeed: 7,
		filePath:  filepath.Join(t.TempDir(), "IMG0001.dcm"),
	}
	size, err := generateImageFromTask(task)
	if err != nil {
		t.Fatalf("generateImageFromTask failed: %v", err)
	}
	if size < 128*128*2 {
		t.Errorf("Written file suspiciously small: %d bytes", size)
	}
	if rec.Pixels != nil {
		t.Errorf("Record still references %d pixel samples after its file was written", len(rec.Pixels))
	}
}

func TestGenerateStudy_SharedStudyIdentity(t *testing.T) {
	opts := GeneratorOptions{
		NumImages: 4,
		TotalSize: "4MB",
		OutputDir: filepath.Join(t.TempDir(), "study"),
		Seed:      7,
		Quiet:     true,
	}

	files, err := GenerateStudy(opts)
	if err != nil {
		t.Fatalf("GenerateStudy failed: %v", err)
	}

	sopUIDs := make(map[string]bool)
	for _, f := range files {
		if f.StudyUID != files[0].StudyUID {
			t.Error("All instances must share one StudyUID")
		}
		if f.SeriesUID != files[0].SeriesUID {
			t.Error("All instances must share one SeriesUID")
		}
		if f.PatientID != files[0].PatientID {
			t.Error("All instances must share one PatientID")
		}
		if sopUIDs[f.SOPInstanceUID] {
			t.Errorf("Duplicate SOPInstanceUID %s", f.SOPInstanceUID)
		}
		sopUIDs[f.SOPInstanceUID] = true
	}
}

func TestGenerateStudy_SeedReproducibility(t *testing.T) {
	base := t.TempDir()

	run := func(dir string) []GeneratedFile {
		t.Helper()
		files, err := GenerateStudy(GeneratorOptions{
			NumImages: 3,
			TotalSize: "3MB",
			OutputDir: dir,
			Seed:      99,
			Quiet:     true,
		})
		if err != nil {
			t.Fatalf("GenerateStudy failed: %v", err)
		}
		return files
	}

	// Same seed, same output path: identical output after moving the first
	// run aside.
	dir := filepath.Join(base, "study")
	first := run(dir)
	moved := filepath.Join(base, "moved")
	if err := os.Rename(dir, moved); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	second := run(dir)

	for i := range first {
		a, err := os.ReadFile(filepath.Join(moved, filepath.Base(first[i].Path)))
		if err != nil {
			t.Fatalf("Read first run: %v", err)
		}
		b, err := os.ReadFile(second[i].Path)
		if err != nil {
			t.Fatalf("Read second run: %v", err)
		}
		if len(a) != len(b) {
			t.Fatalf("File %d size differs between runs", i)
		}
		if string(a) != string(b) {
			t.Errorf("File %d content differs between runs", i)
		}
	}
}

func TestGenerateStudy_DifferentSeedsDiffer(t *testing.T) {
	base := t.TempDir()

	files1, err := GenerateStudy(GeneratorOptions{
		NumImages: 2, TotalSize: "2MB", OutputDir: filepath.Join(base, "a"), Seed: 42, Quiet: true,
	})
	if err != nil {
		t.Fatalf("First generation failed: %v", err)
	}
	files2, err := GenerateStudy(GeneratorOptions{
		NumImages: 2, TotalSize: "2MB", OutputDir: filepath.Join(base, "b"), Seed: 99, Quiet: true,
	})
	if err != nil {
		t.Fatalf("Second generation failed: %v", err)
	}

	if files1[0].PatientID == files2[0].PatientID {
		t.Error("Different seeds should produce different PatientIDs")
	}
}

func TestGenerateStudy_InvalidInputs(t *testing.T) {
	if _, err := GenerateStudy(GeneratorOptions{NumImages: 0, TotalSize: "1MB", OutputDir: t.TempDir(), Quiet: true}); err == nil {
		t.Error("Expected error for zero images")
	}
	if _, err := GenerateStudy(GeneratorOptions{NumImages: 1, TotalSize: "100TB", OutputDir: t.TempDir(), Quiet: true}); err == nil {
		t.Error("Expected error for unsupported size unit")
	}
	if _, err := GenerateStudy(GeneratorOptions{NumImages: 1, TotalSize: "50KB", OutputDir: t.TempDir(), Quiet: true}); err == nil {
		t.Error("Expected error for budget below metadata overhead")
	}
}

func TestGenerateStudy_ClampReportedWhenQuiet(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	// Block directory creation so the run stops right after the budget is
	// solved; the clamp must already be on the log by then.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := GenerateStudy(GeneratorOptions{
		NumImages: 1,
		TotalSize: "100GB",
		OutputDir: filepath.Join(blocker, "study"),
		Quiet:     true,
	})
	if err == nil {
		t.Fatal("Expected directory creation to fail")
	}
	if !strings.Contains(buf.String(), "clamped") {
		t.Errorf("Clamp not reported in quiet mode, log: %q", buf.String())
	}
}

func TestGenerateStudy_WorkersDoNotChangeOutput(t *testing.T) {
	base := t.TempDir()

	run := func(dir string, workers int) {
		t.Helper()
		_, err := GenerateStudy(GeneratorOptions{
			NumImages: 4,
			TotalSize: "4MB",
			OutputDir: dir,
			Seed:      11,
			Workers:   workers,
			Quiet:     true,
		})
		if err != nil {
			t.Fatalf("GenerateStudy failed: %v", err)
		}
	}

	dir := filepath.Join(base, "study")
	run(dir, 1)
	moved := filepath.Join(base, "serial")
	if err := os.Rename(dir, moved); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	run(dir, 4)

	for i := 1; i <= 4; i++ {
		name := fmt.Sprintf("IMG%04d.dcm", i)
		a, err := os.ReadFile(filepath.Join(moved, name))
		if err != nil {
			t.Fatalf("Read serial run: %v", err)
		}
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Read parallel run: %v", err)
		}
		if string(a) != string(b) {
			t.Errorf("%s differs between worker counts", name)
		}
	}
}
