package dicom

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/tlacroix/dicomsynth/internal/image"
	"github.com/tlacroix/dicomsynth/internal/util"
)

// GeneratorOptions contains all parameters needed to generate a study.
type GeneratorOptions struct {
	NumImages int
	TotalSize string
	OutputDir string
	Seed      int64
	Workers   int // Number of parallel workers (0 = auto-detect based on CPU cores)

	// Label burns a "File N/M" overlay into each frame.
	Label bool
	// RealisticNames swaps the TEST^PATIENT^nnnn default for name-list names.
	RealisticNames bool

	// Output control
	Quiet            bool                     // Suppress progress output
	ProgressCallback func(current, total int) // Optional callback for progress updates
}

// GeneratedFile describes one instance file written during a run.
type GeneratedFile struct {
	Path           string
	StudyUID       string
	SeriesUID      string
	SOPInstanceUID string
	PatientID      string
	StudyID        string
	SeriesNumber   int
	InstanceNumber int
	Size           int64
}

// imageTask contains everything one worker needs to synthesize and write a
// single instance file.
type imageTask struct {
	index     int // 1-based instance number
	record    *InstanceRecord
	pixelSeed uint64
	filePath  string
	label     string
}

// generateImageFromTask fills in the task's pixel grid, encodes the record
// and writes it to disk. Returns the written file size.
func generateImageFromTask(task imageTask) (int64, error) {
	geo := task.record.Geometry
	pixels := image.GenerateSingleImage(geo.Width, geo.Height, int64(task.pixelSeed))
	if pixels == nil {
		return 0, fmt.Errorf("%w: cannot synthesize %dx%d frame", ErrEncoding, geo.Width, geo.Height)
	}
	if task.label != "" {
		image.DrawLabel(pixels, geo.Width, geo.Height, task.label)
	}
	task.record.Pixels = pixels

	f, err := task.record.File()
	if err != nil {
		return 0, err
	}
	if err := WriteFile(task.filePath, f); err != nil {
		return 0, err
	}
	// The task slice outlives the workers; drop the grid so a large run does
	// not hold every frame's pixels in memory at once.
	task.record.Pixels = nil
	info, err := os.Stat(task.filePath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// GenerateStudy generates one complete MR study: NumImages instance files
// sized to fill TotalSize, all sharing a single patient, study and series.
// Task construction is sequential so a given seed always yields the same
// identifiers and pixel content; only encoding and file I/O run in parallel.
func GenerateStudy(opts GeneratorOptions) ([]GeneratedFile, error) {
	if opts.NumImages <= 0 {
		return nil, fmt.Errorf("number of images must be > 0, got %d", opts.NumImages)
	}

	totalBytes, err := util.ParseSize(opts.TotalSize)
	if err != nil {
		return nil, fmt.Errorf("invalid size: %w", err)
	}

	geo, clamped, err := SolveDimensions(totalBytes, opts.NumImages)
	if err != nil {
		return nil, fmt.Errorf("solve dimensions: %w", err)
	}

	// The clamp changes the output contract (files come out smaller than
	// asked), so it is reported even in quiet mode.
	if clamped {
		slog.Warn("pixel budget clamped to DICOM element limit, output will be smaller than requested",
			"requested", opts.TotalSize, "width", geo.Width, "height", geo.Height)
	}
	if !opts.Quiet {
		fmt.Printf("Resolution: %dx%d pixels per image\n", geo.Width, geo.Height)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	// Set seed for reproducibility
	var seed int64
	if opts.Seed != 0 {
		seed = opts.Seed
		if !opts.Quiet {
			fmt.Printf("Using seed: %d\n", seed)
		}
	} else {
		// Derive a deterministic seed from the output directory name
		h := fnv.New64a()
		_, _ = h.Write([]byte(opts.OutputDir)) // hash.Write never returns an error
		seed = int64(h.Sum64())
		if !opts.Quiet {
			fmt.Printf("Auto-generated seed from '%s': %d\n", opts.OutputDir, seed)
			fmt.Println("  (same directory = same patient/study IDs)")
		}
	}

	rng := randv2.New(randv2.NewPCG(uint64(seed), uint64(seed)))

	ctx := NewStudyContext(rng, ContextOptions{
		UIDSeed:        opts.OutputDir,
		RealisticNames: opts.RealisticNames,
	})

	if !opts.Quiet {
		fmt.Printf("Generating %d DICOM files...\n", opts.NumImages)
		fmt.Printf("  Patient: %s (ID: %s, DOB: %s, Sex: %s)\n",
			ctx.PatientName, ctx.PatientID, ctx.PatientBirthDate, ctx.PatientSex)
		fmt.Printf("  StudyID: %s, Description: %s\n", ctx.StudyID, ctx.StudyDescription)
		fmt.Printf("  Scanner: %s %s (%.1fT)\n",
			ctx.Scanner.Manufacturer, ctx.Scanner.Model, ctx.Scanner.FieldStrength)
	}

	// Phase 1: build all tasks sequentially (maintains determinism)
	tasks := make([]imageTask, 0, opts.NumImages)
	for i := 1; i <= opts.NumImages; i++ {
		sopInstanceUID := util.GenerateDeterministicUID(
			fmt.Sprintf("%s_study_1_series_1_instance_%d", opts.OutputDir, i))

		pixelSeedHash := fnv.New64a()
		_, _ = fmt.Fprintf(pixelSeedHash, "%d_pixel_%d", seed, i)

		var label string
		if opts.Label {
			label = fmt.Sprintf("File %d/%d", i, opts.NumImages)
		}

		tasks = append(tasks, imageTask{
			index:     i,
			record:    NewInstanceRecord(ctx, geo, i, sopInstanceUID, nil),
			pixelSeed: pixelSeedHash.Sum64(),
			filePath:  filepath.Join(opts.OutputDir, fmt.Sprintf("IMG%04d.dcm", i)),
			label:     label,
		})
	}

	// Phase 2: process tasks in parallel
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}

	if !opts.Quiet {
		fmt.Printf("\nGenerating images with %d parallel workers...\n", numWorkers)
	}

	taskChan := make(chan imageTask, len(tasks))
	resultChan := make(chan struct {
		index int
		size  int64
		err   error
	}, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				size, err := generateImageFromTask(task)
				resultChan <- struct {
					index int
					size  int64
					err   error
				}{task.index, size, err}
			}
		}()
	}

	for _, task := range tasks {
		taskChan <- task
	}
	close(taskChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results and track progress
	sizes := make(map[int]int64, len(tasks))
	completed := 0
	var firstErr error
	for result := range resultChan {
		if result.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("generate image %d: %w", result.index, result.err)
		}
		sizes[result.index] = result.size
		completed++
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(completed, len(tasks))
		}
		if !opts.Quiet && (completed%10 == 0 || completed == len(tasks)) {
			progress := float64(completed) / float64(len(tasks)) * 100
			fmt.Printf("  Progress: %d/%d (%.0f%%)\n", completed, len(tasks), progress)
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}

	// Build result slice (in order)
	generatedFiles := make([]GeneratedFile, len(tasks))
	var totalWritten int64
	for i, task := range tasks {
		generatedFiles[i] = GeneratedFile{
			Path:           task.filePath,
			StudyUID:       ctx.StudyUID,
			SeriesUID:      ctx.SeriesUID,
			SOPInstanceUID: task.record.SOPInstanceUID,
			PatientID:      ctx.PatientID,
			StudyID:        ctx.StudyID,
			SeriesNumber:   ctx.SeriesNumber,
			InstanceNumber: task.index,
			Size:           sizes[task.index],
		}
		totalWritten += sizes[task.index]
	}

	// DICOMDIR failures leave the instance files intact, so report and move on.
	if err := BuildDICOMDIR(opts.OutputDir, generatedFiles); err != nil {
		slog.Error("could not build DICOMDIR", "error", err)
	} else if !opts.Quiet {
		fmt.Println("✓ DICOMDIR index created")
	}

	if !opts.Quiet {
		fmt.Printf("\n✓ %d DICOM files (%s) created in: %s/\n",
			opts.NumImages, humanize.IBytes(uint64(totalWritten)), opts.OutputDir)
	}

	return generatedFiles, nil
}
