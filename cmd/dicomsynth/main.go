package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/tlacroix/dicomsynth/cmd/dicomsynth/wizard"
	"github.com/tlacroix/dicomsynth/internal/config"
	"github.com/tlacroix/dicomsynth/internal/dicom"
	"github.com/tlacroix/dicomsynth/internal/inspect"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Subcommands are handled before flag.Parse
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "wizard":
			runWizard()
			return
		case "inspect":
			runInspect(os.Args[2:])
			return
		}
	}

	numImages := flag.Int("num-images", 0, "Number of images/slices to generate (required)")
	totalSize := flag.String("total-size", "", "Total size (e.g., '100MB', '4.5GB') (required)")
	outputDir := flag.String("output", "dicom_study", "Output directory")
	seed := flag.Int64("seed", 0, "Seed for reproducibility (optional, auto-generated if not specified)")
	workers := flag.Int("workers", 0, fmt.Sprintf("Number of parallel workers (default: %d = CPU cores)", runtime.NumCPU()))
	label := flag.Bool("label", false, "Burn a 'File N/M' text overlay into each image")
	realisticNames := flag.Bool("realistic-names", false, "Use realistic patient names instead of TEST^PATIENT")
	quiet := flag.Bool("quiet", false, "Suppress progress output")

	interactive := flag.Bool("interactive", false, "Launch interactive wizard")
	flag.BoolVar(interactive, "i", false, "Launch interactive wizard (shortcut)")
	configFile := flag.String("config", "", "Load run configuration from YAML file")
	saveConfig := flag.String("save-config", "", "Save run configuration to YAML file (after generation)")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("dicomsynth %s\n", version)
		return
	}
	if *help {
		printHelp()
		return
	}
	if *interactive {
		runWizard()
		return
	}

	var opts dicom.GeneratorOptions
	if *configFile != "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		opts = cfg.GeneratorOptions()
		if !*quiet {
			fmt.Printf("Loading config from %s\n\n", *configFile)
		}
	} else {
		if *numImages <= 0 {
			fmt.Fprintf(os.Stderr, "Error: --num-images must be > 0\n")
			printUsage()
			os.Exit(1)
		}
		if *totalSize == "" {
			fmt.Fprintf(os.Stderr, "Error: --total-size is required\n")
			printUsage()
			os.Exit(1)
		}
		opts = dicom.GeneratorOptions{
			NumImages:      *numImages,
			TotalSize:      *totalSize,
			OutputDir:      *outputDir,
			Seed:           *seed,
			Workers:        *workers,
			Label:          *label,
			RealisticNames: *realisticNames,
		}
	}
	opts.Quiet = *quiet

	if !opts.Quiet {
		fmt.Println("dicomsynth")
		fmt.Println("==========")
		fmt.Println()
	}

	if _, err := dicom.GenerateStudy(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating study: %v\n", err)
		os.Exit(1)
	}

	if *saveConfig != "" {
		cfg := config.RunConfig{
			NumImages:      opts.NumImages,
			TotalSize:      opts.TotalSize,
			OutputDir:      opts.OutputDir,
			Seed:           opts.Seed,
			Workers:        opts.Workers,
			Label:          opts.Label,
			RealisticNames: opts.RealisticNames,
		}
		if err := cfg.Save(*saveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
		} else if !opts.Quiet {
			fmt.Printf("Configuration saved to %s\n", *saveConfig)
		}
	}

	if !opts.Quiet {
		fmt.Println("\n✓ Generation complete!")
		fmt.Printf("  Import directory: %s\n", opts.OutputDir)
	}
}

func runWizard() {
	cfg, err := wizard.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		// User aborted the form.
		return
	}

	if _, err := dicom.GenerateStudy(cfg.GeneratorOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating study: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n✓ Generation complete!")
	fmt.Printf("  Import directory: %s\n", cfg.OutputDir)
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	output := fs.String("output", "", "Write the JSON report to a file instead of stdout")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dicomsynth inspect [--output report.json] <dicom_directory>")
		os.Exit(1)
	}
	dir := fs.Arg(0)

	if _, err := os.Stat(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: directory %q does not exist\n", dir)
		os.Exit(1)
	}

	report, err := inspect.Extract(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := report.WriteJSON(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  dicomsynth --num-images <N> --total-size <SIZE> [options]")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("dicomsynth")
	fmt.Println("==========")
	fmt.Println()
	fmt.Println("Generate synthetic DICOM MRI studies for testing medical platforms.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dicomsynth --num-images <N> --total-size <SIZE> [options]")
	fmt.Println("  dicomsynth wizard")
	fmt.Println("  dicomsynth inspect <DIR>")
	fmt.Println()
	fmt.Println("Required arguments:")
	fmt.Println("  --num-images <N>      Number of DICOM images/slices to generate")
	fmt.Println("  --total-size <SIZE>   Total size (e.g., '100MB', '1GB', '4.5GB')")
	fmt.Println()
	fmt.Println("Optional arguments:")
	fmt.Println("  --output <DIR>        Output directory (default: 'dicom_study')")
	fmt.Println("  --seed <N>            Seed for reproducibility (auto-generated if not specified)")
	fmt.Printf("  --workers <N>         Number of parallel workers (default: %d = CPU cores)\n", runtime.NumCPU())
	fmt.Println("  --label               Burn a 'File N/M' text overlay into each image")
	fmt.Println("  --realistic-names     Use realistic patient names instead of TEST^PATIENT")
	fmt.Println("  --quiet               Suppress progress output")
	fmt.Println("  --config <FILE>       Load run configuration from YAML file")
	fmt.Println("  --save-config <FILE>  Save run configuration to YAML file after generation")
	fmt.Println("  --interactive, -i     Launch interactive wizard")
	fmt.Println("  --help                Show this help message")
	fmt.Println()
	fmt.Println("Subcommands:")
	fmt.Println("  wizard                Interactive form to configure and run a generation")
	fmt.Println("  inspect <DIR>         Parse generated files and print a JSON metadata report")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Generate 10 MR images, 100MB total")
	fmt.Println("  dicomsynth --num-images 10 --total-size 100MB")
	fmt.Println()
	fmt.Println("  # Generate 120 images, 4.5GB, with specific seed")
	fmt.Println("  dicomsynth --num-images 120 --total-size 4.5GB --seed 42")
	fmt.Println()
	fmt.Println("  # Replay a saved run")
	fmt.Println("  dicomsynth --config run.yaml")
	fmt.Println()
	fmt.Println("  # Check what a previous run produced")
	fmt.Println("  dicomsynth inspect dicom_study")
	fmt.Println()
	fmt.Println("Output:")
	fmt.Println("  The program creates one MR study with:")
	fmt.Println("  - IMG0001.dcm ... IMGnnnn.dcm instance files")
	fmt.Println("  - DICOMDIR index file")
	fmt.Println("  - Realistic scanner metadata (manufacturer, model, MR acquisition parameters)")
	fmt.Println()
	fmt.Println("Reproducibility:")
	fmt.Println("  Using the same seed ensures identical UIDs, metadata and pixel data across runs.")
	fmt.Println("  Same output directory name also generates consistent IDs.")
}
