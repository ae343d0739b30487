// Package wizard provides an interactive form to configure a generation run.
package wizard

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tlacroix/dicomsynth/internal/config"
	"github.com/tlacroix/dicomsynth/internal/util"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Run shows the configuration form and returns the resulting run config.
// Returns (nil, nil) when the user aborts the form.
func Run() (*config.RunConfig, error) {
	numImages := "10"
	totalSize := "100MB"
	outputDir := "dicom_study"
	seed := "0"
	label := false
	realisticNames := false

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Number of images").
				Description("How many DICOM instance files to generate").
				Value(&numImages).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive integer")
					}
					return nil
				}),
			huh.NewInput().
				Title("Total size").
				Description("Target size of the whole study, e.g. 100MB or 4.5GB").
				Value(&totalSize).
				Validate(func(s string) error {
					_, err := util.ParseSize(s)
					return err
				}),
			huh.NewInput().
				Title("Output directory").
				Value(&outputDir).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Seed").
				Description("0 derives a seed from the output directory name").
				Value(&seed).
				Validate(func(s string) error {
					_, err := strconv.ParseInt(s, 10, 64)
					if err != nil {
						return fmt.Errorf("must be an integer")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Burn 'File N/M' label into each image?").
				Value(&label),
			huh.NewConfirm().
				Title("Use realistic patient names?").
				Description("Default is TEST^PATIENT^nnnn").
				Value(&realisticNames),
		),
	)

	fmt.Println(titleStyle.Render("dicomsynth wizard"))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	n, _ := strconv.Atoi(numImages)
	s, _ := strconv.ParseInt(seed, 10, 64)

	cfg := &config.RunConfig{
		NumImages:      n,
		TotalSize:      totalSize,
		OutputDir:      outputDir,
		Seed:           s,
		Label:          label,
		RealisticNames: realisticNames,
	}

	fmt.Println(summaryStyle.Render(fmt.Sprintf(
		"Generating %d images (%s) into %s (seed %d)",
		cfg.NumImages, cfg.TotalSize, cfg.OutputDir, cfg.Seed)))

	return cfg, nil
}
