package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/stradaa/GraFT-analysis/pkg/config"
	"github.com/stradaa/GraFT-analysis/pkg/imgio"
	"github.com/stradaa/GraFT-analysis/pkg/mask"
	"github.com/stradaa/GraFT-analysis/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "graft.yaml", "Path to the YAML configuration file")
	inputDir := flag.String("input", "", "Directory containing the 2D recording frames (overrides config)")
	maskArg := flag.String("mask", "", "Mask: a method name (sigma, adaptive, otsu, triangle) or a mask image path (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *inputDir != "" {
		cfg.Dataset.InputDir = *inputDir
	}
	if cfg.Dataset.InputDir == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *maskArg != "" {
		cfg.Masking.Mask = maskFromFlag(*maskArg)
	}

	// Load the recording
	mov, err := imgio.LoadDirectory(cfg.Dataset.InputDir)
	if err != nil {
		log.Fatalf("Failed to load recording: %v", err)
	}
	if cfg.Output.Verbose {
		fmt.Printf("Loaded %d frames of %dx%d pixels\n", mov.Frames(), mov.Rows, mov.Cols)
	}

	// Resolve the mask against the data
	mcfg := &mask.Config{Spec: cfg.Masking.Mask.Spec}
	masked, warn, err := mask.Resolve(mcfg, mov)
	if warn != "" {
		log.Printf("warning: %s", warn)
	}
	if err != nil {
		log.Fatalf("Mask resolution failed: %v", err)
	}

	// A named method stores the computed mask without applying it; run a
	// second pass to select the masked pixels
	if masked == nil {
		if _, ok := mcfg.Spec.(mask.Explicit); ok {
			masked, _, err = mask.Resolve(mcfg, mov)
			if err != nil {
				log.Fatalf("Mask application failed: %v", err)
			}
		}
	}

	explicit, ok := mcfg.Spec.(mask.Explicit)
	if !ok {
		fmt.Println("No mask resolved; the recording is left unmasked")
		return
	}

	fmt.Printf("Resolved mask: %dx%d, %d pixels of interest\n",
		mcfg.Rows, mcfg.Cols, explicit.Grid.Count())

	if cfg.Output.MaskFile != "" {
		if err := imgio.SaveMaskPNG(explicit.Grid, cfg.Output.MaskFile); err != nil {
			log.Fatalf("Failed to save mask: %v", err)
		}
		if cfg.Output.Verbose {
			fmt.Printf("Mask saved to %s\n", cfg.Output.MaskFile)
		}
	}

	if cfg.Output.OverlayFile != "" {
		renderer, err := visualization.NewRenderer(mov)
		if err != nil {
			log.Fatalf("Failed to create renderer: %v", err)
		}
		if err := renderer.SaveOverlay(explicit.Grid, cfg.Output.OverlayFile); err != nil {
			log.Fatalf("Failed to save overlay: %v", err)
		}
		if cfg.Output.Verbose {
			fmt.Printf("Overlay saved to %s\n", cfg.Output.OverlayFile)
		}
	}

	if masked != nil && cfg.Output.MaskedDataFile != "" {
		if err := imgio.WriteMatrixCSV(masked, cfg.Output.MaskedDataFile); err != nil {
			log.Fatalf("Failed to save masked data: %v", err)
		}
		if cfg.Output.Verbose {
			pixels, frames := masked.Dims()
			fmt.Printf("Masked data (%d pixels x %d frames) saved to %s\n",
				pixels, frames, cfg.Output.MaskedDataFile)
		}
	}
}

// maskFromFlag interprets the -mask flag: an existing image file is loaded as
// an explicit mask, anything else is treated as a method name.
func maskFromFlag(arg string) mask.SpecValue {
	if isImagePath(arg) {
		if grid, err := imgio.LoadMaskPNG(arg); err == nil {
			return mask.SpecValue{Spec: mask.Explicit{Grid: grid}}
		}
		log.Printf("warning: could not load mask image %s, treating it as a method name", arg)
	}
	return mask.SpecValue{Spec: mask.Named{Method: arg}}
}

func isImagePath(arg string) bool {
	lower := strings.ToLower(arg)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"} {
		if strings.HasSuffix(lower, ext) {
			if _, err := os.Stat(arg); err == nil {
				return true
			}
		}
	}
	return false
}
