// Package validation checks user input before it reaches the filesystem or
// an outbound URL: output paths written by the CLI, input files it reads, and
// diagram type identifiers that become part of the rendering service path.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateOutputPath validates a path the rendered diagram will be written to.
// Returns error if the path is empty, contains a parent-directory segment, or
// its directory does not exist or is not writable.
func ValidateOutputPath(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	if hasParentSegment(outputPath) {
		return fmt.Errorf("path traversal detected in output path: %s", outputPath)
	}

	absPath, err := filepath.Abs(filepath.Clean(outputPath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	dir := filepath.Dir(absPath)
	dirInfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to access output directory: %w", err)
	}
	if !dirInfo.IsDir() {
		return fmt.Errorf("output path parent is not a directory: %s", dir)
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", absPath)
	}

	// Probe writability with a throwaway file
	probe, err := os.CreateTemp(dir, ".textdiagram_write_test*")
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}

// ValidateInputFile validates a file the CLI reads from, such as previously
// generated diagram code.
func ValidateInputFile(inputPath string) error {
	if inputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}

	cleanPath := filepath.Clean(inputPath)
	if !filepath.IsAbs(inputPath) && strings.HasPrefix(cleanPath, "..") {
		return fmt.Errorf("potentially unsafe path detected: %s", inputPath)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input path does not exist: %s", cleanPath)
		}
		return fmt.Errorf("failed to access input path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path must be a file: %s", cleanPath)
	}

	return nil
}

func hasParentSegment(p string) bool {
	for _, part := range strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	}) {
		if part == ".." {
			return true
		}
	}
	return false
}
