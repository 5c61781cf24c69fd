// =============================================================================
// Floor Plan Filler - File Manager Utility
// =============================================================================
//
// File helpers shared by the save paths:
//   - Temporary sibling names for intermediate spreadsheets
//   - Replacing an existing output file
//   - Best-effort removal of leftovers
//   - Default output names derived from the input report
//
// Temporary files are created next to their final destination so that the
// last step is a rename on the same filesystem.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// TempSibling returns a path in the same directory as target, named
// <stem>_temp_<id><ext>. The id is the first eight hex digits of a random
// UUID.
//
// EXAMPLE:
//
//	TempSibling("/out/plan.pdf", ".xlsx") -> "/out/plan_temp_1f3a9c2e.xlsx"
func TempSibling(target, ext string) string {
	dir, base := filepath.Split(target)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return filepath.Join(dir, fmt.Sprintf("%s_temp_%s%s", stem, id, ext))
}

// GenerateOutputFileName derives an output path from an input path: same
// directory, the stem plus suffix, and the given extension.
//
// EXAMPLE:
//
//	GenerateOutputFileName("/in/vendas.pdf", "_plano", ".xlsx") -> "/in/vendas_plano.xlsx"
func GenerateOutputFileName(inputPath, suffix, ext string) string {
	stem := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return stem + suffix + ext
}

// =============================================================================
// FILE REPLACEMENT
// =============================================================================

// ReplaceFile moves src to dst, replacing dst if it exists. When a plain
// rename is not possible (different volumes) the file is copied and src
// removed.
func ReplaceFile(src, dst string) error {
	if err := RemoveIfExists(dst); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s: %w", src, err)
	}
	return nil
}

// RemoveIfExists removes a file. A file that is already gone is not an
// error.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a regular file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
