// =============================================================================
// Floor Plan Filler - Office Suite Discovery
// =============================================================================
//
// PDF output is produced by an installed office suite (LibreOffice) running
// headless. This file finds its executable:
//   1. A user supplied override, if it exists
//   2. A previous hit, while it still exists
//   3. The executable names below, searched on PATH
//   4. The default install locations below
//
// Host specific knowledge lives only in the searchTable. Not finding the
// suite is not fatal: spreadsheet output keeps working.
//
// =============================================================================

package officeconv

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/ginjaninja78/floorplan-filler/pkg/utils"
)

// DownloadURL is shown to users who have no office suite installed.
const DownloadURL = "https://www.libreoffice.org/download/download-libreoffice/"

// ErrConverterNotFound means no converter executable could be located.
var ErrConverterNotFound = errors.New("office suite executable not found")

// SearchEntry lists where to look on one operating system.
type SearchEntry struct {
	// Names are looked up on PATH.
	Names []string

	// Paths are default install locations checked in order.
	Paths []string
}

// searchTable is keyed by runtime.GOOS.
var searchTable = map[string]SearchEntry{
	"windows": {
		Names: []string{"soffice.exe"},
		Paths: []string{
			`C:\Program Files\LibreOffice\program\soffice.exe`,
			`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
		},
	},
	"darwin": {
		Names: []string{"soffice"},
		Paths: []string{
			"/Applications/LibreOffice.app/Contents/MacOS/soffice",
		},
	},
	"linux": {
		Names: []string{"soffice", "libreoffice"},
		Paths: []string{
			"/usr/bin/soffice",
			"/usr/lib/libreoffice/program/soffice",
			"/opt/libreoffice/program/soffice",
			"/snap/bin/libreoffice",
		},
	},
}

// Locator finds the converter executable.
type Locator struct {
	// GOOS selects the searchTable entry. Defaults to runtime.GOOS.
	GOOS string

	// LookPath searches PATH. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)

	// Exists reports whether a file exists. Defaults to utils.FileExists.
	Exists func(path string) bool

	// Table overrides searchTable, mostly for tests.
	Table map[string]SearchEntry

	mu     sync.Mutex
	cached string
}

// NewLocator returns a Locator for the current host.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate searches the host for the converter. It has no side effects.
func (l *Locator) Locate() (string, bool) {
	entry, ok := l.table()[l.goos()]
	if !ok {
		return "", false
	}

	for _, name := range entry.Names {
		if path, err := l.lookPath(name); err == nil && path != "" {
			return path, true
		}
	}
	for _, path := range entry.Paths {
		if l.exists(path) {
			return path, true
		}
	}

	return "", false
}

// Resolve returns the executable to use. A non-empty override must exist;
// otherwise the last hit is reused while it exists, then Locate runs.
//
// RETURNS:
//   - The executable path.
//   - ErrConverterNotFound (possibly wrapped) when nothing usable exists.
func (l *Locator) Resolve(override string) (string, error) {
	if override != "" {
		if !l.exists(override) {
			return "", fmt.Errorf("%w: %s does not exist", ErrConverterNotFound, override)
		}
		l.remember(override)
		return override, nil
	}

	l.mu.Lock()
	cached := l.cached
	l.mu.Unlock()
	if cached != "" && l.exists(cached) {
		return cached, nil
	}

	path, ok := l.Locate()
	if !ok {
		return "", ErrConverterNotFound
	}
	l.remember(path)
	return path, nil
}

func (l *Locator) remember(path string) {
	l.mu.Lock()
	l.cached = path
	l.mu.Unlock()
}

func (l *Locator) goos() string {
	if l.GOOS != "" {
		return l.GOOS
	}
	return runtime.GOOS
}

func (l *Locator) table() map[string]SearchEntry {
	if l.Table != nil {
		return l.Table
	}
	return searchTable
}

func (l *Locator) lookPath(file string) (string, error) {
	if l.LookPath != nil {
		return l.LookPath(file)
	}
	return exec.LookPath(file)
}

func (l *Locator) exists(path string) bool {
	if l.Exists != nil {
		return l.Exists(path)
	}
	return utils.FileExists(path)
}
