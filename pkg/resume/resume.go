// Package resume checks the file uploaded on the resume step before a run
// starts, so a bad path fails fast instead of midway through an application.
package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrNotRegular is returned when the resume path is a directory or device.
	ErrNotRegular = errors.New("resume: not a regular file")

	// ErrInvalidPDF is returned when a .pdf file fails structural validation.
	ErrInvalidPDF = errors.New("resume: invalid pdf")
)

var disableConfigDir sync.Once

// Check verifies that path names a readable regular file. Files with a .pdf
// extension must also pass pdfcpu validation; other formats are accepted as is.
func Check(path string) error {
	if path == "" {
		return errors.New("resume: path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil
	}

	// pdfcpu would otherwise create a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPDF, path, err)
	}
	return nil
}
