package replay

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the file LoadDir expects in a snapshot directory.
const ManifestFile = "manifest.yaml"

// Manifest lists the snapshots of a directory.
//
//	pages:
//	  - url: https://www.linkedin.com/jobs/view/123/
//	    file: posting.html
type Manifest struct {
	Pages []ManifestPage `yaml:"pages"`
}

// ManifestPage maps a URL to an HTML file relative to the manifest.
type ManifestPage struct {
	URL  string `yaml:"url"`
	File string `yaml:"file"`
}

// LoadDir builds a replay browser from dir/manifest.yaml.
func LoadDir(dir string) (*Browser, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("replay: read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("replay: parse manifest: %w", err)
	}
	if len(m.Pages) == 0 {
		return nil, fmt.Errorf("replay: manifest in %s lists no pages", dir)
	}

	pages := make([]Page, 0, len(m.Pages))
	for i, p := range m.Pages {
		if p.URL == "" || p.File == "" {
			return nil, fmt.Errorf("replay: manifest page %d needs both url and file", i)
		}
		body, err := os.ReadFile(filepath.Join(dir, p.File))
		if err != nil {
			return nil, fmt.Errorf("replay: read page %s: %w", p.File, err)
		}
		pages = append(pages, Page{URL: p.URL, HTML: string(body)})
	}
	return New(pages...), nil
}
