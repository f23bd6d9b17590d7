// Package manifest records the figures produced by a run next to them as
// manifest.json.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/google/uuid"
)

const manifestFileName = "manifest.json"

// Run describes the output directory of one invocation.
type Run struct {
	ID        string    `json:"id"`
	Data      string    `json:"data"`
	Figures   []*Figure `json:"figures"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Not serialized: directory holding the figures and manifest.json
	dir string `json:"-"`
}

// Scan lists the PNG files directly under dir, sorted by name, as a new run
// over dataPath. Call Save to persist.
func Scan(dir, dataPath string) (*Run, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan figures: %w", err)
	}
	now := time.Now()
	r := &Run{
		ID:        uuid.NewString(),
		Data:      dataPath,
		Figures:   []*Figure{},
		CreatedAt: now,
		UpdatedAt: now,
		dir:       dir,
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		r.Figures = append(r.Figures, &Figure{
			ID:        uuid.NewString(),
			Name:      e.Name(),
			Path:      filepath.Join(dir, e.Name()),
			Bytes:     info.Size(),
			WrittenAt: info.ModTime(),
		})
	}
	sort.Slice(r.Figures, func(i, j int) bool { return r.Figures[i].Name < r.Figures[j].Name })
	return r, nil
}

// Load reads manifest.json from dir.
func Load(dir string) (*Run, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	r.dir = dir
	return &r, nil
}

// Dir returns the directory the run describes.
func (r *Run) Dir() string { return r.dir }

// Path is the location of manifest.json.
func (r *Run) Path() string { return filepath.Join(r.dir, manifestFileName) }

// Save writes manifest.json using atomic write.
func (r *Run) Save() error {
	if r.dir == "" {
		return errors.New("manifest directory not set")
	}
	if _, err := utils.EnsureDir(r.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	r.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(r, "  ")
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(r.Path(), data)
}

// TotalBytes sums the figure sizes.
func (r *Run) TotalBytes() int64 {
	var n int64
	for _, f := range r.Figures {
		n += f.Bytes
	}
	return n
}
