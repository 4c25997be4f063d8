// Package storage persists rendered scenarios and the outcome ledger.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/gprpipe/internal/render"
	"github.com/san-kum/gprpipe/internal/scenario"
)

const (
	InputExt    = ".in"
	MetadataExt = ".json"
)

// Store writes one solver input and one metadata file per scenario into a
// flat output folder.
type Store struct {
	baseDir  string
	renderer *render.Renderer
	log      logrus.FieldLogger
}

func New(baseDir string, r *render.Renderer, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{baseDir: baseDir, renderer: r, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Metadata is the JSON sidecar written next to each input file.
type Metadata struct {
	Filename  string                 `json:"filename"`
	SweepID   string                 `json:"sweep_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Set       *scenario.ParameterSet `json:"parameters"`
}

// Save renders set and writes <geometry_filename>.in and .json. It returns
// the path of the input file.
func (s *Store) Save(sweepID string, set *scenario.ParameterSet) (string, error) {
	if s.renderer == nil {
		return "", errors.New("storage: no renderer configured")
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, set); err != nil {
		return "", err
	}

	inPath := filepath.Join(s.baseDir, set.GeometryFilename+InputExt)
	if err := os.WriteFile(inPath, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	meta := Metadata{
		Filename:  set.GeometryFilename,
		SweepID:   sweepID,
		Timestamp: time.Now(),
		Set:       set,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.baseDir, set.GeometryFilename+MetadataExt), data, 0644); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{"file": inPath, "sweep": sweepID}).Debug("scenario written")
	return inPath, nil
}

// List returns the metadata of every stored scenario, sorted by filename.
// Unreadable sidecars are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	runs := make([]Metadata, 0)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != MetadataExt {
			continue
		}
		meta, err := s.Load(strings.TrimSuffix(entry.Name(), MetadataExt))
		if err != nil {
			s.log.WithField("file", entry.Name()).WithError(err).Warn("skipping unreadable metadata")
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Filename < runs[j].Filename })
	return runs, nil
}

func (s *Store) Load(filename string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, filename+MetadataExt))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Inputs returns the paths of every solver input file, sorted.
func (s *Store) Inputs() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.baseDir, "*"+InputExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
