// Package config loads the master configuration and the per map build settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/triangulate"
)

var ErrInvalid = errors.New("config: invalid")

// Voxelizer selects how polygon soup is produced for a map. Command wins
// over SoupDir when both are set.
type Voxelizer struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	// SoupDir holds precomputed <MAP>.soup.json or <MAP>.obj files.
	SoupDir string `yaml:"soupdir"`
}

// Master points at the directories the tool works in.
type Master struct {
	WadsPath    string           `yaml:"wadspath"`
	ConfigsPath string           `yaml:"configspath"`
	MeshPath    string           `yaml:"meshpath"`
	Voxelizer   Voxelizer        `yaml:"voxelizer"`
	Log         common.LogConfig `yaml:"log"`
}

// LoadMaster reads and validates the master config at path.
func LoadMaster(path string) (*Master, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Master
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Master) Save(path string) error {
	return writeYAML(path, m)
}

// Validate reports every missing or unusable directory at once.
func (m *Master) Validate() error {
	var err error
	for _, d := range []struct{ key, path string }{
		{"wadspath", m.WadsPath},
		{"configspath", m.ConfigsPath},
		{"meshpath", m.MeshPath},
	} {
		multierr.AppendInto(&err, checkDir(d.key, d.path))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func checkDir(key, path string) error {
	if path == "" {
		return fmt.Errorf("%s is not set", key)
	}
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %v", key, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%s: %s is not a directory", key, path)
	}
	return nil
}

var upper = cases.Upper(language.Und)

// LevelName normalizes a map name the way WAD files are named.
func LevelName(name string) string {
	return upper.String(strings.TrimSpace(name))
}

func (m *Master) WadPath(level string) string {
	return filepath.Join(m.WadsPath, LevelName(level)+".wad")
}

func (m *Master) MapConfigPath(level string) string {
	return filepath.Join(m.ConfigsPath, LevelName(level)+".yaml")
}

// MeshFile names an output file of a level in meshpath.
func (m *Master) MeshFile(level, ext string) string {
	return filepath.Join(m.MeshPath, LevelName(level)+ext)
}

// Maps lists the level names of the WAD files in wadspath, in directory order.
func (m *Master) Maps() ([]string, error) {
	entries, err := os.ReadDir(m.WadsPath)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !strings.EqualFold(ext, ".wad") {
			continue
		}
		out = append(out, LevelName(strings.TrimSuffix(e.Name(), ext)))
	}
	return out, nil
}

// Options are the voxelizer settings passed through to the external tool.
type Options struct {
	CellSize        float64 `yaml:"cellSize" json:"cellSize"`
	CellHeight      float64 `yaml:"cellHeight" json:"cellHeight"`
	AgentHeight     float64 `yaml:"agentHeight" json:"agentHeight"`
	AgentRadius     float64 `yaml:"agentRadius" json:"agentRadius"`
	AgentMaxClimb   float64 `yaml:"agentMaxClimb" json:"agentMaxClimb"`
	AgentMaxSlope   float64 `yaml:"agentMaxSlope" json:"agentMaxSlope"`
	RegionMinSize   float64 `yaml:"regionMinSize" json:"regionMinSize"`
	RegionMergeSize float64 `yaml:"regionMergeSize" json:"regionMergeSize"`
	EdgeMaxLen      float64 `yaml:"edgeMaxLen" json:"edgeMaxLen"`
	EdgeMaxError    float64 `yaml:"edgeMaxError" json:"edgeMaxError"`
}

// Map is the build configuration of one level.
type Map struct {
	Triangulation string  `yaml:"triangulation" json:"triangulation"`
	Options       Options `yaml:"options" json:"options"`
	MergeDistance float64 `yaml:"merge_distance" json:"merge_distance"`
	Solo          bool    `yaml:"solo" json:"solo"`
}

// Default matches DefaultTemplate.
func Default() *Map {
	return &Map{
		Triangulation: triangulate.StrategyTess,
		Options: Options{
			CellSize:        0.25,
			CellHeight:      0.1,
			AgentHeight:     1.0,
			AgentRadius:     0.5,
			AgentMaxClimb:   0.3,
			AgentMaxSlope:   40.0,
			RegionMinSize:   12.0,
			RegionMergeSize: 32.0,
			EdgeMaxLen:      16.0,
			EdgeMaxError:    2.5,
		},
		MergeDistance: 1.0,
		Solo:          true,
	}
}

// LoadMap reads the level config at path, writing DefaultTemplate there first
// when the file does not exist.
func LoadMap(path string, log *zap.Logger) (*Map, error) {
	log = common.OrNop(log)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("no map config found, writing the default", zap.String("path", path))
		data = []byte(DefaultTemplate)
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		return nil, err
	}
	c := &Map{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	c.Triangulation = strings.ToLower(c.Triangulation)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Map) Save(path string) error {
	return writeYAML(path, c)
}

// strategyAliases maps older names onto the built in strategies.
var strategyAliases = map[string]string{"libtess": triangulate.StrategyTess}

// Strategy is the triangulation strategy name understood by the triangulate package.
func (c *Map) Strategy() string {
	if s, ok := strategyAliases[c.Triangulation]; ok {
		return s
	}
	return c.Triangulation
}

// Validate reports every bad setting at once.
func (c *Map) Validate() error {
	var err error
	if !knownStrategy(c.Strategy()) {
		multierr.AppendInto(&err, fmt.Errorf("triangulation %q is not one of %s",
			c.Triangulation, strings.Join(triangulate.Strategies, ", ")))
	}
	o := c.Options
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"cellSize", o.CellSize},
		{"cellHeight", o.CellHeight},
		{"agentHeight", o.AgentHeight},
		{"agentRadius", o.AgentRadius},
		{"agentMaxClimb", o.AgentMaxClimb},
		{"edgeMaxError", o.EdgeMaxError},
	} {
		if f.v <= 0 {
			multierr.AppendInto(&err, fmt.Errorf("options.%s must be positive, got %v", f.key, f.v))
		}
	}
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"regionMinSize", o.RegionMinSize},
		{"regionMergeSize", o.RegionMergeSize},
		{"edgeMaxLen", o.EdgeMaxLen},
	} {
		if f.v < 0 {
			multierr.AppendInto(&err, fmt.Errorf("options.%s must not be negative, got %v", f.key, f.v))
		}
	}
	if o.AgentMaxSlope <= 0 || o.AgentMaxSlope >= 90 {
		multierr.AppendInto(&err, fmt.Errorf("options.agentMaxSlope must be in (0, 90), got %v", o.AgentMaxSlope))
	}
	if c.MergeDistance < 0 {
		multierr.AppendInto(&err, fmt.Errorf("merge_distance must not be negative, got %v", c.MergeDistance))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func knownStrategy(s string) bool {
	for _, k := range triangulate.Strategies {
		if k == s {
			return true
		}
	}
	return false
}

func writeYAML(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	defer multierr.AppendInvoke(&err, multierr.Close(enc))
	return enc.Encode(v)
}
