package teams

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"ligapro-predictor/internal/config"
	"ligapro-predictor/internal/domain"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed teams.yaml
var defaultTable []byte

var ErrUnknownTeam = errors.New("unknown team")

// Directory is the static team table. Enumeration order is the order of the table.
type Directory struct {
	teams      []domain.Team
	index      map[string]int
	assetsBase string
}

type table struct {
	Teams []domain.Team `yaml:"teams"`
}

func New(cfg *config.Config, logger zerolog.Logger) (*Directory, error) {
	raw := defaultTable
	source := "embedded"
	if cfg.TeamsFile != "" {
		b, err := os.ReadFile(cfg.TeamsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read teams file: %w", err)
		}
		raw = b
		source = cfg.TeamsFile
	}

	d, err := Parse(raw, cfg.AssetsBase)
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("failed to load team table")
		return nil, err
	}

	logger.Info().Str("source", source).Int("teams", len(d.teams)).Msg("team table loaded")
	return d, nil
}

func Parse(raw []byte, assetsBase string) (*Directory, error) {
	var t table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse team table: %w", err)
	}
	if len(t.Teams) < 2 {
		return nil, fmt.Errorf("team table needs at least 2 teams, got %d", len(t.Teams))
	}

	d := &Directory{
		teams:      t.Teams,
		index:      make(map[string]int, len(t.Teams)),
		assetsBase: assetsBase,
	}
	codes := make(map[int]string, len(t.Teams))
	for i, team := range t.Teams {
		if team.Name == "" {
			return nil, fmt.Errorf("team at position %d has no name", i)
		}
		if _, dup := d.index[team.Name]; dup {
			return nil, fmt.Errorf("duplicate team name %q", team.Name)
		}
		if other, dup := codes[team.Code]; dup {
			return nil, fmt.Errorf("teams %q and %q share code %d", other, team.Name, team.Code)
		}
		d.index[team.Name] = i
		codes[team.Code] = team.Name
	}
	return d, nil
}

func (d *Directory) Names() []string {
	names := make([]string, len(d.teams))
	for i, t := range d.teams {
		names[i] = t.Name
	}
	return names
}

func (d *Directory) Lookup(name string) (domain.Team, bool) {
	i, ok := d.index[name]
	if !ok {
		return domain.Team{}, false
	}
	return d.teams[i], true
}

func (d *Directory) Code(name string) (int, error) {
	t, ok := d.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTeam, name)
	}
	return t.Code, nil
}

// LogoURL returns "" for unknown names; the page hides the image in that case.
func (d *Directory) LogoURL(name string) string {
	t, ok := d.Lookup(name)
	if !ok || t.LogoFile == "" {
		return ""
	}
	return d.assetsBase + t.LogoFile
}

// Next returns the team after name, wrapping to the first. Unknown names yield the first team.
func (d *Directory) Next(name string) string {
	i, ok := d.index[name]
	if !ok {
		return d.teams[0].Name
	}
	return d.teams[(i+1)%len(d.teams)].Name
}
