package ambience

import (
	"context"
	"math"
	"sync"
	"time"

	"ligapro-predictor/internal/config"
	"ligapro-predictor/internal/constants"

	"github.com/rs/zerolog"
)

var backgrounds = []string{
	"liga_campeon2023.jpeg",
	"idvcampeon.jpeg",
	"monumental.jpg",
	"monumental_centenario.jpg",
	"monumetal_dia.jpg",
	"barcelona.jpg",
}

const musicFile = "background-music.mp3"

// Slideshow rotates the page background through a fixed image list.
type Slideshow struct {
	mu       sync.RWMutex
	images   []string
	idx      int
	interval time.Duration
	logger   zerolog.Logger
}

func NewSlideshow(cfg *config.Config, logger zerolog.Logger) *Slideshow {
	images := make([]string, len(backgrounds))
	for i, f := range backgrounds {
		images[i] = cfg.AssetsBase + f
	}
	return newSlideshow(images, constants.SlideshowInterval, logger)
}

func newSlideshow(images []string, interval time.Duration, logger zerolog.Logger) *Slideshow {
	return &Slideshow{images: images, interval: interval, logger: logger}
}

func (s *Slideshow) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.images) == 0 {
		return ""
	}
	return s.images[s.idx]
}

func (s *Slideshow) Advance() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) == 0 {
		return ""
	}
	s.idx = (s.idx + 1) % len(s.images)
	return s.images[s.idx]
}

// Run advances the slideshow every interval until ctx is done.
func (s *Slideshow) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Msg("slideshow stopped")
			return
		case <-ticker.C:
			img := s.Advance()
			s.logger.Debug().Str("image", img).Msg("background advanced")
		}
	}
}

type Music struct {
	mu     sync.RWMutex
	src    string
	volume float64
}

func NewMusic(cfg *config.Config) *Music {
	m := &Music{src: cfg.AssetsBase + musicFile}
	m.SetVolume(cfg.MusicVolume)
	return m
}

func (m *Music) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// SetVolume clamps v into [0,1] and returns the stored value. NaN is treated as 0.
func (m *Music) SetVolume(v float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(0, math.Min(1, v))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
	return v
}

type Snapshot struct {
	Background   string  `json:"background"`
	TransitionMS int64   `json:"transition_ms"`
	IntervalMS   int64   `json:"interval_ms"`
	MusicSrc     string  `json:"music_src"`
	MusicVolume  float64 `json:"music_volume"`
	MusicLoop    bool    `json:"music_loop"`
	Autoplay     bool    `json:"autoplay"`
}

func Describe(s *Slideshow, m *Music) Snapshot {
	m.mu.RLock()
	src := m.src
	m.mu.RUnlock()
	return Snapshot{
		Background:   s.Current(),
		TransitionMS: constants.SlideshowTransition.Milliseconds(),
		IntervalMS:   s.interval.Milliseconds(),
		MusicSrc:     src,
		MusicVolume:  m.Volume(),
		MusicLoop:    true,
		Autoplay:     true,
	}
}
