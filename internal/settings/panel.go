package settings

import (
	"fmt"
	"slices"
	"sync"

	"github.com/agent-racer/multiplayer/internal/delegate"
	"go.uber.org/zap"
)

// Panel is the editable form over the applied settings. Edits to the form
// fields take effect on Save; quality changes apply immediately.
type Panel struct {
	store  *Store
	logger *zap.Logger

	// OnApply fires with the new settings whenever they are applied.
	OnApply delegate.Multicast[Settings]

	mu          sync.Mutex
	applied     Settings
	resolution  string
	windowMode  int
	volume      float64
	sensitivity float64
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) PanelOption {
	return func(p *Panel) { p.logger = l }
}

// NewPanel loads the stored settings into a new panel.
func NewPanel(store *Store, opts ...PanelOption) (*Panel, error) {
	p := &Panel{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading panel: %w", err)
	}
	p.applied = st
	p.resetForm()
	return p, nil
}

// Applied returns the settings currently in effect.
func (p *Panel) Applied() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied
}

// Reset discards unsaved form edits.
func (p *Panel) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetForm()
}

func (p *Panel) resetForm() {
	p.resolution = p.applied.Resolution.String()
	p.windowMode = p.applied.WindowMode.Index()
	p.volume = p.applied.MasterVolume
	p.sensitivity = p.applied.MouseSensitivity
}

// ResolutionOptions lists the selectable resolutions, with the applied one
// included even when it is not a standard mode.
func (p *Panel) ResolutionOptions() []string {
	p.mu.Lock()
	cur := p.applied.Resolution.String()
	p.mu.Unlock()

	var opts []string
	for _, r := range SupportedResolutions() {
		opts = append(opts, r.String())
	}
	if !slices.Contains(opts, cur) {
		opts = append(opts, cur)
	}
	return opts
}

// SelectedResolution returns the resolution text in the form.
func (p *Panel) SelectedResolution() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolution
}

// SelectResolution sets the resolution text. It is validated on Save.
func (p *Panel) SelectResolution(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolution = s
}

// WindowModeIndex returns the selected window mode position.
func (p *Panel) WindowModeIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.windowMode
}

// SelectWindowMode sets the selected window mode position.
func (p *Panel) SelectWindowMode(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.windowMode = i
}

// Volume returns the master volume slider value.
func (p *Panel) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume moves the master volume slider.
func (p *Panel) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampUnit(v)
}

// Sensitivity returns the mouse sensitivity slider value.
func (p *Panel) Sensitivity() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sensitivity
}

// SetSensitivity moves the mouse sensitivity slider.
func (p *Panel) SetSensitivity(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sensitivity = clampUnit(v)
}

// SetQuality applies and persists an overall quality level.
func (p *Panel) SetQuality(level int) error {
	p.mu.Lock()
	before := p.applied.Quality
	p.applied.Quality = clampQuality(level)
	st := p.applied
	p.mu.Unlock()

	p.logger.Info("quality changed",
		zap.Stringer("resolution", st.Resolution),
		zap.Int("from", before),
		zap.Int("to", st.Quality))
	return p.apply(st)
}

// Save validates the form and applies it. An unparsable resolution keeps
// the current one; every other field is still applied.
func (p *Panel) Save() error {
	p.mu.Lock()
	st := p.applied
	if r, err := ParseResolution(p.resolution); err == nil {
		st.Resolution = r
	} else {
		p.logger.Warn("keeping resolution", zap.Error(err))
	}
	st.WindowMode = WindowModeFromIndex(p.windowMode)
	st.MasterVolume = clampUnit(p.volume)
	st.MouseSensitivity = clampUnit(p.sensitivity)
	p.applied = st
	p.resetForm()
	p.mu.Unlock()

	p.logger.Info("saving settings",
		zap.Stringer("resolution", st.Resolution),
		zap.String("window_mode", string(st.WindowMode)),
		zap.Float64("master_volume", st.MasterVolume),
		zap.Float64("mouse_sensitivity", st.MouseSensitivity))
	return p.apply(st)
}

func (p *Panel) apply(st Settings) error {
	if err := p.store.Save(st); err != nil {
		return fmt.Errorf("applying settings: %w", err)
	}
	p.OnApply.Broadcast(st)
	return nil
}
