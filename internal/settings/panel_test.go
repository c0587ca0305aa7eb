package settings

import (
	"math"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestPanel(t *testing.T) (*Panel, *Store) {
	t.Helper()
	store := NewStore(t.TempDir())
	p, err := NewPanel(store, WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	return p, store
}

func TestPanelFormStartsFromApplied(t *testing.T) {
	p, _ := newTestPanel(t)
	d := Defaults()
	if p.SelectedResolution() != d.Resolution.String() {
		t.Errorf("SelectedResolution() = %q", p.SelectedResolution())
	}
	if p.WindowModeIndex() != d.WindowMode.Index() {
		t.Errorf("WindowModeIndex() = %d", p.WindowModeIndex())
	}
	if p.Volume() != d.MasterVolume || p.Sensitivity() != d.MouseSensitivity {
		t.Errorf("sliders = %v, %v", p.Volume(), p.Sensitivity())
	}
}

func TestPanelSaveAppliesAndPersists(t *testing.T) {
	p, store := newTestPanel(t)
	var applied []Settings
	p.OnApply.Add(func(s Settings) { applied = append(applied, s) })

	p.SelectResolution("1280x720")
	p.SelectWindowMode(0)
	p.SetVolume(0.4)
	p.SetSensitivity(0.9)
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := p.Applied()
	if got.Resolution != (Resolution{1280, 720}) || got.WindowMode != Fullscreen ||
		got.MasterVolume != 0.4 || got.MouseSensitivity != 0.9 {
		t.Errorf("Applied() = %+v", got)
	}
	if len(applied) != 1 || applied[0] != got {
		t.Errorf("OnApply calls = %+v", applied)
	}
	onDisk, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if onDisk != got {
		t.Errorf("stored = %+v, want %+v", onDisk, got)
	}
}

func TestPanelSaveKeepsResolutionOnBadText(t *testing.T) {
	p, _ := newTestPanel(t)
	before := p.Applied().Resolution

	p.SelectResolution("wide")
	p.SetVolume(0.1)
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := p.Applied()
	if got.Resolution != before {
		t.Errorf("Resolution = %v, want %v", got.Resolution, before)
	}
	if got.MasterVolume != 0.1 {
		t.Errorf("MasterVolume = %v, want 0.1", got.MasterVolume)
	}
	if p.SelectedResolution() != before.String() {
		t.Errorf("form resolution = %q after save", p.SelectedResolution())
	}
}

func TestPanelSlidersClamp(t *testing.T) {
	p, _ := newTestPanel(t)
	p.SetVolume(3)
	p.SetSensitivity(-2)
	if p.Volume() != 1 || p.Sensitivity() != 0 {
		t.Errorf("sliders = %v, %v, want 1, 0", p.Volume(), p.Sensitivity())
	}
}

func TestPanelSlidersRejectNaN(t *testing.T) {
	p, _ := newTestPanel(t)
	p.SetVolume(math.NaN())
	p.SetSensitivity(math.NaN())
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := p.Applied()
	if got.MasterVolume != 0 || got.MouseSensitivity != 0 {
		t.Errorf("applied sliders = %v, %v, want 0, 0", got.MasterVolume, got.MouseSensitivity)
	}
}

func TestPanelSetQualityAppliesImmediately(t *testing.T) {
	p, store := newTestPanel(t)
	p.SetVolume(0.2) // unsaved form edit

	tests := []struct {
		level int
		want  int
	}{
		{QualityLow, QualityLow},
		{QualityEpic, QualityEpic},
		{7, QualityEpic},
		{-3, QualityLow},
	}
	for _, tt := range tests {
		if err := p.SetQuality(tt.level); err != nil {
			t.Fatalf("SetQuality(%d): %v", tt.level, err)
		}
		if got := p.Applied().Quality; got != tt.want {
			t.Errorf("SetQuality(%d) applied %d, want %d", tt.level, got, tt.want)
		}
	}

	onDisk, _ := store.Load()
	if onDisk.Quality != QualityLow {
		t.Errorf("stored quality = %d", onDisk.Quality)
	}
	if onDisk.MasterVolume != Defaults().MasterVolume {
		t.Error("SetQuality persisted an unsaved slider edit")
	}
}

func TestPanelReset(t *testing.T) {
	p, _ := newTestPanel(t)
	p.SelectResolution("800x600")
	p.SetVolume(0)
	p.Reset()
	if p.SelectedResolution() != Defaults().Resolution.String() || p.Volume() != Defaults().MasterVolume {
		t.Error("Reset did not restore the form")
	}
}

func TestResolutionOptionsIncludeCurrent(t *testing.T) {
	store := NewStore(t.TempDir())
	st := Defaults()
	st.Resolution = Resolution{1024, 768}
	if err := store.Save(st); err != nil {
		t.Fatal(err)
	}
	p, err := NewPanel(store)
	if err != nil {
		t.Fatal(err)
	}
	opts := p.ResolutionOptions()
	if !slices.Contains(opts, "1024x768") {
		t.Errorf("options %v missing current resolution", opts)
	}
	if !slices.Contains(opts, "1920x1080") {
		t.Errorf("options %v missing 1920x1080", opts)
	}
}
