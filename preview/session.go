package preview

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"mapview/osu"
)

// Options configures a Session. Zero values get sensible defaults.
type Options struct {
	Reader FileReader
	Media  MediaPlayer
	Notify func(msg string) // user-visible error signal
	Logger *slog.Logger
}

// Session orchestrates one preview at a time: cache lookup, stacking/combo
// prep, clock lifecycle and per-frame scene production. It is safe to call
// from multiple goroutines; a newer Open supersedes any still-pending one
// via the load token.
type Session struct {
	opts  Options
	token atomic.Uint64

	mu    sync.Mutex
	cache map[string]cacheEntry
	st    *previewState
}

type cacheEntry struct {
	mtimeMs float64
	data    *MapData
}

// previewState exists only while a preview is open and is dropped whole on
// close or supersession.
type previewState struct {
	path    string
	data    *MapData
	derived *derivedState
	clock   *Clock
	catcher catcherState
}

func NewSession(opts Options) *Session {
	if opts.Reader == nil {
		opts.Reader = OSReader{}
	}
	if opts.Notify == nil {
		opts.Notify = func(string) {}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{opts: opts, cache: make(map[string]cacheEntry)}
}

// Open loads a beatmap and makes it the active preview. A concurrent Open
// for another map supersedes this one: the stale result is discarded
// quietly. Read and parse failures close any partially-initialized state
// and raise exactly one notification.
func (s *Session) Open(path string) error {
	token := s.token.Add(1)

	// The read is the only suspension point and runs outside the lock.
	data, mtimeMs, err := s.opts.Reader.ReadMap(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token.Load() {
		return nil // superseded by a newer open
	}
	if s.st != nil {
		s.st.clock.Pause() // the outgoing preview must not keep media running
	}

	if err != nil || len(data) == 0 {
		s.st = nil
		s.opts.Notify(fmt.Sprintf("could not read beatmap %q", path))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadFailed, err)
		}
		return fmt.Errorf("%w: empty file", ErrReadFailed)
	}

	md, err := s.mapDataLocked(path, data, mtimeMs)
	if err != nil {
		s.st = nil
		s.opts.Notify(fmt.Sprintf("could not parse beatmap %q", path))
		return fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	if len(md.Objects) == 0 {
		s.st = nil
		s.opts.Notify(fmt.Sprintf("beatmap %q has no hit objects", path))
		return ErrEmptyMap
	}

	// Stacking and combo indices depend on the current difficulty
	// interpretation, so they are recomputed even for a cached MapData.
	s.st = &previewState{
		path:    path,
		data:    md,
		derived: newDerivedState(md),
		clock:   NewClock(float64(md.MaxObjectTime), s.opts.Media),
	}
	s.opts.Logger.Debug("preview opened",
		"path", path, "mode", int(md.Mode), "objects", len(md.Objects))
	return nil
}

// mapDataLocked returns the cached MapData for (path, mtime) or parses and
// caches a fresh one.
func (s *Session) mapDataLocked(path string, data []byte, mtimeMs float64) (*MapData, error) {
	if e, ok := s.cache[path]; ok && e.mtimeMs == mtimeMs {
		return e.data, nil
	}
	bm, err := osu.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	md := NewMapData(bm)
	s.cache[path] = cacheEntry{mtimeMs: mtimeMs, data: md}
	return md, nil
}

// Close drops the active preview and invalidates pending opens.
func (s *Session) Close() {
	s.token.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st != nil && s.st.clock != nil {
		s.st.clock.Pause()
	}
	s.st = nil
}

// SetMedia attaches (or detaches, with nil) the host media player. Takes
// effect on the next Play.
func (s *Session) SetMedia(m MediaPlayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Media = m
	if s.st != nil {
		s.st.clock.SetMedia(m)
	}
}

// Frame advances the clock and produces the scene for this frame. A failing
// render degrades to an empty scene rather than crashing the host loop.
func (s *Session) Frame(wallMs float64) Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st == nil {
		return Scene{}
	}

	s.st.clock.Advance(wallMs)
	scene := Scene{
		CurrentTimeMs:   s.st.clock.Now(),
		TotalDurationMs: s.st.clock.Total(),
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.opts.Logger.Error("frame render failed", "path", s.st.path, "panic", r)
				scene.Ops = nil
			}
		}()
		scene.Ops = s.renderLocked(s.st.clock.Now())
	}()
	return scene
}

func (s *Session) renderLocked(t float64) []DrawOp {
	st := s.st
	switch st.data.Mode {
	case ModeTaiko:
		return renderTaiko(t, st.data, st.derived)
	case ModeCatch:
		return renderCatch(t, st.data, st.derived, &st.catcher)
	case ModeMania:
		return renderMania(t, st.data, st.derived)
	default:
		return renderStandard(t, st.data, st.derived)
	}
}

// TogglePlayback starts or pauses the clock.
func (s *Session) TogglePlayback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st == nil {
		return
	}
	if s.st.clock.Mode() == Stopped {
		s.st.clock.Play()
	} else {
		s.st.clock.Pause()
	}
}

// Seek jumps to an absolute time in milliseconds, clamped to the map.
func (s *Session) Seek(ms float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st != nil {
		s.st.clock.Seek(ms)
	}
}

// SeekFraction maps a pointer position on a progress bar to a seek.
func (s *Session) SeekFraction(f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st != nil {
		s.st.clock.Seek(clamp(f, 0, 1) * s.st.clock.Total())
	}
}

// Map returns the active MapData, or nil when nothing is open.
func (s *Session) Map() *MapData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st == nil {
		return nil
	}
	return s.st.data
}

// Playing reports whether the clock is in an active state.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st != nil && s.st.clock.Mode() != Stopped
}
