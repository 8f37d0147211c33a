package preview

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapSource(title string, objects string) []byte {
	return []byte(fmt.Sprintf(
		"osu file format v14\n\n[Metadata]\nTitle:%s\n\n[Difficulty]\nApproachRate:9\n\n[HitObjects]\n%s",
		title, objects))
}

type stubFile struct {
	data    []byte
	mtimeMs float64
	err     error
}

// stubReader serves in-memory beatmaps and can hold a read open until the
// test releases it.
type stubReader struct {
	mu    sync.Mutex
	files map[string]stubFile
	block map[string]chan struct{}
	reads chan string
}

func newStubReader() *stubReader {
	return &stubReader{
		files: make(map[string]stubFile),
		block: make(map[string]chan struct{}),
		reads: make(chan string, 16),
	}
}

func (r *stubReader) ReadMap(path string) ([]byte, float64, error) {
	r.mu.Lock()
	f := r.files[path]
	gate := r.block[path]
	r.mu.Unlock()

	r.reads <- path
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.data, f.mtimeMs, nil
}

type notifyCounter struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notifyCounter) add(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *notifyCounter) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}

func TestSessionOpen(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,500,1,0\n"), mtimeMs: 1}

	s := NewSession(Options{Reader: r})
	require.NoError(t, s.Open("a.osu"))

	md := s.Map()
	require.NotNil(t, md)
	assert.Equal(t, "Map A", md.Title)
	assert.Len(t, md.Objects, 1)
	assert.False(t, s.Playing())
}

func TestSessionOpenCachesByMtime(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,500,1,0\n"), mtimeMs: 1}

	s := NewSession(Options{Reader: r})
	require.NoError(t, s.Open("a.osu"))
	first := s.Map()

	require.NoError(t, s.Open("a.osu"))
	assert.Same(t, first, s.Map(), "unchanged mtime reuses the parsed map")

	r.files["a.osu"] = stubFile{data: mapSource("Map A2", "100,100,500,1,0\n"), mtimeMs: 2}
	require.NoError(t, s.Open("a.osu"))
	md := s.Map()
	assert.NotSame(t, first, md)
	assert.Equal(t, "Map A2", md.Title)
}

func TestSessionStaleOpenIsDiscarded(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,500,1,0\n"), mtimeMs: 1}
	r.files["b.osu"] = stubFile{data: mapSource("Map B", "100,100,500,1,0\n"), mtimeMs: 1}
	gate := make(chan struct{})
	r.block["a.osu"] = gate

	s := NewSession(Options{Reader: r})

	done := make(chan error, 1)
	go func() { done <- s.Open("a.osu") }()
	require.Equal(t, "a.osu", <-r.reads, "first open must be mid-read before the second starts")

	require.NoError(t, s.Open("b.osu"))
	<-r.reads

	close(gate)
	select {
	case err := <-done:
		assert.NoError(t, err, "a superseded open reports no error")
	case <-time.After(2 * time.Second):
		t.Fatal("superseded open never returned")
	}

	md := s.Map()
	require.NotNil(t, md)
	assert.Equal(t, "Map B", md.Title, "the stale result must not replace the newer map")
}

func TestSessionOpenReadFailure(t *testing.T) {
	r := newStubReader()
	r.files["bad.osu"] = stubFile{err: fmt.Errorf("permission denied")}
	var n notifyCounter

	s := NewSession(Options{Reader: r, Notify: n.add})
	err := s.Open("bad.osu")
	require.ErrorIs(t, err, ErrReadFailed)
	assert.Equal(t, 1, n.count(), "exactly one user notification")
	assert.Nil(t, s.Map())
}

func TestSessionOpenEmptyMap(t *testing.T) {
	r := newStubReader()
	r.files["empty.osu"] = stubFile{data: mapSource("Empty", ""), mtimeMs: 1}
	var n notifyCounter

	s := NewSession(Options{Reader: r, Notify: n.add})
	err := s.Open("empty.osu")
	require.ErrorIs(t, err, ErrEmptyMap)
	assert.Equal(t, 1, n.count())
	assert.Nil(t, s.Map())

	sc := s.Frame(0)
	assert.Empty(t, sc.Ops, "no open preview renders nothing")
}

func TestSessionParseFailureClearsState(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,500,1,0\n"), mtimeMs: 1}
	r.files["garbage.osu"] = stubFile{data: []byte("not a beatmap"), mtimeMs: 1}
	var n notifyCounter

	s := NewSession(Options{Reader: r, Notify: n.add})
	require.NoError(t, s.Open("a.osu"))

	err := s.Open("garbage.osu")
	require.ErrorIs(t, err, ErrReadFailed)
	assert.Nil(t, s.Map(), "a failed open closes the previous preview too")
	assert.Equal(t, 1, n.count())
}

func TestSessionFrameAndPlayback(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,500,1,0\n250,100,900,1,0\n"), mtimeMs: 1}

	s := NewSession(Options{Reader: r})
	require.NoError(t, s.Open("a.osu"))

	sc := s.Frame(0)
	assert.Equal(t, 0.0, sc.CurrentTimeMs)
	assert.Equal(t, 900.0, sc.TotalDurationMs)

	s.TogglePlayback()
	assert.True(t, s.Playing())
	s.Frame(1000) // baseline
	sc = s.Frame(1100)
	assert.InDelta(t, 100, sc.CurrentTimeMs, 1e-9)
	assert.NotEmpty(t, sc.Ops, "an approaching circle is visible")

	s.TogglePlayback()
	assert.False(t, s.Playing())
}

func TestSessionSeekFraction(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,1000,1,0\n"), mtimeMs: 1}

	s := NewSession(Options{Reader: r})
	require.NoError(t, s.Open("a.osu"))

	s.SeekFraction(0.5)
	assert.Equal(t, 500.0, s.Frame(0).CurrentTimeMs)

	s.SeekFraction(2)
	assert.Equal(t, 1000.0, s.Frame(0).CurrentTimeMs)
	s.SeekFraction(-1)
	assert.Equal(t, 0.0, s.Frame(0).CurrentTimeMs)
}

func TestSessionDetachMediaMidPlayback(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,500,1,0\n"), mtimeMs: 1}
	m := &fakeMedia{}

	s := NewSession(Options{Reader: r, Media: m})
	require.NoError(t, s.Open("a.osu"))
	s.TogglePlayback()
	require.True(t, s.Playing())

	// Detaching must not break the frame loop; playback keeps running on
	// wall time.
	s.SetMedia(nil)
	sc := s.Frame(0)
	assert.Equal(t, 0.0, sc.CurrentTimeMs)
	assert.True(t, s.Playing())
	sc = s.Frame(16)
	assert.InDelta(t, 16, sc.CurrentTimeMs, 1e-9)
}

func TestSessionOpenStopsPreviousMedia(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,500,1,0\n"), mtimeMs: 1}
	r.files["b.osu"] = stubFile{data: mapSource("Map B", "100,100,500,1,0\n"), mtimeMs: 1}
	m := &fakeMedia{}

	s := NewSession(Options{Reader: r, Media: m})
	require.NoError(t, s.Open("a.osu"))
	s.TogglePlayback()
	require.True(t, m.playing)

	require.NoError(t, s.Open("b.osu"))
	assert.False(t, m.playing, "the outgoing preview's media is paused")
	assert.False(t, s.Playing())
}

func TestSessionClose(t *testing.T) {
	r := newStubReader()
	r.files["a.osu"] = stubFile{data: mapSource("Map A", "100,100,500,1,0\n"), mtimeMs: 1}

	s := NewSession(Options{Reader: r})
	require.NoError(t, s.Open("a.osu"))
	s.Close()
	assert.Nil(t, s.Map())
	assert.Empty(t, s.Frame(0).Ops)
}
