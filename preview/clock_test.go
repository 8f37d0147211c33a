package preview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMedia struct {
	pos     float64
	playErr error
	playing bool
	ended   bool
	seeks   []float64
}

func (f *fakeMedia) PositionMs() float64 { return f.pos }
func (f *fakeMedia) SeekMs(ms float64)   { f.seeks = append(f.seeks, ms); f.pos = ms }
func (f *fakeMedia) Play() error {
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = true
	return nil
}
func (f *fakeMedia) Pause()      { f.playing = false }
func (f *fakeMedia) Ended() bool { return f.ended }

func TestClockManualAdvance(t *testing.T) {
	c := NewClock(10000, nil)
	assert.Equal(t, Stopped, c.Mode())

	c.Play()
	assert.Equal(t, ManualClock, c.Mode())

	// The first frame only establishes the wall-clock baseline.
	c.Advance(1000)
	assert.Equal(t, 0.0, c.Now())

	c.Advance(1016)
	assert.InDelta(t, 16, c.Now(), 1e-9)
	c.Advance(1048)
	assert.InDelta(t, 48, c.Now(), 1e-9)
}

func TestClockManualStopsAtTotal(t *testing.T) {
	c := NewClock(100, nil)
	c.Play()
	c.Advance(0)
	c.Advance(500)
	assert.Equal(t, 100.0, c.Now())
	assert.Equal(t, Stopped, c.Mode())
}

func TestClockPauseKeepsPosition(t *testing.T) {
	c := NewClock(10000, nil)
	c.Play()
	c.Advance(0)
	c.Advance(250)
	c.Pause()
	assert.Equal(t, Stopped, c.Mode())
	assert.InDelta(t, 250, c.Now(), 1e-9)

	// Resuming re-baselines instead of jumping by the paused gap.
	c.Play()
	c.Advance(5000)
	assert.InDelta(t, 250, c.Now(), 1e-9)
	c.Advance(5016)
	assert.InDelta(t, 266, c.Now(), 1e-9)
}

func TestClockRestartsFromEnd(t *testing.T) {
	c := NewClock(1000, nil)
	c.Seek(999) // within restart slack of the end
	c.Play()
	assert.Equal(t, 0.0, c.Now())
}

func TestClockSeekClamps(t *testing.T) {
	c := NewClock(1000, nil)
	c.Seek(-50)
	assert.Equal(t, 0.0, c.Now())
	c.Seek(5000)
	assert.Equal(t, 1000.0, c.Now())
	c.Seek(400)
	assert.Equal(t, 400.0, c.Now())
}

func TestClockMediaPlayback(t *testing.T) {
	m := &fakeMedia{}
	c := NewClock(10000, m)

	c.Play()
	require.Equal(t, MediaClock, c.Mode())
	assert.True(t, m.playing)

	m.pos = 1234
	c.Advance(0)
	assert.Equal(t, 1234.0, c.Now())

	c.Pause()
	assert.Equal(t, Stopped, c.Mode())
	assert.False(t, m.playing)
}

func TestClockMediaRejectionFallsBack(t *testing.T) {
	m := &fakeMedia{playErr: errors.New("autoplay blocked")}
	c := NewClock(10000, m)

	c.Play()
	assert.Equal(t, ManualClock, c.Mode())

	c.Advance(0)
	c.Advance(16)
	assert.InDelta(t, 16, c.Now(), 1e-9)
}

func TestClockMediaEndClamps(t *testing.T) {
	m := &fakeMedia{}
	c := NewClock(10000, m)
	c.Play()

	m.pos = 9998 // within the end window
	c.Advance(0)
	assert.Equal(t, 10000.0, c.Now())
	assert.Equal(t, Stopped, c.Mode())
	assert.False(t, m.playing)

	m.pos = 0
	m.ended = true
	c.Seek(100)
	c.Play()
	c.Advance(0)
	assert.Equal(t, 10000.0, c.Now())
	assert.Equal(t, Stopped, c.Mode())
}

func TestClockSeekDriftThreshold(t *testing.T) {
	m := &fakeMedia{}
	c := NewClock(10000, m)
	c.Play()
	require.Equal(t, MediaClock, c.Mode())

	m.pos = 100
	c.Advance(0)
	m.seeks = nil

	// Small drift is absorbed; the media keeps its own position.
	c.Seek(110)
	assert.Empty(t, m.seeks)

	// Large drift is pushed through.
	c.Seek(500)
	require.Len(t, m.seeks, 1)
	assert.Equal(t, 500.0, m.seeks[0])
}

func TestClockDetachMediaFallsBackToManual(t *testing.T) {
	m := &fakeMedia{}
	c := NewClock(10000, m)
	c.Play()
	require.Equal(t, MediaClock, c.Mode())

	m.pos = 300
	c.Advance(0)
	require.Equal(t, 300.0, c.Now())

	c.SetMedia(nil)
	assert.Equal(t, ManualClock, c.Mode())

	// Advancing without a media source must keep running off wall time.
	c.Advance(1000)
	assert.Equal(t, 300.0, c.Now(), "first frame after detach only re-baselines")
	c.Advance(1016)
	assert.InDelta(t, 316, c.Now(), 1e-9)
}

func TestClockDetachMediaWhileStopped(t *testing.T) {
	m := &fakeMedia{}
	c := NewClock(10000, m)
	c.Seek(200)
	c.SetMedia(nil)
	assert.Equal(t, Stopped, c.Mode())
	assert.Equal(t, 200.0, c.Now())
}

func TestClockSeekWhileStoppedNeverTouchesMedia(t *testing.T) {
	m := &fakeMedia{}
	c := NewClock(10000, m)
	c.Seek(2000)
	assert.Empty(t, m.seeks)
	assert.Equal(t, 2000.0, c.Now())
}
