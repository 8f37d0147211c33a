package preview

import "math"

// PlaybackMode is the clock's state: stopped, free-running on wall-clock
// deltas, or slaved to an external media position.
type PlaybackMode uint8

const (
	Stopped PlaybackMode = iota
	ManualClock
	MediaClock
)

// MediaPlayer is the host media player boundary. Play may reject, in which
// case the clock falls back to free-running.
type MediaPlayer interface {
	PositionMs() float64
	SeekMs(ms float64)
	Play() error
	Pause()
	Ended() bool
}

const (
	clockRestartSlackMs = 4.0
	clockMediaEndMs     = 5.0
	clockSeekDriftMs    = 25.0
)

// Clock owns the preview's current time. It is driven once per frame via
// Advance and never runs on its own.
type Clock struct {
	mode    PlaybackMode
	nowMs   float64
	totalMs float64
	media   MediaPlayer

	lastWallMs float64
	hasWall    bool
}

func NewClock(totalMs float64, media MediaPlayer) *Clock {
	return &Clock{totalMs: maxf(0, totalMs), media: media}
}

func (c *Clock) Mode() PlaybackMode { return c.mode }
func (c *Clock) Now() float64       { return c.nowMs }
func (c *Clock) Total() float64     { return c.totalMs }

// SetMedia attaches or detaches (nil) the media source. Detaching while
// slaved to it downgrades to free-running so playback continues.
func (c *Clock) SetMedia(m MediaPlayer) {
	c.media = m
	if m == nil && c.mode == MediaClock {
		c.hasWall = false
		c.mode = ManualClock
	}
}

// Play enters MediaClock when a media source is available and accepts
// playback, otherwise ManualClock. Playing from the very end restarts.
func (c *Clock) Play() {
	if c.nowMs >= c.totalMs-clockRestartSlackMs {
		c.nowMs = 0
	}
	if c.media != nil {
		if err := c.media.Play(); err == nil {
			if math.Abs(c.media.PositionMs()-c.nowMs) > clockSeekDriftMs {
				c.media.SeekMs(c.nowMs)
			}
			c.mode = MediaClock
			return
		}
		// Rejected media start is recoverable; free-run instead.
	}
	c.hasWall = false
	c.mode = ManualClock
}

// Pause stops the frame driver and keeps the current time.
func (c *Clock) Pause() {
	if c.mode == MediaClock && c.media != nil {
		c.media.Pause()
	}
	c.mode = Stopped
}

// Seek clamps to [0, total]. While slaved to media the new position is only
// pushed to the source when the drift exceeds a threshold, preventing
// feedback oscillation with the per-frame position read.
func (c *Clock) Seek(ms float64) {
	c.nowMs = clamp(ms, 0, c.totalMs)
	if c.mode == MediaClock && c.media != nil {
		if math.Abs(c.media.PositionMs()-c.nowMs) > clockSeekDriftMs {
			c.media.SeekMs(c.nowMs)
		}
	}
}

// Advance moves the clock one frame. wallMs is a monotonic wall-clock
// reading in milliseconds; only ManualClock consumes it.
func (c *Clock) Advance(wallMs float64) {
	switch c.mode {
	case MediaClock:
		pos := c.media.PositionMs()
		if c.media.Ended() || pos >= c.totalMs-clockMediaEndMs {
			c.nowMs = c.totalMs
			c.media.Pause()
			c.mode = Stopped
			return
		}
		c.nowMs = pos

	case ManualClock:
		if c.hasWall {
			c.nowMs += wallMs - c.lastWallMs
		}
		c.lastWallMs = wallMs
		c.hasWall = true
		if c.nowMs >= c.totalMs {
			c.nowMs = c.totalMs
			c.mode = Stopped
		}
	}
}
