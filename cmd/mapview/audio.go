package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
)

const sampleRate = 48000

var (
	audioContextOnce sync.Once
	audioContext     *audio.Context
)

func sharedAudioContext() *audio.Context {
	audioContextOnce.Do(func() {
		audioContext = audio.NewContext(sampleRate)
	})
	return audioContext
}

type audioStream interface {
	io.ReadSeeker
	Length() int64
}

// mediaPlayer adapts an ebiten audio player to the preview clock's media
// interface. Position is authoritative while playing; the clock free-runs
// when no player could be built.
type mediaPlayer struct {
	player  *audio.Player
	totalMs float64
}

func newMediaPlayer(path string, volume float64) (*mediaPlayer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var stream audioStream
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	player, err := sharedAudioContext().NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	player.SetVolume(volume)

	// 16-bit stereo: 4 bytes per sample frame.
	totalMs := float64(stream.Length()) / float64(sampleRate*4) * 1000
	return &mediaPlayer{player: player, totalMs: totalMs}, nil
}

func (m *mediaPlayer) PositionMs() float64 {
	return m.player.Position().Seconds() * 1000
}

func (m *mediaPlayer) SeekMs(ms float64) {
	if ms < 0 {
		ms = 0
	}
	if m.totalMs > 0 && ms > m.totalMs {
		ms = m.totalMs
	}
	_ = m.player.SetPosition(time.Duration(ms * float64(time.Millisecond)))
}

func (m *mediaPlayer) Play() error {
	if m.player == nil {
		return fmt.Errorf("no audio player")
	}
	m.player.Play()
	return nil
}

func (m *mediaPlayer) Pause() {
	m.player.Pause()
}

func (m *mediaPlayer) Ended() bool {
	return m.totalMs > 0 && m.PositionMs() >= m.totalMs-1
}
