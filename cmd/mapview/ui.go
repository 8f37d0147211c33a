package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"mapview/preview"
)

const (
	progressBarH = 28
	noticeTTL    = 4 * time.Second
	seekStepMs   = 5000.0
)

var (
	backgroundColor = color.RGBA{18, 18, 24, 255}
	barColor        = color.NRGBA{255, 255, 255, 40}
	barFillColor    = color.NRGBA{120, 190, 255, 200}
)

type notice struct {
	msg   string
	until time.Time
}

type viewerGame struct {
	cfg     Config
	session *preview.Session
	start   time.Time
	scene   preview.Scene

	// Sibling difficulties in the same directory, switchable with 1-9.
	siblings []string

	mu      sync.Mutex
	notices []notice
}

func runView(path string, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	g := &viewerGame{cfg: cfg, start: time.Now()}
	g.session = preview.NewSession(preview.Options{Notify: g.pushNotice})
	g.siblings = listSiblings(path)

	if err := g.session.Open(path); err != nil {
		return err
	}
	md := g.session.Map()
	g.attachAudio(path)
	if cfg.Autoplay {
		g.session.TogglePlayback()
	}

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s [%s]", md.Artist, md.Title, md.Version))
	return ebiten.RunGame(g)
}

// listSiblings returns the .osu files sharing the map's directory, sorted.
func listSiblings(path string) []string {
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".osu") {
			out = append(out, filepath.Join(filepath.Dir(path), e.Name()))
		}
	}
	sort.Strings(out)
	return out
}

// attachAudio builds a media player for the open map's audio track and hands
// it to the session. A map without usable audio detaches the player so the
// clock free-runs instead of following the previous track.
func (g *viewerGame) attachAudio(mapPath string) {
	md := g.session.Map()
	if md == nil || md.AudioFilename == "" {
		g.session.SetMedia(nil)
		return
	}
	audioPath := filepath.Join(filepath.Dir(mapPath), md.AudioFilename)
	player, err := newMediaPlayer(audioPath, g.cfg.Volume)
	if err != nil {
		slog.Warn("audio unavailable, clock will free-run", "path", audioPath, "err", err)
		g.session.SetMedia(nil)
		return
	}
	g.session.SetMedia(player)
}

// openSibling switches the preview to another difficulty. Opens race
// deliberately: a newer one supersedes via the session's load token, and only
// a successful open swaps the audio track.
func (g *viewerGame) openSibling(path string) {
	if err := g.session.Open(path); err != nil {
		return
	}
	g.attachAudio(path)
}

func (g *viewerGame) pushNotice(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notices = append(g.notices, notice{msg: msg, until: time.Now().Add(noticeTTL)})
}

func (g *viewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.session.TogglePlayback()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.session.Seek(g.scene.CurrentTimeMs - seekStepMs)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.session.Seek(g.scene.CurrentTimeMs + seekStepMs)
	}
	for n := 0; n < 9 && n < len(g.siblings); n++ {
		if inpututil.IsKeyJustPressed(ebiten.Key(int(ebiten.Key1) + n)) {
			go g.openSibling(g.siblings[n])
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		w, h := ebiten.WindowSize()
		if y >= h-progressBarH && w > 0 {
			g.session.SeekFraction(float64(x) / float64(w))
		}
	}

	wallMs := float64(time.Since(g.start).Microseconds()) / 1000.0
	g.scene = g.session.Frame(wallMs)
	return nil
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	w := screen.Bounds().Dx()
	h := screen.Bounds().Dy() - progressBarH
	scale := minf(float64(w)/preview.PlayfieldWidth, float64(h)/preview.PlayfieldHeight) * 0.92
	ox := (float64(w) - preview.PlayfieldWidth*scale) / 2
	oy := (float64(h) - preview.PlayfieldHeight*scale) / 2

	for _, op := range g.scene.Ops {
		drawOp(screen, op, scale, ox, oy)
	}

	g.drawProgress(screen)
	g.drawNotices(screen)
}

func drawOp(dst *ebiten.Image, op preview.DrawOp, scale, ox, oy float64) {
	col := toNRGBA(op.Colour)
	x := float32(ox + op.X*scale)
	y := float32(oy + op.Y*scale)
	stroke := float32(maxf(1, op.Stroke*scale))

	switch op.Shape {
	case preview.ShapeCircle:
		if op.Stroke > 0 {
			vector.StrokeCircle(dst, x, y, float32(op.R*scale), stroke, col, true)
		} else {
			vector.DrawFilledCircle(dst, x, y, float32(op.R*scale), col, true)
		}
	case preview.ShapeArc:
		vector.StrokeCircle(dst, x, y, float32(op.R*scale), stroke, col, true)
	case preview.ShapeSegment:
		vector.StrokeLine(dst, x, y, float32(ox+op.X2*scale), float32(oy+op.Y2*scale), stroke, col, true)
	case preview.ShapeRect:
		if op.Stroke > 0 {
			vector.StrokeRect(dst, x, y, float32(op.X2*scale), float32(op.Y2*scale), stroke, col, true)
		} else {
			vector.DrawFilledRect(dst, x, y, float32(op.X2*scale), float32(op.Y2*scale), col, true)
		}
	}
}

func (g *viewerGame) drawProgress(screen *ebiten.Image) {
	w := screen.Bounds().Dx()
	h := screen.Bounds().Dy()
	barY := float32(h - progressBarH)

	vector.DrawFilledRect(screen, 0, barY, float32(w), progressBarH, barColor, false)
	if g.scene.TotalDurationMs > 0 {
		frac := g.scene.CurrentTimeMs / g.scene.TotalDurationMs
		vector.DrawFilledRect(screen, 0, barY, float32(float64(w)*frac), progressBarH, barFillColor, false)
	}

	state := "paused"
	if g.session.Playing() {
		state = "playing"
	}
	label := fmt.Sprintf("%s  %s / %s  [space] play/pause  [arrows] seek  [1-9] difficulty",
		state, fmtMs(g.scene.CurrentTimeMs), fmtMs(g.scene.TotalDurationMs))
	ebitenutil.DebugPrintAt(screen, label, 8, h-progressBarH+6)
}

func (g *viewerGame) drawNotices(screen *ebiten.Image) {
	g.mu.Lock()
	now := time.Now()
	kept := g.notices[:0]
	for _, n := range g.notices {
		if n.until.After(now) {
			kept = append(kept, n)
		}
	}
	g.notices = kept
	msgs := make([]string, len(kept))
	for i, n := range kept {
		msgs[i] = n.msg
	}
	g.mu.Unlock()

	for i, msg := range msgs {
		ebitenutil.DebugPrintAt(screen, msg, 8, 8+i*16)
	}
}

func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func toNRGBA(c preview.RGBA) color.NRGBA {
	a := c.A
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a*255 + 0.5)}
}

func fmtMs(ms float64) string {
	total := int(ms / 1000)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
