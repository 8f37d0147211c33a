package preview

import "mapview/osu"

type Mode int

const (
	ModeStandard Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

type Kind uint8

const (
	KindCircle Kind = iota
	KindSlider
	KindSpinner
	KindHold
)

type CurveType uint8

const (
	CurveLinear CurveType = iota
	CurveBezier
	CurveCatmull
	CurvePerfect
)

// Hit-sound bits used for taiko note classification.
const (
	soundWhistle = 2
	soundFinish  = 4
	soundClap    = 8
)

type Point struct{ X, Y float64 }

// HitObject is immutable after construction. Stack and combo indices live in
// the session's derived-state table, not here, so a cached MapData can be
// shared across opens with different leniency interpretations.
type HitObject struct {
	Kind      Kind
	Time      int
	EndTime   int
	X, Y      float64
	NewCombo  bool
	ComboSkip int
	HitSound  uint8

	// Slider-only. Control includes the head point.
	Curve   CurveType
	Control []Point
	Length  float64
	Slides  int
}

// MapData is the immutable, cacheable view of one parsed beatmap. Objects
// are ordered by ascending Time; the stacking and rendering passes depend on
// that order.
type MapData struct {
	Title   string
	Artist  string
	Creator string
	Version string

	AudioFilename string
	PreviewTime   int

	Objects []HitObject
	Mode    Mode

	CircleSize        float64
	ApproachRate      float64
	OverallDifficulty float64
	StackLeniency     float64

	ComboColours  []RGBA
	MaxObjectTime int
}

// osu! default combo palette, used when [Colours] is absent.
var defaultComboColours = []RGBA{
	rgb(255, 192, 0),
	rgb(0, 202, 0),
	rgb(18, 124, 255),
	rgb(242, 24, 57),
}

const defaultBeatLengthMs = 500.0 // 120 BPM

// NewMapData converts a parsed beatmap into the engine's shape. Timing
// points are consumed here to resolve slider end times and are not retained.
func NewMapData(bm *osu.Beatmap) *MapData {
	m := &MapData{
		Title:             bm.Title,
		Artist:            bm.Artist,
		Creator:           bm.Creator,
		Version:           bm.Version,
		AudioFilename:     bm.AudioFilename,
		PreviewTime:       bm.PreviewTime,
		Mode:              Mode(clampInt(bm.Mode, 0, 3)),
		CircleSize:        bm.CircleSize,
		ApproachRate:      bm.ApproachRate,
		OverallDifficulty: bm.OverallDifficulty,
		StackLeniency:     bm.StackLeniency,
	}

	for _, c := range bm.Colours {
		m.ComboColours = append(m.ComboColours, rgb(c.R, c.G, c.B))
	}
	if len(m.ComboColours) == 0 {
		m.ComboColours = defaultComboColours
	}

	// Walk timing points alongside the (time-ordered) objects, keeping the
	// active uninherited beat length and the inherited velocity multiplier.
	beatLen := defaultBeatLengthMs
	sv := 1.0
	tpIdx := 0

	m.Objects = make([]HitObject, 0, len(bm.Objects))
	for _, src := range bm.Objects {
		for tpIdx < len(bm.TimingPoints) && bm.TimingPoints[tpIdx].Time <= src.Time {
			tp := bm.TimingPoints[tpIdx]
			tpIdx++
			if tp.Uninherited {
				if tp.BeatLength > 0 {
					beatLen = tp.BeatLength
				}
				sv = 1.0
			} else if tp.BeatLength < 0 {
				sv = -100.0 / tp.BeatLength
			}
		}

		obj := HitObject{
			Kind:      Kind(src.Kind),
			Time:      src.Time,
			EndTime:   src.EndTime,
			X:         src.X,
			Y:         src.Y,
			NewCombo:  src.NewCombo,
			ComboSkip: src.ComboSkip,
			HitSound:  src.HitSound,
		}
		if src.Kind == osu.KindSlider {
			obj.Curve = CurveType(src.Curve)
			obj.Control = make([]Point, len(src.Control))
			for i, p := range src.Control {
				obj.Control[i] = Point{p.X, p.Y}
			}
			obj.Length = src.Length
			obj.Slides = src.Slides

			velocity := bm.SliderMultiplier * 100 * sv // playfield units per beat
			if velocity > 0 {
				duration := src.Length / velocity * beatLen * float64(src.Slides)
				obj.EndTime = src.Time + int(maxf(0, duration))
			}
		}
		if obj.EndTime < obj.Time {
			obj.EndTime = obj.Time
		}
		if obj.EndTime > m.MaxObjectTime {
			m.MaxObjectTime = obj.EndTime
		}
		m.Objects = append(m.Objects, obj)
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
