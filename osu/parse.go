// Package osu decodes the subset of the .osu text format that the preview
// engine consumes: difficulty values, timing points, combo colours and typed
// hit objects. Storyboards, samples and editor state are skipped.
package osu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type section int

const (
	secNone section = iota
	secGeneral
	secMetadata
	secDifficulty
	secTimingPoints
	secColours
	secHitObjects
)

// Beatmap is the parsed subset of a .osu file.
type Beatmap struct {
	FormatVersion int

	Title   string
	Artist  string
	Creator string
	Version string

	AudioFilename string
	PreviewTime   int
	Mode          int
	StackLeniency float64

	CircleSize        float64
	ApproachRate      float64
	OverallDifficulty float64
	SliderMultiplier  float64

	TimingPoints []TimingPoint
	Colours      []RGB
	Objects      []HitObject
}

// TimingPoint carries only what slider duration resolution needs.
type TimingPoint struct {
	Time        int
	BeatLength  float64
	Uninherited bool
}

type RGB struct{ R, G, B uint8 }

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

// Hit-object type bitmask, as written in the file.
const (
	typeCircle   = 1
	typeSlider   = 2
	typeNewCombo = 4
	typeSpinner  = 8
	typeHold     = 128

	comboSkipShift = 4
	comboSkipMask  = 7
)

// Hit-sound bits relevant to taiko note classification.
const (
	SoundWhistle = 2
	SoundFinish  = 4
	SoundClap    = 8
)

type Point struct{ X, Y float64 }

// HitObject is a single decoded [HitObjects] line. Slider end times are not
// known at parse time; the preview layer resolves them from timing points.
type HitObject struct {
	Kind      Kind
	X, Y      float64
	Time      int
	EndTime   int // spinner/hold only; Time otherwise
	NewCombo  bool
	ComboSkip int
	HitSound  uint8

	// Slider-only fields. Control includes the head position.
	Curve   CurveType
	Control []Point
	Slides  int
	Length  float64
}

func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*Beatmap, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var header string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			header = strings.TrimPrefix(line, "\uFEFF")
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.ToLower(header), "osu file format v") {
		return nil, fmt.Errorf("invalid .osu header: %q", header)
	}
	version, err := strconv.Atoi(strings.TrimSpace(header[len("osu file format v"):]))
	if err != nil {
		return nil, fmt.Errorf("invalid .osu version: %q", header)
	}

	// Format defaults: difficulty values are 5 unless overridden, and AR
	// falls back to OD (old files have no ApproachRate key at all).
	b := &Beatmap{
		FormatVersion:     version,
		PreviewTime:       -1,
		CircleSize:        5,
		ApproachRate:      5,
		OverallDifficulty: 5,
		SliderMultiplier:  1.4,
		StackLeniency:     0.7,
	}
	seenAR := false
	seenOD := false

	sec := secNone
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			switch strings.ToLower(line) {
			case "[general]":
				sec = secGeneral
			case "[metadata]":
				sec = secMetadata
			case "[difficulty]":
				sec = secDifficulty
			case "[timingpoints]":
				sec = secTimingPoints
			case "[colours]":
				sec = secColours
			case "[hitobjects]":
				sec = secHitObjects
			default:
				sec = secNone
			}
			continue
		}

		switch sec {
		case secGeneral:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "audiofilename":
				b.AudioFilename = strings.ReplaceAll(strings.Trim(v, "\""), "\\", "/")
			case "previewtime":
				b.PreviewTime = parseInt(v, -1)
			case "mode":
				b.Mode = parseInt(v, 0)
			case "stackleniency":
				b.StackLeniency = parseFloat(v, 0.7)
			}

		case secMetadata:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "title":
				b.Title = v
			case "artist":
				b.Artist = v
			case "creator":
				b.Creator = v
			case "version":
				b.Version = v
			}

		case secDifficulty:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "circlesize":
				b.CircleSize = parseFloat(v, 5)
			case "overalldifficulty":
				b.OverallDifficulty = parseFloat(v, 5)
				seenOD = true
				if !seenAR {
					b.ApproachRate = b.OverallDifficulty
				}
			case "approachrate":
				b.ApproachRate = parseFloat(v, 5)
				seenAR = true
			case "slidermultiplier":
				b.SliderMultiplier = parseFloat(v, 1.4)
			}

		case secTimingPoints:
			parts := strings.Split(line, ",")
			if len(parts) < 2 {
				continue
			}
			tp := TimingPoint{
				Time:        parseInt(parts[0], 0),
				BeatLength:  parseFloat(parts[1], 500),
				Uninherited: true,
			}
			if len(parts) >= 7 {
				tp.Uninherited = strings.TrimSpace(parts[6]) == "1"
			}
			b.TimingPoints = append(b.TimingPoints, tp)

		case secColours:
			k, v := splitKeyVal(line)
			if !strings.HasPrefix(strings.ToLower(k), "combo") {
				continue
			}
			if c, ok := parseRGB(v); ok {
				b.Colours = append(b.Colours, c)
			}

		case secHitObjects:
			if obj, ok := parseHitObject(line); ok {
				b.Objects = append(b.Objects, obj)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if !seenOD && seenAR {
		b.OverallDifficulty = b.ApproachRate
	}
	return b, nil
}

func parseHitObject(line string) (HitObject, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 5 {
		return HitObject{}, false
	}
	flags := parseInt(parts[3], 0)
	obj := HitObject{
		X:         parseFloat(parts[0], 0),
		Y:         parseFloat(parts[1], 0),
		Time:      parseInt(parts[2], 0),
		NewCombo:  flags&typeNewCombo != 0,
		ComboSkip: (flags >> comboSkipShift) & comboSkipMask,
		HitSound:  uint8(parseInt(parts[4], 0)),
	}
	obj.EndTime = obj.Time

	switch {
	case flags&typeHold != 0:
		obj.Kind = KindHold
		if len(parts) >= 6 {
			// endTime precedes a ':'-delimited sample suffix
			endStr, _, _ := strings.Cut(parts[5], ":")
			obj.EndTime = max(obj.Time, parseInt(endStr, obj.Time))
		}

	case flags&typeSpinner != 0:
		obj.Kind = KindSpinner
		if len(parts) >= 6 {
			obj.EndTime = max(obj.Time, parseInt(parts[5], obj.Time))
		}

	case flags&typeSlider != 0:
		obj.Kind = KindSlider
		if len(parts) < 6 {
			return HitObject{}, false
		}
		obj.Curve, obj.Control = parseSliderSpec(obj.X, obj.Y, parts[5])
		obj.Slides = 1
		if len(parts) >= 7 {
			obj.Slides = max(1, parseInt(parts[6], 1))
		}
		if len(parts) >= 8 {
			obj.Length = parseFloat(parts[7], 0)
		}

	default:
		obj.Kind = KindCircle
	}
	return obj, true
}

// parseSliderSpec converts "B|x:y|x:y|..." into a curve type and the full
// control-point list, the slider head first.
func parseSliderSpec(headX, headY float64, spec string) (CurveType, []Point) {
	tokens := strings.Split(strings.TrimSpace(spec), "|")
	curve := CurveBezier
	switch strings.ToUpper(strings.TrimSpace(tokens[0])) {
	case "L":
		curve = CurveLinear
	case "C":
		curve = CurveCatmull
	case "P":
		curve = CurvePerfect
	}
	control := make([]Point, 0, len(tokens))
	control = append(control, Point{headX, headY})
	for _, tok := range tokens[1:] {
		xs, ys, ok := strings.Cut(strings.TrimSpace(tok), ":")
		if !ok {
			continue
		}
		control = append(control, Point{parseFloat(xs, headX), parseFloat(ys, headY)})
	}
	return curve, control
}

func parseRGB(v string) (RGB, bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 3 {
		return RGB{}, false
	}
	return RGB{
		R: uint8(clampInt(parseInt(parts[0], 0), 0, 255)),
		G: uint8(clampInt(parseInt(parts[1], 0), 0, 255)),
		B: uint8(clampInt(parseInt(parts[2], 0), 0, 255)),
	}, true
}

func splitKeyVal(line string) (string, string) {
	k, v, ok := strings.Cut(line, ":")
	if !ok {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
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
