package server

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ftl/iqscope/core"
)

type pointJSON [2]float64

type colorJSON [4]float64

type lineJSON struct {
	Color  colorJSON   `json:"color"`
	Points []pointJSON `json:"points"`
}

type rectJSON struct {
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type markJSON struct {
	DB float64 `json:"db"`
	Y  float64 `json:"y"`
}

type scaleJSON struct {
	Rect  rectJSON   `json:"rect"`
	From  float64    `json:"from"`
	To    float64    `json:"to"`
	Marks []markJSON `json:"marks"`
}

type frameJSON struct {
	Mode       string     `json:"mode"`
	TraceSize  int        `json:"traceSize"`
	SampleRate int        `json:"sampleRate"`
	Strips     []lineJSON `json:"strips"`
	Loops      []lineJSON `json:"loops"`
	Scale      scaleJSON  `json:"scale"`
}

func toFrameJSON(frame core.Frame) frameJSON {
	result := frameJSON{
		Mode:       frame.Mode.String(),
		TraceSize:  frame.TraceSize,
		SampleRate: frame.SampleRate,
		Strips:     make([]lineJSON, 0, len(frame.Strips)),
		Loops:      make([]lineJSON, 0, len(frame.Loops)),
		Scale: scaleJSON{
			Rect:  toRectJSON(frame.Scale.Rect),
			From:  float64(frame.Scale.Range.From),
			To:    float64(frame.Scale.Range.To),
			Marks: make([]markJSON, len(frame.Scale.Marks)),
		},
	}
	for _, strip := range frame.Strips {
		result.Strips = append(result.Strips, toLineJSON(strip.Color, strip.Points))
	}
	for _, loop := range frame.Loops {
		result.Loops = append(result.Loops, toLineJSON(loop.Color, loop.Points))
	}
	for i, mark := range frame.Scale.Marks {
		result.Scale.Marks[i] = markJSON{DB: float64(mark.DB), Y: float64(mark.Y)}
	}
	return result
}

func toLineJSON(color core.Color, points []core.FPoint) lineJSON {
	result := lineJSON{
		Color:  colorJSON{color.R, color.G, color.B, color.A},
		Points: make([]pointJSON, len(points)),
	}
	for i, p := range points {
		result.Points[i] = pointJSON{float64(p.X), float64(p.Y)}
	}
	return result
}

func toRectJSON(r core.FRect) rectJSON {
	return rectJSON{
		Left:   float64(r.Left),
		Bottom: float64(r.Bottom),
		Width:  float64(r.Width),
		Height: float64(r.Height),
	}
}

type triggerJSON struct {
	Channel    string  `json:"channel"`
	LevelHigh  float64 `json:"levelHigh"`
	LevelLow   float64 `json:"levelLow"`
	Slope      string  `json:"slope"`
	PreTrigger int     `json:"preTrigger"`
}

type configJSON struct {
	Mode            string      `json:"mode"`
	Amp             float64     `json:"amp"`
	Ofs             float64     `json:"ofs"`
	TimeBase        int         `json:"timeBase"`
	TimeOfsProMille int         `json:"timeOfsProMille"`
	Orientation     string      `json:"orientation"`
	GridIntensity   int         `json:"gridIntensity"`
	Trigger         triggerJSON `json:"trigger"`
}

func toConfigJSON(view core.ViewConfig, trigger core.TriggerState) configJSON {
	return configJSON{
		Mode:            view.Mode.String(),
		Amp:             view.Amp,
		Ofs:             view.Ofs,
		TimeBase:        view.TimeBase,
		TimeOfsProMille: view.TimeOfsProMille,
		Orientation:     view.Orientation.String(),
		GridIntensity:   view.GridIntensity,
		Trigger: triggerJSON{
			Channel:    trigger.Channel.String(),
			LevelHigh:  trigger.LevelHigh,
			LevelLow:   trigger.LevelLow,
			Slope:      slopeName(trigger.Slope),
			PreTrigger: trigger.PreTrigger,
		},
	}
}

func slopeName(slope core.Slope) string {
	if slope == core.SlopeFalling {
		return "falling"
	}
	return "rising"
}

// configUpdate contains only the values that should be changed.
type configUpdate struct {
	Mode            *string        `json:"mode"`
	Amp             *float64       `json:"amp"`
	Ofs             *float64       `json:"ofs"`
	TimeBase        *int           `json:"timeBase"`
	TimeOfsProMille *int           `json:"timeOfsProMille"`
	Orientation     *string        `json:"orientation"`
	GridIntensity   *int           `json:"gridIntensity"`
	Trigger         *triggerUpdate `json:"trigger"`
}

type triggerUpdate struct {
	Channel    *string  `json:"channel"`
	LevelHigh  *float64 `json:"levelHigh"`
	LevelLow   *float64 `json:"levelLow"`
	Slope      *string  `json:"slope"`
	PreTrigger *int     `json:"preTrigger"`
}

func (u configUpdate) changesView() bool {
	return u.Mode != nil || u.Amp != nil || u.Ofs != nil || u.TimeBase != nil || u.TimeOfsProMille != nil ||
		u.Orientation != nil || u.GridIntensity != nil
}

func (u configUpdate) apply(view core.ViewConfig, trigger core.TriggerState) (core.ViewConfig, core.TriggerState, error) {
	var err error
	if u.Mode != nil {
		view.Mode, err = core.ParseDisplayMode(*u.Mode)
		if err != nil {
			return view, trigger, err
		}
	}
	if u.Amp != nil {
		if *u.Amp <= 0 {
			return view, trigger, errors.Errorf("amp must be positive: %v", *u.Amp)
		}
		view.Amp = *u.Amp
	}
	if u.Ofs != nil {
		view.Ofs = *u.Ofs
	}
	if u.TimeBase != nil {
		view.TimeBase = *u.TimeBase
	}
	if u.TimeOfsProMille != nil {
		view.TimeOfsProMille = *u.TimeOfsProMille
	}
	if u.Orientation != nil {
		switch strings.ToLower(*u.Orientation) {
		case "horizontal":
			view.Orientation = core.Horizontal
		case "vertical":
			view.Orientation = core.Vertical
		default:
			return view, trigger, errors.Errorf("unknown orientation %q", *u.Orientation)
		}
	}
	if u.GridIntensity != nil {
		view.GridIntensity = *u.GridIntensity
	}

	if u.Trigger == nil {
		return view, trigger, nil
	}
	t := u.Trigger
	if t.Channel != nil {
		trigger.Channel, err = core.ParseTriggerChannel(*t.Channel)
		if err != nil {
			return view, trigger, err
		}
	}
	if t.LevelHigh != nil {
		trigger.LevelHigh = *t.LevelHigh
	}
	if t.LevelLow != nil {
		trigger.LevelLow = *t.LevelLow
	}
	if t.Slope != nil {
		switch strings.ToLower(*t.Slope) {
		case "rising":
			trigger.Slope = core.SlopeRising
		case "falling":
			trigger.Slope = core.SlopeFalling
		default:
			return view, trigger, errors.Errorf("unknown slope %q", *t.Slope)
		}
	}
	if t.PreTrigger != nil {
		if *t.PreTrigger < 0 {
			return view, trigger, errors.Errorf("pre-trigger must not be negative: %d", *t.PreTrigger)
		}
		trigger.PreTrigger = *t.PreTrigger
	}
	return view, trigger, nil
}
