package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Title is the fixed heading shown above every summary chart.
const Title = "Time Tracker Summary"

// Context is a drawing target handed out by a rendering surface. ID names
// the canvas element when the surface has one.
type Context interface {
	io.Writer
	ID() string
}

// Config is a declarative pie chart description in the shape Chart.js accepts.
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data carries the slice labels and datasets.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one ring of values with a colour per slice.
type Dataset struct {
	Data            []Value  `json:"data"`
	BackgroundColor []string `json:"backgroundColor"`
}

// Options mirrors the subset of chart options the summary uses.
type Options struct {
	Responsive bool    `json:"responsive"`
	Plugins    Plugins `json:"plugins"`
}

type Plugins struct {
	Legend Legend     `json:"legend"`
	Title  TitleBlock `json:"title"`
}

type Legend struct {
	Position string `json:"position"`
}

type TitleBlock struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// Value is a data point. NaN and infinities encode as null since JSON has
// no spelling for them.
type Value float64

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Pie builds the summary pie chart for the given slices.
func Pie(labels []string, values []float64) Config {
	data := make([]Value, len(values))
	for i, v := range values {
		data[i] = Value(v)
	}

	return Config{
		Type: "pie",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Data:            data,
				BackgroundColor: Palette(len(values)),
			}},
		},
		Options: Options{
			Responsive: true,
			Plugins: Plugins{
				Legend: Legend{Position: "top"},
				Title:  TitleBlock{Display: true, Text: Title},
			},
		},
	}
}

// Palette spreads n hues evenly around the colour wheel.
func Palette(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = fmt.Sprintf("hsl(%s, 100%%, 50%%)", formatHue(Hue(i, n)))
	}
	return colors
}

// Hue returns the hue in degrees for slice i of n.
func Hue(i, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(i) * 360 / float64(n)
}

func formatHue(h float64) string {
	if h == math.Trunc(h) {
		return fmt.Sprintf("%d", int(h))
	}
	return fmt.Sprintf("%g", h)
}
