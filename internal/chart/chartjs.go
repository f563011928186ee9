package chart

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ChartJS draws charts in the browser by emitting a Chart.js constructor
// call bound to the context's canvas element.
type ChartJS struct{}

// Draw writes the script statement that renders cfg on the canvas named by dc.
func (ChartJS) Draw(dc Context, cfg Config) error {
	if dc == nil || dc.ID() == "" {
		return errors.New("chart.js needs a canvas element id")
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode chart config: %w", err)
	}
	id, err := json.Marshal(dc.ID())
	if err != nil {
		return fmt.Errorf("encode canvas id: %w", err)
	}

	_, err = fmt.Fprintf(dc, "new Chart(document.getElementById(%s).getContext(\"2d\"), %s);\n", id, payload)
	return err
}
