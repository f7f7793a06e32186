package main

import (
	"encoding/json"
	"io"
	"math"

	"github.com/katalvlaran/gclp/equilibrium"
)

// jsonLines writes one JSON document per line.
type jsonLines struct {
	enc *json.Encoder
}

func newJSONLines(w io.Writer) *jsonLines { return &jsonLines{enc: json.NewEncoder(w)} }

func (j *jsonLines) write(v any) error { return j.enc.Encode(v) }

// number maps NaN and ±Inf to JSON null.
func number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}

func numberPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}

	return number(*v)
}

func errString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

type phaseLine struct {
	Phase    string  `json:"phase"`
	Energy   float64 `json:"energy"`
	Fraction float64 `json:"fraction"`
}

type solveLine struct {
	Target string      `json:"target"`
	Energy *float64    `json:"energy"`
	Phases []phaseLine `json:"phases,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func newSolveLine(eq equilibrium.Equilibrium) solveLine {
	line := solveLine{Target: eq.Target.String(), Energy: number(eq.Energy)}
	for _, pf := range eq.Phases {
		line.Phases = append(line.Phases, phaseLine{
			Phase:    pf.Phase.Composition.String(),
			Energy:   pf.Phase.Energy,
			Fraction: pf.Fraction,
		})
	}

	return line
}

type stabilityLine struct {
	Composition string   `json:"composition"`
	Hull        *float64 `json:"hull"`
	Measured    *float64 `json:"measured,omitempty"`
	Predicted   *float64 `json:"predicted,omitempty"`
	Error       string   `json:"error,omitempty"`
}

type filterLine struct {
	Composition string   `json:"composition"`
	Measured    *float64 `json:"measured,omitempty"`
	Predicted   *float64 `json:"predicted,omitempty"`
	Keep        bool     `json:"keep"`
	Error       string   `json:"error,omitempty"`
}
