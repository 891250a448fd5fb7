package scenario

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Plan is a scenario described in a YAML batch file:
//
//	scenarios:
//	  - title: Late steel
//	    activity: 3
//	    delta_days: 4
type Plan struct {
	Title      string  `yaml:"title"`
	ActivityID int     `yaml:"activity"`
	DeltaDays  float64 `yaml:"delta_days"`
}

type planFile struct {
	Scenarios []Plan `yaml:"scenarios"`
}

// ReadPlans decodes a YAML batch of scenario plans.
func ReadPlans(r io.Reader) ([]Plan, error) {
	var f planFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse scenario plans: %w", err)
	}
	return f.Scenarios, nil
}

// SaveAll saves plans in order and stops at the first rejection, returning
// the scenarios saved so far.
func (l *Library) SaveAll(plans []Plan) ([]Scenario, error) {
	var saved []Scenario
	for i, p := range plans {
		sc, err := l.Save(p.Title, p.ActivityID, p.DeltaDays)
		if err != nil {
			return saved, fmt.Errorf("plan %d: %w", i+1, err)
		}
		saved = append(saved, sc)
	}
	return saved, nil
}
