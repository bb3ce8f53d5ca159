// Package catalog loads program structures from YAML or JSON files and brings
// them into the shape the engine expects.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"alcyxob/fitness-calendar/internal/domain"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var (
	ErrUnknownFormat  = errors.New("unknown catalog format")
	ErrEmptyCatalog   = errors.New("catalog contains no programs")
	ErrInvalidDayType = errors.New("invalid day type")
)

// programDoc is the file shape of a program. startDate is a plain
// YYYY-MM-DD date (RFC3339 is accepted too).
type programDoc struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description" yaml:"description"`
	StartDate     string         `json:"startDate" yaml:"startDate"`
	DurationWeeks int            `json:"durationWeeks" yaml:"durationWeeks"`
	Phases        []domain.Phase `json:"phases" yaml:"phases"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// LoadFile reads and normalizes every program in the file at path.
func LoadFile(path string) ([]domain.Program, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a single program or a list of programs and normalizes them.
func Parse(data []byte, format Format) ([]domain.Program, error) {
	var docs []programDoc
	var err error
	switch format {
	case FormatJSON:
		docs, err = decodeJSON(data)
	case FormatYAML:
		docs, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrEmptyCatalog
	}

	programs := make([]domain.Program, 0, len(docs))
	for i, doc := range docs {
		program, err := doc.toProgram()
		if err != nil {
			return nil, fmt.Errorf("program[%d]: %w", i, err)
		}
		if err := Normalize(&program); err != nil {
			return nil, fmt.Errorf("program[%d] %q: %w", i, program.Name, err)
		}
		programs = append(programs, program)
	}
	return programs, nil
}

// Normalize orders phases and weeks, fills Week.PhaseID, gives every node
// without an id a fresh uuid and checks day types. An empty day type is
// inferred: workout when it has exercises, rest otherwise.
func Normalize(p *domain.Program) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	sort.SliceStable(p.Phases, func(i, j int) bool {
		return p.Phases[i].Number < p.Phases[j].Number
	})

	for i := range p.Phases {
		phase := &p.Phases[i]
		if phase.ID == "" {
			phase.ID = uuid.NewString()
		}
		sort.SliceStable(phase.Weeks, func(a, b int) bool {
			return phase.Weeks[a].WeekNumber < phase.Weeks[b].WeekNumber
		})

		for j := range phase.Weeks {
			week := &phase.Weeks[j]
			if week.ID == "" {
				week.ID = uuid.NewString()
			}
			week.PhaseID = phase.ID

			for k := range week.Days {
				day := &week.Days[k]
				if day.ID == "" {
					day.ID = uuid.NewString()
				}
				if day.Type == "" {
					if len(day.Exercises) > 0 {
						day.Type = domain.DayTypeWorkout
					} else {
						day.Type = domain.DayTypeRest
					}
				}
				if !day.Type.IsValid() {
					return fmt.Errorf("%w %q in week %d", ErrInvalidDayType, day.Type, week.WeekNumber)
				}
				for e := range day.Exercises {
					if day.Exercises[e].ID == "" {
						day.Exercises[e].ID = uuid.NewString()
					}
				}
			}
		}
	}
	return nil
}

func (d programDoc) toProgram() (domain.Program, error) {
	program := domain.Program{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		DurationWeeks: d.DurationWeeks,
		Phases:        d.Phases,
	}
	if d.StartDate == "" {
		return program, nil
	}

	start, err := parseStartDate(d.StartDate)
	if err != nil {
		return program, err
	}
	program.StartDate = &start
	return program, nil
}

func parseStartDate(s string) (time.Time, error) {
	if t, err := domain.ParseISODate(s, nil); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("startDate %q: %w", s, domain.ErrInvalidDate)
}

func decodeJSON(data []byte) ([]programDoc, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []programDoc
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return docs, nil
	}

	var doc programDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return []programDoc{doc}, nil
}

func decodeYAML(data []byte) ([]programDoc, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		var docs []programDoc
		if err := node.Decode(&docs); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return docs, nil
	}

	var doc programDoc
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return []programDoc{doc}, nil
}
