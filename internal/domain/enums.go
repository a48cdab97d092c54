package domain

import (
	"strings"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// EventSource is where a logged event came from.
type EventSource string

const (
	SourceVoice  EventSource = "voice"
	SourcePhoto  EventSource = "photo"
	SourceText   EventSource = "text"
	SourceManual EventSource = "manual"
)

func (s EventSource) Valid() bool {
	switch s {
	case SourceVoice, SourcePhoto, SourceText, SourceManual:
		return true
	}
	return false
}

func ParseEventSource(s string) (EventSource, error) {
	src := EventSource(strings.ToLower(strings.TrimSpace(s)))
	if !src.Valid() {
		return "", apperrors.NewInvalidError(apperrors.CodeInvalidEnum, "unknown event source %q", s)
	}
	return src, nil
}

// SymptomType is the closed set of symptoms a user can report.
type SymptomType string

const (
	SymptomDizziness    SymptomType = "dizziness"
	SymptomWeakness     SymptomType = "weakness"
	SymptomHeadache     SymptomType = "headache"
	SymptomCramps       SymptomType = "cramps"
	SymptomDiarrhea     SymptomType = "diarrhea"
	SymptomConstipation SymptomType = "constipation"
	SymptomBrainFog     SymptomType = "brain_fog"
	SymptomNausea       SymptomType = "nausea"
	SymptomHighEnergy   SymptomType = "high_energy"
	SymptomLowEnergy    SymptomType = "low_energy"
)

// SymptomTypes lists every symptom in display order.
var SymptomTypes = []SymptomType{
	SymptomDizziness, SymptomWeakness, SymptomHeadache, SymptomCramps, SymptomDiarrhea,
	SymptomConstipation, SymptomBrainFog, SymptomNausea, SymptomHighEnergy, SymptomLowEnergy,
}

func (t SymptomType) Valid() bool {
	for _, known := range SymptomTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseSymptomType accepts the canonical names plus dashes or spaces in
// place of underscores ("brain fog").
func ParseSymptomType(s string) (SymptomType, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	t := SymptomType(n)
	if !t.Valid() {
		return "", apperrors.NewInvalidError(apperrors.CodeInvalidEnum, "unknown symptom type %q", s)
	}
	return t, nil
}

// Electrolyte reports whether the symptom counts towards electrolyte risk.
func (t SymptomType) Electrolyte() bool {
	switch t {
	case SymptomDizziness, SymptomWeakness, SymptomCramps, SymptomHeadache:
		return true
	}
	return false
}

// EnergySign is +1 for high energy, -1 for low energy or brain fog and 0
// for symptoms that say nothing about energy.
func (t SymptomType) EnergySign() int {
	switch t {
	case SymptomHighEnergy:
		return 1
	case SymptomLowEnergy, SymptomBrainFog:
		return -1
	}
	return 0
}
