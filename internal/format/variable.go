package format

import "fmt"

// VariableKind identifies a climate variable a column in an input file can hold.
type VariableKind int

const (
	MaxTemp VariableKind = iota
	MinTemp
	Precip
	WindDirection
	WindSpeed
	WindEasting
	WindNorthing
	NDeposition
	CO2
	RelativeHumidity
	MaxRH
	MinRH
	SpecificHumidity
	PET
	PAR
	Ozone
	ShortWaveRadiation
	// Temperature is a generic temperature signal, distinct from MaxTemp and MinTemp.
	Temperature
)

var variableNames = [...]string{
	MaxTemp:            "MaxTemp",
	MinTemp:            "MinTemp",
	Precip:             "Precip",
	WindDirection:      "WindDirection",
	WindSpeed:          "WindSpeed",
	WindEasting:        "WindEasting",
	WindNorthing:       "WindNorthing",
	NDeposition:        "NDeposition",
	CO2:                "CO2",
	RelativeHumidity:   "RelativeHumidity",
	MaxRH:              "MaxRH",
	MinRH:              "MinRH",
	SpecificHumidity:   "SpecificHumidity",
	PET:                "PET",
	PAR:                "PAR",
	Ozone:              "Ozone",
	ShortWaveRadiation: "ShortWaveRadiation",
	Temperature:        "Temperature",
}

// Variables returns every VariableKind in declaration order.
func Variables() []VariableKind {
	out := make([]VariableKind, len(variableNames))
	for i := range variableNames {
		out[i] = VariableKind(i)
	}
	return out
}

func (v VariableKind) String() string {
	if v < 0 || int(v) >= len(variableNames) {
		return fmt.Sprintf("VariableKind(%d)", int(v))
	}
	return variableNames[v]
}

// MarshalText lets VariableKind serve as a JSON map key.
func (v VariableKind) MarshalText() ([]byte, error) {
	if v < 0 || int(v) >= len(variableNames) {
		return nil, fmt.Errorf("unknown variable kind %d", int(v))
	}
	return []byte(variableNames[v]), nil
}

// UnmarshalText parses a variable name as produced by MarshalText.
func (v *VariableKind) UnmarshalText(b []byte) error {
	for i, name := range variableNames {
		if name == string(b) {
			*v = VariableKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown variable kind %q", b)
}

// TemporalGranularity is the sampling interval of records in an input file.
type TemporalGranularity int

const (
	Daily TemporalGranularity = iota
	Monthly
)

func (g TemporalGranularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	default:
		return fmt.Sprintf("TemporalGranularity(%d)", int(g))
	}
}

// MarshalText encodes the granularity as "daily" or "monthly".
func (g TemporalGranularity) MarshalText() ([]byte, error) {
	switch g {
	case Daily, Monthly:
		return []byte(g.String()), nil
	default:
		return nil, fmt.Errorf("unknown temporal granularity %d", int(g))
	}
}

// UnmarshalText accepts the names produced by MarshalText.
func (g *TemporalGranularity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "daily":
		*g = Daily
	case "monthly":
		*g = Monthly
	default:
		return fmt.Errorf("unknown temporal granularity %q", b)
	}
	return nil
}
