package format

import "encoding/json"

// Profile is the resolved parsing profile for one file format. It is immutable
// once returned by Resolve; every accessor hands out values or copies.
type Profile struct {
	format       string
	timeStep     TemporalGranularity
	triggerWords TriggerWordTable // shared, never written

	precipTransformation        float64
	temperatureTransformation   float64
	windSpeedTransformation     float64
	windDirectionTransformation float64
}

// Format returns the identifier exactly as it was passed to Resolve.
func (p *Profile) Format() string { return p.format }

// TimeStep returns the sampling interval implied by the format.
func (p *Profile) TimeStep() TemporalGranularity { return p.timeStep }

// TriggerWords returns a copy of the aliases recognised for kind.
func (p *Profile) TriggerWords(kind VariableKind) []string { return p.triggerWords.Words(kind) }

// TriggerWordTable returns a deep copy of the full alias table.
func (p *Profile) TriggerWordTable() TriggerWordTable { return p.triggerWords.Clone() }

// PrecipTransformation is multiplicative: cm = raw * factor.
func (p *Profile) PrecipTransformation() float64 { return p.precipTransformation }

// TemperatureTransformation is additive: celsius = raw + offset.
func (p *Profile) TemperatureTransformation() float64 { return p.temperatureTransformation }

// WindSpeedTransformation is multiplicative: km/h = raw * factor.
func (p *Profile) WindSpeedTransformation() float64 { return p.windSpeedTransformation }

// WindDirectionTransformation is an additive offset in degrees that turns the
// direction the wind comes from into the direction it blows to.
func (p *Profile) WindDirectionTransformation() float64 { return p.windDirectionTransformation }

type profileJSON struct {
	Format                      string              `json:"format"`
	TimeStep                    TemporalGranularity `json:"time_step"`
	TriggerWords                TriggerWordTable    `json:"trigger_words"`
	PrecipTransformation        float64             `json:"precip_transformation"`
	TemperatureTransformation   float64             `json:"temperature_transformation"`
	WindSpeedTransformation     float64             `json:"wind_speed_transformation"`
	WindDirectionTransformation float64             `json:"wind_direction_transformation"`
}

// MarshalJSON exposes the profile's read-only fields, including the trigger
// words, for the /formats endpoint and the formatinfo CLI.
func (p *Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(profileJSON{
		Format:                      p.format,
		TimeStep:                    p.timeStep,
		TriggerWords:                p.triggerWords,
		PrecipTransformation:        p.precipTransformation,
		TemperatureTransformation:   p.temperatureTransformation,
		WindSpeedTransformation:     p.windSpeedTransformation,
		WindDirectionTransformation: p.windDirectionTransformation,
	})
}
