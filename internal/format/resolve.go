package format

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/climate-format-etl/internal/observability"
)

// absoluteZero converts Kelvin to Celsius when added to a raw value.
const absoluteZero = -273.15

const (
	// defaultWindSpeedFactor converts m/s to km/h.
	defaultWindSpeedFactor = 3.6
	// defaultWindDirectionOffset turns a from-direction into a to-direction.
	defaultWindDirectionOffset = 180
)

// ErrUnsupportedFormat is matched by every *UnsupportedFormatError via errors.Is.
var ErrUnsupportedFormat = errors.New("unsupported climate file format")

// UnsupportedFormatError reports a format identifier outside the supported set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Error in FormatProfileResolver: the given %q file format is not supported.", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// rule holds the coefficients a format implies.
type rule struct {
	name          string
	timeStep      TemporalGranularity
	tempOffset    float64
	precipFactor  float64
	windSpeed     float64
	windDirOffset float64
}

// rules is ordered for SupportedFormats; names are lowercase.
var rules = []rule{
	// Celsius, precip accumulated in mm.
	{name: "daily_temp-c_precip-mmday", timeStep: Daily, tempOffset: 0, precipFactor: 0.1, windSpeed: defaultWindSpeedFactor, windDirOffset: defaultWindDirectionOffset},
	{name: "monthly_temp-c_precip-mmmonth", timeStep: Monthly, tempOffset: 0, precipFactor: 0.1, windSpeed: defaultWindSpeedFactor, windDirOffset: defaultWindDirectionOffset},
	// Kelvin, precip as a kg/m2/s rate scaled to cm per step.
	{name: "monthly_temp-k_precip-kgm2sec", timeStep: Monthly, tempOffset: absoluteZero, precipFactor: 262974.6, windSpeed: defaultWindSpeedFactor, windDirOffset: defaultWindDirectionOffset},
	{name: "daily_temp-k_precip-kgm2sec", timeStep: Daily, tempOffset: absoluteZero, precipFactor: 8640.0, windSpeed: defaultWindSpeedFactor, windDirOffset: defaultWindDirectionOffset},
	// Kelvin, precip accumulated in mm.
	{name: "monthly_temp-k_precip-mmmonth", timeStep: Monthly, tempOffset: absoluteZero, precipFactor: 0.1, windSpeed: defaultWindSpeedFactor, windDirOffset: defaultWindDirectionOffset},
	{name: "daily_temp-k_precip-mmday", timeStep: Daily, tempOffset: absoluteZero, precipFactor: 0.1, windSpeed: defaultWindSpeedFactor, windDirOffset: defaultWindDirectionOffset},
}

var rulesByName = func() map[string]rule {
	m := make(map[string]rule, len(rules))
	for _, r := range rules {
		m[r.name] = r
	}
	return m
}()

// SupportedFormats lists the canonical format identifiers.
func SupportedFormats() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.name
	}
	return out
}

// IsSupported reports whether format names a supported format, ignoring case.
func IsSupported(format string) bool {
	_, ok := rulesByName[strings.ToLower(format)]
	return ok
}

// Resolver resolves format identifiers, reporting failures to a logger and
// counting outcomes when metrics are configured.
type Resolver struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewResolver creates a Resolver. Both arguments may be nil.
func NewResolver(logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{logger: logger, metrics: metrics}
}

// Resolve uses the default slog logger and records no metrics.
func Resolve(format string) (*Profile, error) {
	return NewResolver(slog.Default(), nil).Resolve(format)
}

// Resolve returns the profile for format, compared case-insensitively.
// Unknown identifiers yield *UnsupportedFormatError and no profile.
func (r *Resolver) Resolve(format string) (*Profile, error) {
	rl, ok := rulesByName[strings.ToLower(format)]
	if !ok {
		err := &UnsupportedFormatError{Format: format}
		if r.logger != nil {
			r.logger.Error(err.Error(), "format", format)
		}
		r.observe("unsupported")
		return nil, err
	}
	r.observe("resolved")

	return &Profile{
		format:                      format,
		timeStep:                    rl.timeStep,
		triggerWords:                defaultTriggerWords,
		precipTransformation:        rl.precipFactor,
		temperatureTransformation:   rl.tempOffset,
		windSpeedTransformation:     rl.windSpeed,
		windDirectionTransformation: rl.windDirOffset,
	}, nil
}

func (r *Resolver) observe(outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.FormatResolutions.WithLabelValues(outcome).Inc()
}
