// Package domain turns rows of a tabular climate file into normalized
// records using the rules of a resolved format profile.
//
// # Input Files
//
// Climate inputs are CSV files with one header row. One column holds the
// record date; the others hold climate variables under whatever header the
// data provider chose, e.g. "Tmax", "maxTemp", "ppt" or "wind_from_direction".
// Columns are recognised through the profile's trigger words:
//
//	header cell "TMAX"   →  MaxTemp   (trigger word "Tmax", case-insensitive)
//	header cell "ppt"    →  Precip
//	header cell "flags"  →  ignored
//
// A header must equal a trigger word after trimming; substrings do not match,
// so "maxTemp_qc" is not MaxTemp. When several columns match one variable the
// earliest trigger word wins, then the leftmost column. A column is claimed by
// at most one variable, in [format.Variables] order.
//
// # Canonical Units
//
//	temperature       °C      celsius = raw + TemperatureTransformation
//	precipitation     cm      cm      = raw * PrecipTransformation
//	wind speed        km/h    kmh     = raw * WindSpeedTransformation
//	wind direction    deg     to      = (raw + WindDirectionTransformation) mod 360
//
// Precipitation is a total per time step. Formats that carry a kg·m⁻²·s⁻¹
// rate fold the step length into the factor (8640 per day, 262974.6 per
// month), which is why the factor depends on the step as well as the unit.
// Every other variable passes through unchanged.
//
// Wind direction arrives as the direction the wind blows from and is stored
// as the direction it blows to, wrapped into [0, 360).
//
// # Missing Values
//
// Empty cells and "NA" are treated as missing and omitted from the record.
// Any other non-numeric cell fails the row.
//
// # ID Generation
//
// Record IDs are short SHA-256 hashes of format|date|values so that
// re-ingesting the same file produces the same keys downstream. See [generateID].
package domain
