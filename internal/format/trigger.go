package format

// TriggerWordTable maps each variable to the column-header aliases that
// identify it, most preferred first. Aliases are not unique across variables.
type TriggerWordTable map[VariableKind][]string

// defaultTriggerWords is built once and shared read-only by every Profile.
// Nothing may write to it after init.
var defaultTriggerWords = TriggerWordTable{
	MaxTemp:            {"maxTemp", "Tmax"},
	MinTemp:            {"minTemp", "Tmin"},
	Precip:             {"ppt", "precip", "Prcp"},
	WindDirection:      {"windDirect", "wd", "winddirection", "wind_from_direction"},
	WindSpeed:          {"windSpeed", "ws", "wind_speed"},
	WindEasting:        {"wind_easting", "easting"},
	WindNorthing:       {"northing", "wind_northing"},
	NDeposition:        {"Ndeposition", "Ndep"},
	CO2:                {"CO2", "CO2conc"},
	RelativeHumidity:   {"relative_humidity", "RH"},
	MaxRH:              {"max_relative_humidity", "maxRH"},
	MinRH:              {"min_relative_humidity", "minRH"},
	SpecificHumidity:   {"specific_humidity", "SH"},
	PET:                {"pet", "PET", "potentialevapotranspiration"},
	PAR:                {"PAR", "Light"},
	Ozone:              {"ozone", "O3"},
	ShortWaveRadiation: {"shortwave_radiation", "SW_radiation", "SWR"},
	Temperature:        {"Temp", "Temperature"},
}

// Words returns a copy of the aliases for kind, or nil if the table has none.
func (t TriggerWordTable) Words(kind VariableKind) []string {
	words, ok := t[kind]
	if !ok {
		return nil
	}
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// Clone returns a deep copy of the table.
func (t TriggerWordTable) Clone() TriggerWordTable {
	out := make(TriggerWordTable, len(t))
	for kind := range t {
		out[kind] = t.Words(kind)
	}
	return out
}
