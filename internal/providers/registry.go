package providers

var (
	_ Provider = (*StravaProvider)(nil)
	_ Provider = (*FitbitProvider)(nil)
	_ Provider = (*GarminProvider)(nil)
	_ Provider = (*WhoopProvider)(nil)
	_ Provider = (*TerraProvider)(nil)
	_ Provider = (*SyntheticProvider)(nil)
)

// Names lists every provider name the tool catalog accepts, in the order
// every provider this package supports is listed here.
var Names = []string{"strava", "fitbit", "garmin", "whoop", "terra", "synthetic"}

// IsKnown reports whether name is a recognized provider identifier.
func IsKnown(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
