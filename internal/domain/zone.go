package domain

// Zone represents a coverage zone derived from drive time to the customer
type Zone string

const (
	ZoneA         Zone = "A"
	ZoneB         Zone = "B"
	ZoneC         Zone = "C"
	ZoneOutOfArea Zone = "OUT_OF_AREA"
)

// Serviceable returns true if the zone can be booked online
func (z Zone) Serviceable() bool {
	return z == ZoneA || z == ZoneB || z == ZoneC
}

// ZoneForDriveTime maps a drive time in minutes to a coverage zone
func ZoneForDriveTime(driveTimeMins int) Zone {
	switch {
	case driveTimeMins <= ZoneAMaxDriveMins:
		return ZoneA
	case driveTimeMins <= ZoneBMaxDriveMins:
		return ZoneB
	case driveTimeMins <= ZoneCMaxDriveMins:
		return ZoneC
	default:
		return ZoneOutOfArea
	}
}

// ZoneResult holds the outcome of classifying a customer postcode
type ZoneResult struct {
	Zone          Zone
	DriveTimeMins int
	BaseName      string
	BasePostcode  string
}
