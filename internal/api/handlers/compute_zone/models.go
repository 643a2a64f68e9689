package compute_zone

// ComputeZoneRequest HTTP request model
type ComputeZoneRequest struct {
	Postcode string `json:"postcode"`
}

// ComputeZoneResponse HTTP response model
type ComputeZoneResponse struct {
	Zone          string `json:"zone"`
	Serviceable   bool   `json:"serviceable"`
	DriveTimeMins int    `json:"driveTimeMins"`
	NearestBase   string `json:"nearestBase"`
}
