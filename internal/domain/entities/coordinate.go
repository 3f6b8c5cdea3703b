package entities

// Coordinate represents an immutable geographical point in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Valid reports whether the coordinate lies within the valid
// latitude [-90, 90] and longitude [-180, 180] ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// SearchLocation is the origin of a search: a coordinate plus a display label.
// It is produced either from a device position fix or from a resolved address.
type SearchLocation struct {
	Coordinate Coordinate `json:"coordinate"`
	Label      string     `json:"label"`
}
