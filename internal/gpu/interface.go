package gpu

// Sensor reads the primary GPU.
type Sensor interface {
	Name() string
	Temperature() (Temperature, error)
	Close() error
}

// Temperature is a GPU core temperature in degrees Celsius.
type Temperature int

// Reading is the /info view of one GPU.
type Reading struct {
	Index       int         `json:"index"`
	Name        string      `json:"name"`
	Temperature Temperature `json:"temperature"`
}
