package configuration

// DefaultConfig is the default configuration of the package
type DefaultConfig struct {
	Title      string                 // package title
	Parameters map[string]interface{} // parameters, nil value means the parameter is required from the user
}
