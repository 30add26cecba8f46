package system

// logger matches app.Logger.
type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}
