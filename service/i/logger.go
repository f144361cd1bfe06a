package i

// Logger is the leveled logger services write to.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
	Debug(string)
}
