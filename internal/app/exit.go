package app

// Exit codes
const (
	Success           = 0
	UsageError        = 1
	FileNotFound      = 2
	MissingDependency = 3
	LoadFailure       = 4
	DisplayFailure    = 5
)

// ExitError is an error that carries the process exit code
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
