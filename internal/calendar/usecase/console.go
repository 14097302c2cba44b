package usecase

import "log"

// logConsole narrates sync progress to the process log. Messages are
// operator-facing only; nothing reads them back.
type logConsole struct{}

// NewLogConsole returns the default console sink.
func NewLogConsole() ConsoleSink {
	return logConsole{}
}

func (logConsole) Narrate(userID, runID, message string) {
	log.Printf("[CalendarSync] user=%s run=%s %s", userID, runID, message)
}
