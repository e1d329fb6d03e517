package session

import "m3u-lineup/logger"

// Notifier surfaces the outcome of user actions.
type Notifier interface {
	Success(title, msg string)
	Error(title, msg string)
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger logger.Logger
}

func NewLogNotifier(l logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.Default
	}
	return &LogNotifier{Logger: l}
}

func (n *LogNotifier) Success(title, msg string) {
	n.Logger.Logf("%s: %s", title, msg)
}

func (n *LogNotifier) Error(title, msg string) {
	n.Logger.Errorf("%s: %s", title, msg)
}
