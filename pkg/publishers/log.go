package publishers

import "context"

// logPublisher writes events to the application log.
type logPublisher struct {
	id    string
	level string
	log   Logger
}

func newLogPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	level := "info"
	if cfg.Log != nil && cfg.Log.Level != "" {
		level = cfg.Log.Level
	}
	return &logPublisher{id: cfg.ID, level: level, log: ensureLogger(log)}, nil
}

func (l *logPublisher) ID() string   { return l.id }
func (l *logPublisher) Type() string { return TypeLog }
func (l *logPublisher) Close() error { return nil }

func (l *logPublisher) Publish(_ context.Context, evt Event) error {
	const msg = "probe outcome"
	switch l.level {
	case "debug":
		l.log.DebugObj(msg, "event", evt)
	case "warn":
		l.log.WarnObj(msg, "event", evt)
	default:
		l.log.InfoObj(msg, "event", evt)
	}
	return nil
}
