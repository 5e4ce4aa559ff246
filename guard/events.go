package guard

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/navguard/navguard"
)

// LogSink writes events through zerolog
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink using the provided logger
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// NewDefaultLogSink using the global logger
func NewDefaultLogSink() *LogSink {
	return &LogSink{logger: log.Logger}
}

// Emit one structured record per transition
func (s *LogSink) Emit(evt navguard.Event) {
	if evt.TS.IsZero() {
		evt.TS = time.Now()
	}
	s.logger.Info().
		Str("flow_id", evt.FlowID).
		Str("event", evt.Name).
		Time("ts", evt.TS).
		Fields(evt.Details).
		Msg("navigation event")
}

// Appender is the journal half of the event log, satisfied by
// store.EventJournal
type Appender interface {
	Append(evt navguard.Event) error
}

// JournalSink persists events so the events command can replay a session
type JournalSink struct {
	journal Appender
}

// NewJournalSink around an appender
func NewJournalSink(journal Appender) *JournalSink {
	return &JournalSink{journal: journal}
}

// Emit appends, logging (not raising) on journal failure so a full disk
// never breaks navigation
func (s *JournalSink) Emit(evt navguard.Event) {
	if evt.TS.IsZero() {
		evt.TS = time.Now()
	}
	if err := s.journal.Append(evt); err != nil {
		log.Error().Err(err).Str("event", evt.Name).Msg("failed to journal event")
	}
}

// MultiSink fans out to every sink
type MultiSink []navguard.EventSink

// Emit to all
func (s MultiSink) Emit(evt navguard.Event) {
	for _, sink := range s {
		sink.Emit(evt)
	}
}
