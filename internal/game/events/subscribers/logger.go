package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/CoinNim/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	// If no filter is set, interested in all events
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	// Create the base event log
	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Ints("piles", e.Piles).
			Ints("allowed_moves", e.Allowed).
			Str("player1_strategy", string(e.Player1Strategy)).
			Str("player2_strategy", string(e.Player2Strategy)).
			Strs("restrictions", e.Restrictions)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", int(e.Winner)).
			Int("moves", e.Moves).
			Dur("duration", e.Duration)

	case *events.MoveAppliedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("player", int(e.Record.Player)).
			Int("pile_index", e.Record.PileIndex).
			Int("coins_taken", e.Record.CoinsToTake).
			Str("strategy", string(e.Record.Strategy)).
			Bool("timeout", e.Record.TimedOut).
			Ints("piles_after", e.PilesAfter)

	case *events.MoveRejectedEvent:
		logEvent.
			Int("player", int(e.Player)).
			Int("pile_index", e.Move.PileIndex).
			Int("coins_taken", e.Move.CoinsToTake).
			Str("reason", e.Reason)

	case *events.StrategyFailedEvent:
		logEvent.
			Int("player", int(e.Player)).
			Str("stage", e.Stage).
			Str("error", e.Error)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromState).
			Str("to", e.ToState).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	// Send the log
	logEvent.Msg("Game event")
}
