package models

import "time"

// AlertDirection represents the trigger condition of a price alert.
type AlertDirection string

const (
	// AlertAbove triggers when the price reaches or exceeds the target.
	AlertAbove AlertDirection = "above"
	// AlertBelow triggers when the price reaches or falls below the target.
	AlertBelow AlertDirection = "below"
)

// Alert represents a one-shot price alert. The untriggered to triggered
// transition is permanent; a triggered alert is never re-armed.
type Alert struct {
	Symbol      string
	Direction   AlertDirection
	TargetPrice float64
	CreatedAt   time.Time
	Triggered   bool
	TriggeredAt *time.Time
}
