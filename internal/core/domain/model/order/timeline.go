package order

import "time"

// TimelineEntry is one record in the order's append-only timeline: which status
// the order was in after the event, when, on whose behalf, and whether the
// change was made by an automated process or a human operator.
//
// Entries are immutable once appended; the timeline is the audit trail of every
// transition and is never truncated.
type TimelineEntry struct {
	status     Status
	occurredAt time.Time
	actor      string
	note       string
	automated  bool
}

// RestoreTimelineEntry reconstructs a timeline entry from persistence.
func RestoreTimelineEntry(status Status, occurredAt time.Time, actor, note string, automated bool) TimelineEntry {
	return TimelineEntry{
		status:     status,
		occurredAt: occurredAt,
		actor:      actor,
		note:       note,
		automated:  automated,
	}
}

// Status returns the order status recorded by the entry.
func (e TimelineEntry) Status() Status {
	return e.status
}

// OccurredAt returns when the entry was recorded.
func (e TimelineEntry) OccurredAt() time.Time {
	return e.occurredAt
}

// Actor returns who caused the entry: an operator login, an agent id, or a
// system component name for automated changes.
func (e TimelineEntry) Actor() string {
	return e.actor
}

// Note returns the free-form annotation attached to the entry.
func (e TimelineEntry) Note() string {
	return e.note
}

// Automated reports whether the entry was produced by an automated process.
func (e TimelineEntry) Automated() bool {
	return e.automated
}
