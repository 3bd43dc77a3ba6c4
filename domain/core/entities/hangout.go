package entities

import (
	"errors"
	"strings"
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// HangoutVisibility controls who sees a hangout in group feeds
type HangoutVisibility string

const (
	HangoutVisibilityPublic  HangoutVisibility = "public"
	HangoutVisibilityPrivate HangoutVisibility = "private"
)

// TicketInfo describes ticketing for a hangout, if any
type TicketInfo struct {
	Required   bool
	Link       string
	PriceCents int64
	Currency   string
}

// Hangout is the canonical event record and the source of truth for every
// field that appears on its per-group pointers.
type Hangout struct {
	id               valueobjects.HangoutID
	title            string
	description      string
	window           valueobjects.TimeWindow
	location         string
	visibility       HangoutVisibility
	groupIDs         []valueobjects.GroupID
	seriesID         valueobjects.SeriesID
	externalSource   string
	mainImagePath    string
	ticketInfo       TicketInfo
	participantCount int
	reminderSent     bool
	createdBy        valueobjects.UserID
	createdAt        time.Time
	updatedAt        time.Time
}

// NewHangout creates a new hangout associated with at least one group
func NewHangout(
	title string,
	window valueobjects.TimeWindow,
	visibility HangoutVisibility,
	groupIDs []valueobjects.GroupID,
	createdBy valueobjects.UserID,
) (*Hangout, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("hangout title cannot be empty")
	}
	if window.IsZero() {
		return nil, errors.New("hangout time window is required")
	}
	if len(groupIDs) == 0 {
		return nil, errors.New("hangout must be associated with at least one group")
	}
	if visibility != HangoutVisibilityPublic && visibility != HangoutVisibilityPrivate {
		return nil, errors.New("invalid hangout visibility")
	}
	now := time.Now().UTC()
	return &Hangout{
		id:         valueobjects.NewHangoutID(),
		title:      title,
		window:     window,
		visibility: visibility,
		groupIDs:   append([]valueobjects.GroupID(nil), groupIDs...),
		createdBy:  createdBy,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructHangout rebuilds a hangout from persisted attributes
func ReconstructHangout(
	id valueobjects.HangoutID,
	title, description string,
	window valueobjects.TimeWindow,
	location string,
	visibility HangoutVisibility,
	groupIDs []valueobjects.GroupID,
	seriesID valueobjects.SeriesID,
	externalSource, mainImagePath string,
	ticketInfo TicketInfo,
	participantCount int,
	reminderSent bool,
	createdBy valueobjects.UserID,
	createdAt, updatedAt time.Time,
) *Hangout {
	return &Hangout{
		id:               id,
		title:            title,
		description:      description,
		window:           window,
		location:         location,
		visibility:       visibility,
		groupIDs:         groupIDs,
		seriesID:         seriesID,
		externalSource:   externalSource,
		mainImagePath:    mainImagePath,
		ticketInfo:       ticketInfo,
		participantCount: participantCount,
		reminderSent:     reminderSent,
		createdBy:        createdBy,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (h *Hangout) ID() valueobjects.HangoutID { return h.id }
func (h *Hangout) Title() string { return h.title }
func (h *Hangout) Description() string { return h.description }
func (h *Hangout) Window() valueobjects.TimeWindow { return h.window }
func (h *Hangout) Location() string { return h.location }
func (h *Hangout) Visibility() HangoutVisibility { return h.visibility }
func (h *Hangout) SeriesID() valueobjects.SeriesID { return h.seriesID }
func (h *Hangout) ExternalSource() string { return h.externalSource }
func (h *Hangout) MainImagePath() string { return h.mainImagePath }
func (h *Hangout) TicketInfo() TicketInfo { return h.ticketInfo }
func (h *Hangout) ParticipantCount() int { return h.participantCount }
func (h *Hangout) ReminderSent() bool { return h.reminderSent }
func (h *Hangout) CreatedBy() valueobjects.UserID { return h.createdBy }
func (h *Hangout) CreatedAt() time.Time { return h.createdAt }
func (h *Hangout) UpdatedAt() time.Time { return h.updatedAt }

// GroupIDs returns the groups this hangout is shared with
func (h *Hangout) GroupIDs() []valueobjects.GroupID {
	return append([]valueobjects.GroupID(nil), h.groupIDs...)
}

// InSeries reports whether this hangout belongs to an event series. Readers
// infer series membership from the presence of the link alone, which is why
// series linkage is only ever written transactionally.
func (h *Hangout) InSeries() bool {
	return !h.seriesID.IsZero()
}

// SetTitle updates the hangout title
func (h *Hangout) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("hangout title cannot be empty")
	}
	h.title = title
	h.touch()
	return nil
}

// SetDescription updates the description
func (h *Hangout) SetDescription(description string) {
	h.description = description
	h.touch()
}

// Reschedule replaces the time window
func (h *Hangout) Reschedule(window valueobjects.TimeWindow) error {
	if window.IsZero() {
		return errors.New("hangout time window is required")
	}
	h.window = window
	h.touch()
	return nil
}

// SetLocation updates the location
func (h *Hangout) SetLocation(location string) {
	h.location = location
	h.touch()
}

// SetVisibility updates the visibility
func (h *Hangout) SetVisibility(v HangoutVisibility) error {
	if v != HangoutVisibilityPublic && v != HangoutVisibilityPrivate {
		return errors.New("invalid hangout visibility")
	}
	h.visibility = v
	h.touch()
	return nil
}

// SetMainImage updates the image path
func (h *Hangout) SetMainImage(path string) {
	h.mainImagePath = path
	h.touch()
}

// SetTicketInfo updates ticketing details
func (h *Hangout) SetTicketInfo(info TicketInfo) {
	h.ticketInfo = info
	h.touch()
}

// SetExternalSource records the dedup key of an imported event
func (h *Hangout) SetExternalSource(key string) {
	h.externalSource = key
	h.touch()
}

// LinkSeries attaches the hangout to a series
func (h *Hangout) LinkSeries(seriesID valueobjects.SeriesID) error {
	if seriesID.IsZero() {
		return errors.New("series ID cannot be zero")
	}
	h.seriesID = seriesID
	h.touch()
	return nil
}

// UnlinkSeries detaches the hangout from its series
func (h *Hangout) UnlinkSeries() {
	h.seriesID = valueobjects.SeriesID{}
	h.touch()
}

// AssociateGroup adds a group association if not already present
func (h *Hangout) AssociateGroup(groupID valueobjects.GroupID) bool {
	for _, id := range h.groupIDs {
		if id.Equals(groupID) {
			return false
		}
	}
	h.groupIDs = append(h.groupIDs, groupID)
	h.touch()
	return true
}

// DissociateGroup removes a group association
func (h *Hangout) DissociateGroup(groupID valueobjects.GroupID) bool {
	for i, id := range h.groupIDs {
		if id.Equals(groupID) {
			h.groupIDs = append(h.groupIDs[:i], h.groupIDs[i+1:]...)
			h.touch()
			return true
		}
	}
	return false
}

// MarkReminderSent flags that the pre-event reminder went out
func (h *Hangout) MarkReminderSent() {
	h.reminderSent = true
	h.touch()
}

func (h *Hangout) touch() {
	h.updatedAt = time.Now().UTC()
}
