package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message types carried on the subscribed channels.
const (
	TypeMatchUpdates    = "match_updates"
	TypeProcessorStatus = "processor_status"
	TypeSystemAlert     = "system_alert"
)

// Envelope is the decoded unit of one pub/sub message. The schema_version tag
// governs the payload shape; payloads from different versions share only the
// match identifier and team identifiers.
type Envelope struct {
	SchemaVersion string    `json:"schema_version,omitempty"`
	MessageID     string    `json:"message_id"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source"`
	Type          string    `json:"type"`
	Payload       Payload   `json:"payload"`
}

type Payload struct {
	Matches         []Match          `json:"matches"`
	DetailedChanges []DetailedChange `json:"detailed_changes,omitempty"`
	Metadata        PayloadMetadata  `json:"metadata,omitempty"`
}

type PayloadMetadata struct {
	HasChanges    bool   `json:"has_changes"`
	TotalMatches  int    `json:"total_matches"`
	ChangeSummary string `json:"change_summary,omitempty"`
}

// Match is one fixture. Enhanced-schema messages carry the nested Teams block;
// legacy messages carry flat team names only. LogoPath is attached by the
// dispatcher after enrichment and is never authoritative wire data.
type Match struct {
	MatchID      int64         `json:"match_id"`
	Teams        *Teams        `json:"teams,omitempty"`
	HomeTeamName string        `json:"home_team,omitempty"`
	AwayTeamName string        `json:"away_team,omitempty"`
	Venue        *Venue        `json:"venue,omitempty"`
	Referees     []Referee     `json:"referees,omitempty"`
	TeamContacts []TeamContact `json:"team_contacts,omitempty"`
	LogoPath     string        `json:"logo_path,omitempty"`
}

type Teams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

type Team struct {
	Name           string `json:"name"`
	ID             int64  `json:"id,omitempty"`
	LogoID         int64  `json:"logo_id,omitempty"`
	OrganizationID int64  `json:"organization_id,omitempty"`
}

// OrgID returns the identifier used for logo lookup. The organization ID is
// preferred; the logo ID is the producer's fallback for older org records.
// Zero means absent.
func (t Team) OrgID() int64 {
	if t.OrganizationID != 0 {
		return t.OrganizationID
	}
	return t.LogoID
}

// OrgIDs returns the home and away logo-lookup identifiers, or zeros for a
// legacy-shaped match without the Teams block.
func (m *Match) OrgIDs() (home, away int64) {
	if m.Teams == nil {
		return 0, 0
	}
	return m.Teams.Home.OrgID(), m.Teams.Away.OrgID()
}

type Venue struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Referee struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Contact string `json:"contact,omitempty"`
}

type TeamContact struct {
	Name      string `json:"name"`
	TeamName  string `json:"team_name,omitempty"`
	IsReserve bool   `json:"is_reserve,omitempty"`
	Contact   string `json:"contact,omitempty"`
}

// Change categories and priorities are advisory tags from the producer; the
// dispatcher derives urgency independently.
const (
	CategoryTimeChange    = "time_change"
	CategoryDateChange    = "date_change"
	CategoryVenueChange   = "venue_change"
	CategoryRefereeChange = "referee_change"
	CategoryOther         = "other"

	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityStandard = "standard"
)

type DetailedChange struct {
	Field         string `json:"field"`
	PreviousValue string `json:"previous_value,omitempty"`
	NewValue      string `json:"new_value,omitempty"`
	Category      string `json:"category,omitempty"`
	Priority      string `json:"priority,omitempty"`
	Description   string `json:"description,omitempty"`
}

// DecodeEnvelope is the single decode point for raw transport payloads.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return &e, nil
}
