package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionInfo is the metadata exposed by a session's Info object.
type SessionInfo struct {
	Index             int    `json:"index" mapstructure:"-"`
	SystemName        string `json:"system_name" mapstructure:"SystemName"`
	Client            string `json:"client" mapstructure:"Client"`
	User              string `json:"user" mapstructure:"User"`
	Language          string `json:"language" mapstructure:"Language"`
	Transaction       string `json:"transaction" mapstructure:"Transaction"`
	Program           string `json:"program" mapstructure:"Program"`
	ScreenNumber      int    `json:"screen_number" mapstructure:"ScreenNumber"`
	SessionNumber     int    `json:"session_number" mapstructure:"SessionNumber"`
	ApplicationServer string `json:"application_server" mapstructure:"ApplicationServer"`
}

// Snapshot is a point-in-time inventory of the sessions of one GUI instance.
type Snapshot struct {
	ID                 string        `json:"id"`
	Application        string        `json:"application"`
	TakenAt            time.Time     `json:"taken_at"`
	CurrentTransaction string        `json:"current_transaction"`
	Sessions           []SessionInfo `json:"sessions"`
	// Sealed carries the encrypted form of the snapshot when it is stored
	// behind an encrypting store. Readers never see it set.
	Sealed string `json:"sealed,omitempty"`
}

// NewSnapshot creates an empty snapshot with a fresh ID.
func NewSnapshot(application string) *Snapshot {
	return &Snapshot{
		ID:          uuid.NewString(),
		Application: application,
		TakenAt:     time.Now().UTC(),
		Sessions:    []SessionInfo{},
	}
}
