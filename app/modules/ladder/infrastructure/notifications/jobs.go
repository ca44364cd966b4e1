package laddernotify

import (
	"encoding/json"
	"time"

	"github.com/riverqueue/river"
)

// QueueNotifications is the River queue notification jobs run on.
const QueueNotifications = "notifications"

// NotificationArgs carries one notice from the committed transaction to the publisher.
type NotificationArgs struct {
	Subject string          `json:"subject"`
	Payload json.RawMessage `json:"payload"`
}

// Kind returns the job type identifier for River
func (NotificationArgs) Kind() string { return "ladder_notification" }

// InsertOpts dedupes identical notices for an hour.
func (NotificationArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueNotifications,
		MaxAttempts: 10,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: time.Hour,
		},
	}
}
