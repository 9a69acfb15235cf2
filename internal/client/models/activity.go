package models

import "time"

// Activity is one entry of the activity log.
type Activity struct {
	UserID      string    `json:"userId"`
	Type        string    `json:"activityType"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

const ActivityLogin = "login"
