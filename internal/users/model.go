package users

import "time"

// User is the local account row. The id anchors ownership of every other
// resource; the row is created lazily on the first authenticated request
// from an unseen external identity and never deleted by the application.
type User struct {
	ID          int64     `json:"id"`
	FirebaseUID string    `json:"firebaseUid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
