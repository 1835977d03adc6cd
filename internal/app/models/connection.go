package models

import "time"

// ConnectionStatus is the lifecycle state of a connection row
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is the single row kept for an unordered pair of users. The
// requester/addressee direction is kept after acceptance; only the addressee
// may respond to a pending row.
type Connection struct {
	ID          int64            `json:"id" db:"id"`
	RequesterID int64            `json:"requester_id" db:"requester_id"`
	AddresseeID int64            `json:"addressee_id" db:"addressee_id"`
	Status      ConnectionStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// ConnectionAction is the write a connection request resolves to.
type ConnectionAction int

const (
	// ConnectionCreate inserts a new pending row requester -> addressee
	ConnectionCreate ConnectionAction = iota + 1
	// ConnectionAccept accepts the reciprocal pending row
	ConnectionAccept
	// ConnectionReopen recycles a rejected row to pending with the new direction
	ConnectionReopen
)

// IncomingRequest is a pending request addressed to the current user.
type IncomingRequest struct {
	Connection
	RequesterFirstName      string  `json:"requester_first_name" db:"requester_first_name"`
	RequesterLastName       string  `json:"requester_last_name" db:"requester_last_name"`
	RequesterProfilePicture *string `json:"requester_profile_picture" db:"requester_profile_picture"`
}

// ConnectedUser is the other party of an accepted connection.
type ConnectedUser struct {
	ConnectionID    int64     `json:"connection_id" db:"connection_id"`
	ConnectedAt     time.Time `json:"connected_at" db:"connected_at"`
	UserID          int64     `json:"user_id" db:"user_id"`
	FirstName       string    `json:"first_name" db:"first_name"`
	LastName        string    `json:"last_name" db:"last_name"`
	IsAlumni        bool      `json:"is_alumni" db:"is_alumni"`
	ProfilePicture  *string   `json:"profile_picture" db:"profile_picture"`
	CurrentPosition *string   `json:"current_position" db:"current_position"`
	CurrentCompany  *string   `json:"current_company" db:"current_company"`
}
