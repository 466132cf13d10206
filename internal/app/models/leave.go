package models

import "time"

// Leave defines a leave request based on the 'leaves' table. Both student and
// teacher leaves share the table; AdminID is set only for student leaves.
type Leave struct {
	ID            int64       `json:"id" db:"id"`
	RequesterID   int64       `json:"requesterId" db:"requester_id"`
	RequesterRole Role        `json:"requesterRole" db:"requester_role"`
	AdminID       *int64      `json:"adminId,omitempty" db:"admin_id"` // Pointer for potential NULL
	Date          time.Time   `json:"date" db:"leave_date"`
	Reason        string      `json:"reason" db:"reason"`
	Status        LeaveStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	Requester     *User       `json:"requester,omitempty"` // Relation, no db tag
}
