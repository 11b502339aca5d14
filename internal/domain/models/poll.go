// internal/domain/models/poll.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sub-poll lifecycle. A sub-poll is created pending, opened to active
// (which requires a deadline), and closed exactly once by the sweep.
// Closed is terminal: this service never reopens a poll.
const (
	PollStatusPending = "pending"
	PollStatusActive  = "active"
	PollStatusClosed  = "closed"
)

// PollKind identifies which sub-poll of a Poll document is meant.
// Adding a new kind (say, a time poll) means adding a constant here and
// a case in Field/WinnerField; the sweep iterates Kinds generically.
type PollKind string

const (
	KindActivity PollKind = "activity"
	KindPlace    PollKind = "place"
)

// Kinds lists every sub-poll kind in document field order.
func Kinds() []PollKind {
	return []PollKind{KindActivity, KindPlace}
}

// Field returns the BSON field holding this kind's sub-poll.
func (k PollKind) Field() string {
	switch k {
	case KindActivity:
		return "activity_poll"
	case KindPlace:
		return "place_poll"
	}
	return ""
}

// WinnerField returns the denormalized winner field on the parent Poll
// that is written in lockstep with this kind's winning_option.
func (k PollKind) WinnerField() string {
	switch k {
	case KindActivity:
		return "winning_activity"
	case KindPlace:
		return "winning_place"
	}
	return ""
}

// PollOption is one votable choice. Votes is a denormalized count kept by
// the client for display; the sweep recomputes tallies from Poll votes and
// never trusts it.
type PollOption struct {
	Text  string `bson:"text" json:"text"`
	Votes int    `bson:"votes,omitempty" json:"votes,omitempty"`
}

// SubPoll is one votable question inside a Poll document.
type SubPoll struct {
	Status   string     `bson:"status" json:"status"`
	Deadline *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`

	Options []PollOption `bson:"options" json:"options"`

	// Votes maps voter user ID to the chosen option text.
	Votes map[string]string `bson:"votes,omitempty" json:"votes,omitempty"`

	AllowNewOptions bool `bson:"allow_new_options" json:"allow_new_options"`

	// WinningOption is set when the sub-poll closes. Nil while open, and
	// nil on a closed sub-poll that had no options to choose from.
	WinningOption *string `bson:"winning_option,omitempty" json:"winning_option,omitempty"`
}

// Poll is one round of group decision-making within a circle. The two
// sub-polls have fully independent lifecycles: one may close while the
// other is still collecting votes.
type Poll struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	CircleID primitive.ObjectID `bson:"circle_id" json:"circle_id"`
	Title    string             `bson:"title" json:"title"`

	ActivityPoll *SubPoll `bson:"activity_poll,omitempty" json:"activity_poll,omitempty"`
	PlacePoll    *SubPoll `bson:"place_poll,omitempty" json:"place_poll,omitempty"`

	// Denormalized winners for fast reads by the client, written together
	// with the corresponding sub-poll's winning_option.
	WinningActivity string `bson:"winning_activity,omitempty" json:"winning_activity,omitempty"`
	WinningPlace    string `bson:"winning_place,omitempty" json:"winning_place,omitempty"`

	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Sub returns the sub-poll of the given kind, or nil if absent.
func (p *Poll) Sub(k PollKind) *SubPoll {
	switch k {
	case KindActivity:
		return p.ActivityPoll
	case KindPlace:
		return p.PlacePoll
	}
	return nil
}
