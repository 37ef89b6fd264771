package db

import (
	"fmt"
	"time"
)

// Redacted replaces secret values in stored submissions.
const Redacted = "********"

// RedactValues returns a copy of values with the named keys replaced by
// Redacted.  Empty values are kept empty.
func RedactValues(values map[string]string, secrets []string) map[string]string {
	redacted := make(map[string]string, len(values))
	for k, v := range values {
		redacted[k] = v
	}
	for _, k := range secrets {
		if redacted[k] != "" {
			redacted[k] = Redacted
		}
	}
	return redacted
}

// Submission holds the record of a submitted form.
type Submission struct {
	// Submission ID (auto)
	ID int64 `xorm:"pk autoincr"`
	// Tenant and form type the values were submitted to
	Tenant   string `xorm:"index"`
	FormType string
	// Name/label of the submission
	Label string
	// Submitted values, with secrets redacted
	ValueMap map[string]string `xorm:"text"`
	// Messages returned from the delivery
	Messages []string `xorm:"text"`
	// Error returned from a failed delivery
	Error string
	// Time when the submission was queued for delivery
	SubmitTime time.Time
	// Time when the delivery finished (0 if ongoing)
	EndTime time.Time
}

// InsertSubmission inserts a new Submission into the database.  Upon
// successful return, the Submission has a new unique ID.
func (conn *Connection) InsertSubmission(sub *Submission) error {
	_, err := conn.engine.Insert(sub) // submission ID is assigned on insertion
	return err
}

// UpdateSubmission updates an existing Submission entry in the database.
func (conn *Connection) UpdateSubmission(sub *Submission) error {
	_, err := conn.engine.ID(sub.ID).AllCols().Update(sub)
	return err
}

// TenantSubmissions retrieves all the Submissions of a given tenant, newest
// first.
func (conn *Connection) TenantSubmissions(tenant string) ([]Submission, error) {
	subs := make([]Submission, 0)
	if err := conn.engine.Where("tenant = ?", tenant).Desc("id").Find(&subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// IsFinished returns true if the delivery has finished (has an EndTime).
func (sub *Submission) IsFinished() bool {
	return !sub.EndTime.IsZero()
}

// AllSubmissions returns all Submission entries in the database, newest
// first.
func (conn *Connection) AllSubmissions() ([]Submission, error) {
	subs := make([]Submission, 0)
	if err := conn.engine.Desc("id").Find(&subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// GetSubmission retrieves a Submission from the database given its ID.
func (conn *Connection) GetSubmission(id int64) (*Submission, error) {
	sub := new(Submission)
	if has, err := conn.engine.ID(id).Get(sub); err != nil {
		return nil, err
	} else if !has {
		return nil, fmt.Errorf("not found")
	}
	return sub, nil
}
