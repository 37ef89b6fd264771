package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FormSession holds the state of a form being filled in through the runtime
// widget between requests.
type FormSession struct {
	// Session ID (stored in the cookie)
	ID string `xorm:"pk"`
	// Tenant and form type the session was mounted for
	Tenant   string
	FormType string
	// Config snapshot (JSON) taken when the session was mounted, so that a
	// form published mid-session does not change under the user
	Config string `xorm:"text"`
	// Current step index
	Step int
	// Entered values keyed by field name
	Values map[string]string `xorm:"text"`
	// Published validation errors keyed by field ID
	Errors map[string]string `xorm:"text"`
	// Time of creation and of the last update (for expiration)
	Created time.Time `xorm:"created"`
	Updated time.Time `xorm:"updated"`
}

// NewFormSession creates a session for a tenant form with a new unique ID.
func NewFormSession(tenant, formType, config string) *FormSession {
	sess := new(FormSession)
	sess.ID = uuid.New().String()
	sess.Tenant = tenant
	sess.FormType = formType
	sess.Config = config
	sess.Values = make(map[string]string)
	sess.Errors = make(map[string]string)
	return sess
}

// InsertFormSession inserts a new form session into the database.
func (conn *Connection) InsertFormSession(sess *FormSession) error {
	_, err := conn.engine.Insert(sess)
	return err
}

// UpdateFormSession stores the current state of a form session.
func (conn *Connection) UpdateFormSession(sess *FormSession) error {
	n, err := conn.engine.ID(sess.ID).AllCols().Update(sess)
	if err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

// GetFormSession retrieves a form session from the database given its ID.
func (conn *Connection) GetFormSession(id string) (*FormSession, error) {
	sess := new(FormSession)
	if has, err := conn.engine.ID(id).Get(sess); err != nil {
		return nil, err
	} else if !has {
		return nil, fmt.Errorf("not found")
	}
	return sess, nil
}

// DeleteFormSession removes a form session from the database.
func (conn *Connection) DeleteFormSession(id string) error {
	_, err := conn.engine.ID(id).Delete(new(FormSession))
	return err
}

// PurgeFormSessions deletes the form sessions not updated since before and
// returns their number.
func (conn *Connection) PurgeFormSessions(before time.Time) (int64, error) {
	// times are stored as UTC text
	stamp := before.UTC().Format("2006-01-02 15:04:05")
	return conn.engine.Where("updated < ?", stamp).Delete(new(FormSession))
}

// AdminSession holds the information for a logged in operator.
type AdminSession struct {
	// Session ID (stored in the cookie)
	ID string `xorm:"pk"`
	// Name of the operator
	UserName string
	// Time when the session was created (for expiration)
	Created time.Time
}

// NewAdminSession creates a new session for an operator with a new unique
// ID.
func NewAdminSession(username string) *AdminSession {
	sess := new(AdminSession)
	sess.ID = uuid.New().String()
	sess.UserName = username
	sess.Created = time.Now()
	return sess
}

// InsertAdminSession inserts a new operator session into the database.
func (conn *Connection) InsertAdminSession(sess *AdminSession) error {
	_, err := conn.engine.Insert(sess)
	return err
}

// GetAdminSession retrieves an operator session from the database given its
// ID.
func (conn *Connection) GetAdminSession(id string) (*AdminSession, error) {
	sess := new(AdminSession)
	if has, err := conn.engine.ID(id).Get(sess); err != nil {
		return nil, err
	} else if !has {
		return nil, fmt.Errorf("not found")
	}
	return sess, nil
}

// DeleteAdminSession removes an operator session from the database.
func (conn *Connection) DeleteAdminSession(id string) error {
	_, err := conn.engine.ID(id).Delete(new(AdminSession))
	return err
}
