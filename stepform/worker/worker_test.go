package worker

import (
	"fmt"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/G-Node/stepform/stepform/db"
)

func tempConn(t *testing.T) *db.Connection {
	tmpfile, err := os.CreateTemp("", "testdb")
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %s", err.Error())
	}
	tmpfile.Close()
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	conn, err := db.New(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to initialise database connection to file %q: %s", tmpfile.Name(), err.Error())
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, d *Delivery) {
	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("Delivery not finished: %+v", d.Submission)
	}
}

func testAction(tenant, formType string, values map[string]string) ([]string, error) {
	// Return each key:value pair as a message.  If any value is the string
	// 'error', fail.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := make([]string, 0, len(values))
	var err error
	for _, k := range keys {
		m = append(m, fmt.Sprintf("%s: %s", k, values[k]))
		if values[k] == "error" {
			err = fmt.Errorf("Found error value in key %q", k)
		}
	}
	return m, err
}

func TestWorkerEmptyDelivery(t *testing.T) {
	conn := tempConn(t)
	w := New(conn, 0)
	w.Action = testAction
	w.Start()
	defer w.Stop()

	d := NewDelivery("acme", "login", nil, nil)
	if err := w.Enqueue(d); err != nil {
		t.Fatalf("Failed to enqueue delivery: %s", err.Error())
	}
	waitFor(t, d)
	if !d.IsFinished() {
		t.Fatalf("Delivery not finished: %+v", d.Submission)
	}
	if len(d.Messages) > 0 {
		t.Fatalf("Delivery has messages when it shouldn't: %v", d.Messages)
	}
}

func TestWorkerAction(t *testing.T) {
	conn := tempConn(t)
	w := New(conn, 10)
	var got map[string]string
	w.Action = func(tenant, formType string, values map[string]string) ([]string, error) {
		got = values
		return testAction(tenant, formType, values)
	}
	w.Start()
	defer w.Stop()

	values := map[string]string{"email": "a@b.com", "password": "hunter22"}
	d := NewDelivery("acme", "register", values, []string{"password"})
	if err := w.Enqueue(d); err != nil {
		t.Fatalf("Failed to enqueue delivery: %s", err.Error())
	}
	waitFor(t, d)

	if got["password"] != "hunter22" {
		t.Fatalf("Action did not receive the unredacted values: %+v", got)
	}
	if len(d.Messages) != 2 {
		t.Fatalf("Unexpected number of messages found in finished delivery: %d != 2", len(d.Messages))
	}
	if d.Error != "" {
		t.Fatalf("Delivery failed with error: %s", d.Error)
	}
	if d.Values != nil {
		t.Fatal("Values kept in memory after delivery")
	}

	stored, err := conn.GetSubmission(d.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve stored submission: %s", err.Error())
	}
	if stored.Label != "a@b.com" {
		t.Fatalf("Unexpected label: %q", stored.Label)
	}
	if stored.ValueMap["password"] != db.Redacted {
		t.Fatalf("Stored submission not redacted: %+v", stored.ValueMap)
	}
	if !stored.IsFinished() || len(stored.Messages) != 2 {
		t.Fatalf("Stored submission missing results: %+v", stored)
	}
}

func TestWorkerDeliveryFail(t *testing.T) {
	conn := tempConn(t)
	w := New(conn, 10)
	w.Action = testAction
	w.Start()
	defer w.Stop()

	d := NewDelivery("acme", "login", map[string]string{"A": "error", "Ω": "omega"}, nil)
	if err := w.Enqueue(d); err != nil {
		t.Fatalf("Failed to enqueue delivery: %s", err.Error())
	}
	waitFor(t, d)
	if len(d.Messages) != 2 {
		t.Fatalf("Unexpected number of messages found in finished delivery: %d != 2", len(d.Messages))
	}
	if d.Error == "" {
		t.Fatal("Delivery succeeded when it should have failed")
	}
	stored, err := conn.GetSubmission(d.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve stored submission: %s", err.Error())
	}
	if stored.Error != d.Error {
		t.Fatalf("Stored error %q differs from %q", stored.Error, d.Error)
	}
}

func TestWorkerQueueFull(t *testing.T) {
	conn := tempConn(t)
	w := New(conn, 1)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	w.Action = func(tenant, formType string, values map[string]string) ([]string, error) {
		started <- struct{}{}
		<-release
		return nil, nil
	}
	w.Start()
	defer w.Stop()

	first := NewDelivery("acme", "login", map[string]string{"email": "a@b.com"}, nil)
	if err := w.Enqueue(first); err != nil {
		t.Fatalf("Failed to enqueue first delivery: %s", err.Error())
	}
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("First delivery never started")
	}
	second := NewDelivery("acme", "login", map[string]string{"email": "b@b.com"}, nil)
	if err := w.Enqueue(second); err != nil {
		t.Fatalf("Failed to enqueue second delivery: %s", err.Error())
	}

	third := NewDelivery("acme", "login", map[string]string{"email": "c@b.com"}, nil)
	result := make(chan error, 1)
	go func() { result <- w.Enqueue(third) }()
	select {
	case err := <-result:
		if err != ErrQueueFull {
			t.Fatalf("Expected ErrQueueFull for third delivery, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	waitFor(t, third)

	stored, err := conn.GetSubmission(third.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve stored submission: %s", err.Error())
	}
	if stored.Error != ErrQueueFull.Error() || !stored.IsFinished() {
		t.Fatalf("Rejected submission not marked failed: %+v", stored)
	}

	close(release)
	waitFor(t, first)
	waitFor(t, second)
}

func TestLabel(t *testing.T) {
	if l := label(map[string]string{"name": "Ada", "password": "x"}, []string{"password"}); l != "Ada" {
		t.Fatalf("Unexpected label %q", l)
	}
	if l := label(map[string]string{"password": "x"}, []string{"password"}); l != "" {
		t.Fatalf("Secret value used as label: %q", l)
	}
}
