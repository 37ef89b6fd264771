package worker

import (
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/G-Node/stepform/stepform/db"
)

// DeliverAction hands the values of a submitted form to the host
// application.  The returned messages are stored with the submission.
type DeliverAction func(tenant, formType string, values map[string]string) ([]string, error)

// ErrQueueFull is returned by Enqueue when no more deliveries can be queued.
var ErrQueueFull = errors.New("delivery queue full")

// Delivery is a queued submission.  The stored Submission carries the
// redacted values; Values are only held in memory until delivered.
type Delivery struct {
	*db.Submission
	Values  map[string]string
	Secrets []string
	done    chan struct{}
}

// NewDelivery creates a delivery for the values of a tenant form.  The keys
// named in secrets are redacted before the submission is stored.
func NewDelivery(tenant, formType string, values map[string]string, secrets []string) *Delivery {
	d := new(Delivery)
	d.Submission = new(db.Submission)
	d.Tenant = tenant
	d.FormType = formType
	d.Values = values
	d.Secrets = secrets
	d.done = make(chan struct{})
	return d
}

// Done is closed when the delivery has finished.
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Worker with queue for delivering submissions asynchronously.
type Worker struct {
	queue  chan *Delivery
	stop   chan bool
	Action DeliverAction
	db     *db.Connection
	log    *log.Logger
	mux    sync.Mutex
}

// New returns a worker storing submissions through dbconn.  The queue holds
// up to queueLen pending deliveries.
func New(dbconn *db.Connection, queueLen int) *Worker {
	w := new(Worker)
	if queueLen <= 0 {
		queueLen = 100
	}
	w.queue = make(chan *Delivery, queueLen)
	w.stop = make(chan bool)
	w.db = dbconn
	w.log = log.New(os.Stderr, "[worker] ", log.LstdFlags)
	return w
}

// SetLogger sets the logger used by the worker.
func (w *Worker) SetLogger(logger *log.Logger) {
	w.mux.Lock()
	defer w.mux.Unlock()
	w.log = logger
}

func (w *Worker) logger() *log.Logger {
	w.mux.Lock()
	defer w.mux.Unlock()
	return w.log
}

// Enqueue stores the redacted submission in the database and adds the
// delivery to the queue.  It never blocks: when the queue is full the stored
// submission is marked failed and ErrQueueFull is returned.
func (w *Worker) Enqueue(d *Delivery) error {
	d.SubmitTime = time.Now()
	d.ValueMap = db.RedactValues(d.Values, d.Secrets)
	d.Label = label(d.ValueMap, d.Secrets)
	logger := w.logger()
	if err := w.db.InsertSubmission(d.Submission); err != nil {
		logger.Printf("Error inserting submission %s/%s into db: %v", d.Tenant, d.FormType, err)
	}
	select {
	case w.queue <- d:
		return nil
	default:
	}
	logger.Printf("Delivery [S%d] %s rejected: %s", d.ID, d.Label, ErrQueueFull)
	d.Values = nil
	d.EndTime = time.Now()
	d.Error = ErrQueueFull.Error()
	if err := w.db.UpdateSubmission(d.Submission); err != nil {
		logger.Printf("Error updating submission [S%d]: %v", d.ID, err)
	}
	close(d.done)
	return ErrQueueFull
}

// label picks a value to list the submission by, preferring an email
// address.
func label(values map[string]string, secrets []string) string {
	if v := values["email"]; v != "" {
		return v
	}
	secret := make(map[string]bool, len(secrets))
	for _, s := range secrets {
		secret[s] = true
	}
	var best string
	for k, v := range values {
		if v == "" || secret[k] {
			continue
		}
		// deterministic across runs
		if best == "" || k < best {
			best = k
		}
	}
	return values[best]
}

// Stop the worker loop.  Queued deliveries are not run.
func (w *Worker) Stop() {
	w.stop <- true
}

func (w *Worker) run(d *Delivery) {
	defer close(d.done)
	logger := w.logger()
	logger.Printf("Starting delivery [S%d] %s/%s", d.ID, d.Tenant, d.FormType)
	var err error
	if w.Action != nil {
		d.Messages, err = w.Action(d.Tenant, d.FormType, d.Values)
	}
	d.Values = nil
	d.EndTime = time.Now()
	if err == nil {
		logger.Printf("Delivery [S%d] %s finished", d.ID, d.Label)
	} else {
		logger.Printf("Delivery [S%d] %s failed: %s", d.ID, d.Label, err)
		d.Error = err.Error()
	}
	// update submission entry in db when done
	if err := w.db.UpdateSubmission(d.Submission); err != nil {
		logger.Printf("Error updating submission [S%d]: %v", d.ID, err)
	}
}

// Start the worker loop.
func (w *Worker) Start() {
	go func() {
		for {
			select {
			case d := <-w.queue:
				w.run(d)
			case <-w.stop:
				return
			}
		}
	}()
	w.logger().Print("Worker started")
}
