package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RoundEvent is one kill, respawn or round end
type RoundEvent struct {
	SessionID   string
	Round       int
	Kind        string
	AdversaryID int
	X, Y        float64
	At          time.Duration // round clock
	Timestamp   time.Time
}

// RoundResult is written once per finished round
type RoundResult struct {
	SessionID   string
	Round       int
	Mode        string
	Adversaries int
	Fire        bool
	Status      string
	Won         bool
	Kills       int
	Duration    time.Duration
	Timestamp   time.Time
}

type record struct {
	event  *RoundEvent
	result *RoundResult
}

const (
	recorderQueueSize    = 1024
	defaultFlushInterval = 5 * time.Second
	defaultRecorderBatch = 50
)

// Recorder batches round events and results into the database from a
// background goroutine so the game loop never waits on disk.
type Recorder struct {
	db       *DB
	queue    chan record
	stop     chan struct{}
	wg       sync.WaitGroup
	interval time.Duration
	batch    int
	log      zerolog.Logger

	mu      sync.Mutex
	dropped int
}

// NewRecorder creates and starts the background writer. Zero interval or
// batch size fall back to 5s and 50.
func NewRecorder(db *DB, interval time.Duration, batch int, log zerolog.Logger) *Recorder {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	if batch <= 0 {
		batch = defaultRecorderBatch
	}
	r := &Recorder{
		db:       db,
		queue:    make(chan record, recorderQueueSize),
		stop:     make(chan struct{}),
		interval: interval,
		batch:    batch,
		log:      log,
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Track enqueues an event (non-blocking)
func (r *Recorder) Track(evt RoundEvent) {
	if r == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	r.enqueue(record{event: &evt})
}

// Finish enqueues a round result (non-blocking)
func (r *Recorder) Finish(res RoundResult) {
	if r == nil {
		return
	}
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now().UTC()
	}
	r.enqueue(record{result: &res})
}

func (r *Recorder) enqueue(rec record) {
	select {
	case r.queue <- rec:
	default:
		// full, drop rather than block the game loop
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

// Dropped returns how many records were discarded on a full queue
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Stop flushes what is queued and waits for the writer to exit
func (r *Recorder) Stop() {
	close(r.stop)
	r.wg.Wait()
}

func (r *Recorder) writer() {
	defer r.wg.Done()

	batch := make([]record, 0, r.batch)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case rec := <-r.queue:
			batch = append(batch, rec)
			if len(batch) >= r.batch {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-r.stop:
		drain:
			for {
				select {
				case rec := <-r.queue:
					batch = append(batch, rec)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				r.flush(batch)
			}
			return
		}
	}
}

func (r *Recorder) flush(batch []record) {
	if r.db == nil {
		return
	}
	if err := r.db.WriteBatch(batch); err != nil {
		r.log.Error().Err(err).Int("records", len(batch)).Msg("recorder flush failed")
		return
	}
	r.log.Debug().Int("records", len(batch)).Msg("recorder flushed")
}
