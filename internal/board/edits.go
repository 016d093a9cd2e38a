package board

import (
	"sort"
	"time"

	"weekboard/internal/model"
)

// FieldKey identifies one (task, field) edit stream.
type FieldKey struct {
	TaskID string
	Field  model.Field
}

type EditPhase int

const (
	EditIdle EditPhase = iota
	EditPending
	EditInFlight
)

func (p EditPhase) String() string {
	switch p {
	case EditPending:
		return "pending"
	case EditInFlight:
		return "in-flight"
	default:
		return "idle"
	}
}

// fieldEdit holds at most one queued value and at most one in-flight call.
type fieldEdit struct {
	seq int

	value   string
	pending bool
	// due marks a queued value whose delay elapsed (or was flushed) while a call was
	// still in flight; it goes out as soon as that call completes.
	due bool

	reqID int
	sent  string
}

type editBatcher struct {
	seq     int
	entries map[FieldKey]*fieldEdit
}

func newEditBatcher() *editBatcher {
	return &editBatcher{entries: map[FieldKey]*fieldEdit{}}
}

// edit queues value for key, replacing any earlier queued value, and returns the timer
// that commits it.
func (b *editBatcher) edit(key FieldKey, value string, delay time.Duration) Timer {
	e := b.entries[key]
	if e == nil {
		e = &fieldEdit{}
		b.entries[key] = e
	}
	b.seq++
	e.seq = b.seq
	e.value = value
	e.pending = true
	e.due = false
	return Timer{Key: key, Seq: e.seq, Delay: delay}
}

// fire handles an elapsed timer. It returns the value to send now, if any. Timers that
// were superseded by a later edit are ignored.
func (b *editBatcher) fire(key FieldKey, seq int) (string, bool) {
	e := b.entries[key]
	if e == nil || !e.pending || e.seq != seq {
		return "", false
	}
	if e.reqID != 0 {
		e.due = true
		return "", false
	}
	return b.take(key), true
}

// flush commits every queued value now. Keys with a call in flight are marked due
// instead and are not returned.
func (b *editBatcher) flush() []FieldKey {
	var ready []FieldKey
	for key, e := range b.entries {
		if !e.pending {
			continue
		}
		if e.reqID != 0 {
			e.due = true
			continue
		}
		ready = append(ready, key)
	}
	sort.Slice(ready, func(i, j int) bool {
		if ready[i].TaskID != ready[j].TaskID {
			return ready[i].TaskID < ready[j].TaskID
		}
		return ready[i].Field < ready[j].Field
	})
	return ready
}

func (b *editBatcher) take(key FieldKey) string {
	e := b.entries[key]
	if e == nil {
		return ""
	}
	v := e.value
	e.value = ""
	e.pending = false
	e.due = false
	return v
}

func (b *editBatcher) started(key FieldKey, reqID int, value string) {
	e := b.entries[key]
	if e == nil {
		e = &fieldEdit{}
		b.entries[key] = e
	}
	e.reqID = reqID
	e.sent = value
}

// done closes the in-flight call reqID. If a newer value is due it is returned for
// immediate sending.
func (b *editBatcher) done(key FieldKey, reqID int) (string, bool) {
	e := b.entries[key]
	if e == nil || e.reqID != reqID {
		return "", false
	}
	e.reqID = 0
	e.sent = ""
	switch {
	case e.pending && e.due:
		return b.take(key), true
	case !e.pending:
		delete(b.entries, key)
	}
	return "", false
}

type fieldValue struct {
	field model.Field
	value string
}

// overlay returns the newest local value of every field of taskID that the service
// has not confirmed yet, queued values taking precedence over in-flight ones.
func (b *editBatcher) overlay(taskID string) []fieldValue {
	var out []fieldValue
	for _, f := range model.Fields {
		e := b.entries[FieldKey{TaskID: taskID, Field: f}]
		switch {
		case e == nil:
		case e.pending:
			out = append(out, fieldValue{field: f, value: e.value})
		case e.reqID != 0:
			out = append(out, fieldValue{field: f, value: e.sent})
		}
	}
	return out
}

func (b *editBatcher) phase(key FieldKey) EditPhase {
	e := b.entries[key]
	switch {
	case e == nil:
		return EditIdle
	case e.reqID != 0:
		return EditInFlight
	case e.pending:
		return EditPending
	default:
		return EditIdle
	}
}

func (b *editBatcher) busy() int {
	n := 0
	for _, e := range b.entries {
		if e.pending || e.reqID != 0 {
			n++
		}
	}
	return n
}
