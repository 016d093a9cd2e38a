package board

import (
	"strconv"
	"time"

	"weekboard/internal/model"
)

// Effects lists the work an intent asks the caller to carry out. The engine never
// performs I/O or sleeps itself; the caller feeds results back through Loaded,
// ProjectsLoaded, Completed and TimerFired.
type Effects struct {
	Fetches       []Fetch
	FetchProjects bool
	Requests      []Request
	Timers        []Timer
	Notifications []Notification
}

// Fetch asks for the tasks of Year. Seq must be passed back to Loaded.
type Fetch struct {
	Seq  int
	Year int
}

// Timer asks for TimerFired(Key, Seq) after Delay.
type Timer struct {
	Key   FieldKey
	Seq   int
	Delay time.Duration
}

type NotificationKind int

const (
	NotifyLoaded NotificationKind = iota + 1
	NotifyLoadFailed
	NotifyMerged
	NotifyRolledBack
	NotifyFieldSaved
	NotifyFieldSaveFailed
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyLoaded:
		return "loaded"
	case NotifyLoadFailed:
		return "load failed"
	case NotifyMerged:
		return "merged"
	case NotifyRolledBack:
		return "rolled back"
	case NotifyFieldSaved:
		return "saved"
	case NotifyFieldSaveFailed:
		return "save failed"
	default:
		return "unknown"
	}
}

// Notification is an outcome worth telling the user about. Err is set for the
// failure kinds and is one of LoadFailure, MutationFailure or FieldSaveFailure.
type Notification struct {
	Kind   NotificationKind
	Year   int
	TaskID string
	Field  model.Field
	Err    error
}

func (n Notification) Failed() bool { return n.Err != nil }

func (n Notification) String() string {
	if n.Err != nil {
		return n.Err.Error()
	}
	switch n.Kind {
	case NotifyLoaded:
		return "loaded " + strconv.Itoa(n.Year)
	case NotifyFieldSaved:
		return "saved " + string(n.Field)
	default:
		return n.Kind.String()
	}
}

func (fx *Effects) Add(o Effects) {
	fx.Fetches = append(fx.Fetches, o.Fetches...)
	fx.FetchProjects = fx.FetchProjects || o.FetchProjects
	fx.Requests = append(fx.Requests, o.Requests...)
	fx.Timers = append(fx.Timers, o.Timers...)
	fx.Notifications = append(fx.Notifications, o.Notifications...)
}

func (fx Effects) Empty() bool {
	return len(fx.Fetches) == 0 && !fx.FetchProjects && len(fx.Requests) == 0 &&
		len(fx.Timers) == 0 && len(fx.Notifications) == 0
}

func notify(n Notification) Effects {
	return Effects{Notifications: []Notification{n}}
}
