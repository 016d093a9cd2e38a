package board

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Runner drives an Engine synchronously against a Service: fetches and requests run in
// order and timers fire at once. It suits one-shot callers such as the CLI.
type Runner struct {
	Engine  *Engine
	Service Service
	Log     log.FieldLogger
}

// Run carries out fx and everything that follows from it until the engine has nothing
// left to do. It returns the error of the first failure notification, if any.
func (r *Runner) Run(ctx context.Context, fx Effects) error {
	var first error
	for !fx.Empty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var next Effects
		for _, n := range fx.Notifications {
			LogNotification(r.logger(), n)
			if n.Err != nil && first == nil {
				first = n.Err
			}
		}
		if fx.FetchProjects {
			ps, err := r.Service.FetchProjects(ctx)
			next.Add(r.Engine.ProjectsLoaded(ps, err))
		}
		for _, f := range fx.Fetches {
			res, err := r.Service.FetchTasksForYear(ctx, f.Year)
			next.Add(r.Engine.Loaded(f.Seq, f.Year, res, err))
		}
		for _, t := range fx.Timers {
			next.Add(r.Engine.TimerFired(t.Key, t.Seq))
		}
		for _, req := range fx.Requests {
			r.logger().WithFields(log.Fields{"op": req.Op, "task": req.TaskID}).Debug("request")
			task, err := req.Do(ctx, r.Service)
			next.Add(r.Engine.Completed(req.ID, task, err))
		}
		fx = next
	}
	return first
}

func (r *Runner) logger() log.FieldLogger {
	if r.Log == nil {
		return log.StandardLogger()
	}
	return r.Log
}

// LogNotification writes n to l: failures at warn level, the rest at debug.
func LogNotification(l log.FieldLogger, n Notification) {
	entry := l.WithField("kind", n.Kind.String())
	if n.TaskID != "" {
		entry = entry.WithField("task", n.TaskID)
	}
	if n.Field != "" {
		entry = entry.WithField("field", string(n.Field))
	}
	if n.Year != 0 {
		entry = entry.WithField("year", n.Year)
	}
	if n.Err != nil {
		entry.WithError(n.Err).Warn("board")
		return
	}
	entry.Debug("board")
}
