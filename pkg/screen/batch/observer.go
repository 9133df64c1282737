package batch

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/komsit37/screen/pkg/screen/rules"
	"github.com/komsit37/screen/pkg/screen/types"
)

// Observer receives screening events. Methods are called from worker
// goroutines and must be safe for concurrent use.
type Observer interface {
	OnStart(total int)
	OnState(stock types.StockInfo, state State)
	OnResult(r Result)
}

// Observers fans every event out to each member.
type Observers []Observer

func (all Observers) OnStart(total int) {
	for _, o := range all {
		o.OnStart(total)
	}
}

func (all Observers) OnState(stock types.StockInfo, state State) {
	for _, o := range all {
		o.OnState(stock, state)
	}
}

func (all Observers) OnResult(r Result) {
	for _, o := range all {
		o.OnResult(r)
	}
}

type nopObserver struct{}

func (nopObserver) OnStart(int)                    {}
func (nopObserver) OnState(types.StockInfo, State) {}
func (nopObserver) OnResult(Result)                {}

// LogObserver writes screening events as structured log entries:
// transitions and per-rule detail at debug, outcomes at info, errors at warn.
type LogObserver struct {
	log   logrus.FieldLogger
	total atomic.Int64
	done  atomic.Int64
}

func NewLogObserver(log logrus.FieldLogger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnStart(total int) {
	o.total.Store(int64(total))
	o.done.Store(0)
	o.log.WithField("symbols", total).Info("screening started")
}

func (o *LogObserver) OnState(stock types.StockInfo, state State) {
	o.log.WithFields(logrus.Fields{"symbol": stock.Symbol, "state": state}).Debug("state")
}

func (o *LogObserver) OnResult(r Result) {
	done := o.done.Add(1)
	entry := o.log.WithFields(logrus.Fields{
		"symbol":   r.Stock.Symbol,
		"state":    r.State,
		"progress": progress(done, o.total.Load()),
	})

	if r.Verdict != nil {
		o.logRules(entry, *r.Verdict)
	}
	switch r.State {
	case StateError:
		entry.WithField("kind", r.Kind()).WithError(r.Err).Warn("screening failed")
	case StateDisqualified:
		entry.WithField("reason", r.Reason()).Info("disqualified")
	default:
		entry.Info("qualified")
	}
}

func (o *LogObserver) logRules(entry *logrus.Entry, v rules.Verdict) {
	for _, r := range append([]rules.Result{v.MarketCap}, v.Rules...) {
		fields := logrus.Fields{"rule": r.Rule, "status": r.Status}
		for _, obs := range r.Observed {
			if obs.Value != nil {
				fields[obs.Name] = *obs.Value
			}
		}
		if s := r.Limits.String(); s != "" {
			fields["limits"] = s
		}
		if r.Effective.String() != r.Limits.String() {
			fields["effective"] = r.Effective.String()
		}
		if r.Reason != "" {
			fields["reason"] = r.Reason
		}
		entry.WithFields(fields).Debug("rule")
	}
}

func progress(done, total int64) string {
	if total <= 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", done, total)
}
