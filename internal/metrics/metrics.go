package metrics

import (
	"time"

	"todbc/internal/core"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the call-level metrics of one run.
type Collector struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todbc_calls_total",
				Help: "Total number of call-level API calls by operation and return code",
			},
			[]string{"op", "rc"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todbc_call_duration_seconds",
				Help:    "Duration of call-level API calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(c.Calls, c.Duration)
	return c
}

func (c *Collector) observe(op string, rc core.Return, start time.Time) {
	c.Calls.WithLabelValues(op, rc.String()).Inc()
	c.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes everything gathered by g to path in the text
// exposition format read by the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

// Instrument wraps api so that every call is counted and timed. The
// collectors are registered with reg.
func Instrument(api core.CallLevelAPI, reg prometheus.Registerer) core.CallLevelAPI {
	return &instrumented{next: api, c: NewCollector(reg)}
}

type instrumented struct {
	next core.CallLevelAPI
	c    *Collector
}

func (i *instrumented) AllocHandle(t core.HandleType, input core.Handle) (core.Handle, core.Return) {
	start := time.Now()
	h, rc := i.next.AllocHandle(t, input)
	i.c.observe("SQLAllocHandle", rc, start)
	return h, rc
}

func (i *instrumented) SetEnvAttr(env core.Handle, attr int32, value uintptr) core.Return {
	start := time.Now()
	rc := i.next.SetEnvAttr(env, attr, value)
	i.c.observe("SQLSetEnvAttr", rc, start)
	return rc
}

func (i *instrumented) Connect(dbc core.Handle, dsn, uid, pwd string) core.Return {
	start := time.Now()
	rc := i.next.Connect(dbc, dsn, uid, pwd)
	i.c.observe("SQLConnect", rc, start)
	return rc
}

func (i *instrumented) GetInfo(dbc core.Handle, infoType uint16) (string, core.Return) {
	start := time.Now()
	s, rc := i.next.GetInfo(dbc, infoType)
	i.c.observe("SQLGetInfo", rc, start)
	return s, rc
}

func (i *instrumented) GetTypeInfo(stmt core.Handle, dataType int16) core.Return {
	start := time.Now()
	rc := i.next.GetTypeInfo(stmt, dataType)
	i.c.observe("SQLGetTypeInfo", rc, start)
	return rc
}

func (i *instrumented) ExecDirect(stmt core.Handle, query string) core.Return {
	start := time.Now()
	rc := i.next.ExecDirect(stmt, query)
	i.c.observe("SQLExecDirect", rc, start)
	return rc
}

func (i *instrumented) BindCol(stmt core.Handle, column uint16, ctype core.CType, buf *core.ColumnBuffer) core.Return {
	start := time.Now()
	rc := i.next.BindCol(stmt, column, ctype, buf)
	i.c.observe("SQLBindCol", rc, start)
	return rc
}

func (i *instrumented) Fetch(stmt core.Handle) core.Return {
	start := time.Now()
	rc := i.next.Fetch(stmt)
	i.c.observe("SQLFetch", rc, start)
	return rc
}

func (i *instrumented) FreeStmt(stmt core.Handle, option uint16) core.Return {
	start := time.Now()
	rc := i.next.FreeStmt(stmt, option)
	i.c.observe("SQLFreeStmt", rc, start)
	return rc
}

func (i *instrumented) Error(env, dbc, stmt core.Handle) (core.DiagRecord, core.Return) {
	start := time.Now()
	rec, rc := i.next.Error(env, dbc, stmt)
	i.c.observe("SQLError", rc, start)
	return rec, rc
}

func (i *instrumented) Disconnect(dbc core.Handle) core.Return {
	start := time.Now()
	rc := i.next.Disconnect(dbc)
	i.c.observe("SQLDisconnect", rc, start)
	return rc
}

func (i *instrumented) FreeHandle(t core.HandleType, h core.Handle) core.Return {
	start := time.Now()
	rc := i.next.FreeHandle(t, h)
	i.c.observe("SQLFreeHandle", rc, start)
	return rc
}
