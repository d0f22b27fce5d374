// Package reconcile compares clocked time against the scheduled shift.
//
// Everything here is a pure computation over immutable inputs. A session
// with unusable data contributes zero to its totals and yields a Diagnostic;
// one bad record never aborts a report.
package reconcile

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	attendancemodels "tempo/internal/attendance/models"
	"tempo/internal/reconcile/metrics"
	schedulemodels "tempo/internal/schedule/models"
	id "tempo/pkg/domain"
)

// DiagnosticCode classifies why a session contributed less than expected.
type DiagnosticCode string

const (
	DiagnosticMissingSchedule   DiagnosticCode = "missing_schedule_data"
	DiagnosticIncompleteClock   DiagnosticCode = "incomplete_clock_data"
	DiagnosticAmbiguousNight    DiagnosticCode = "ambiguous_night_shift"
	DiagnosticInvalidClockOrder DiagnosticCode = "invalid_clock_order"
)

// Diagnostic flags a session that needs attention.
type Diagnostic struct {
	SessionID id.SessionID   `json:"session_id"`
	Code      DiagnosticCode `json:"code"`
	Message   string         `json:"message"`
}

// SessionResult is the reconciliation of one session.
type SessionResult struct {
	SessionID     id.SessionID   `json:"session_id"`
	ContractID    id.ContractID  `json:"contract_id"`
	ShiftDate     time.Time      `json:"shift_date"`
	NightShift    NightShiftKind `json:"night_shift,omitempty"`
	TheoreticalMs int64          `json:"theoretical_ms"`
	ActualMs      int64          `json:"actual_ms"`
	BalanceMs     int64          `json:"balance_ms"`
	Theoretical   string         `json:"theoretical"`
	Actual        string         `json:"actual"`
	Balance       string         `json:"balance"`
	Entry         Punctuality    `json:"entry"`
	Exit          Punctuality    `json:"exit"`
	EntryDiffMin  *int           `json:"entry_diff_minutes,omitempty"`
	ExitDiffMin   *int           `json:"exit_diff_minutes,omitempty"`
}

// WeeklyTotal sums one contract's sessions over one Monday-based week.
type WeeklyTotal struct {
	ContractID    id.ContractID `json:"contract_id"`
	WeekStart     time.Time     `json:"week_start"`
	Sessions      int           `json:"sessions"`
	TheoreticalMs int64         `json:"theoretical_ms"`
	ActualMs      int64         `json:"actual_ms"`
	BalanceMs     int64         `json:"balance_ms"`
	Theoretical   string        `json:"theoretical"`
	Actual        string        `json:"actual"`
	Balance       string        `json:"balance"`
}

// Report is the output of a reconciliation run. PerSession follows the input
// order; PerContractWeekly is ordered by week then contract.
type Report struct {
	PerSession        []SessionResult `json:"per_session"`
	PerContractWeekly []WeeklyTotal   `json:"per_contract_weekly"`
	Diagnostics       []Diagnostic    `json:"diagnostics"`
}

// Engine runs reconciliations. The zero value is not usable; call NewEngine.
type Engine struct {
	location *time.Location
	workers  int
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the Engine.
type Option func(*Engine)

// WithLocation sets the time zone clock marks are read in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithWorkers bounds how many sessions are evaluated concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine constructs an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		location: time.UTC,
		workers:  runtime.GOMAXPROCS(0),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile evaluates every session against its schedule (matched by session
// id) and aggregates weekly totals per contract. The only error is ctx
// cancellation.
func (e *Engine) Reconcile(ctx context.Context, sessions []attendancemodels.ClockSession, schedules []schedulemodels.ScheduleDefinition) (Report, error) {
	start := time.Now()
	bySession := make(map[id.SessionID]schedulemodels.ScheduleDefinition, len(schedules))
	for _, def := range schedules {
		if _, dup := bySession[def.SessionID]; !dup {
			bySession[def.SessionID] = def
		}
	}

	results := make([]SessionResult, len(sessions))
	diags := make([][]Diagnostic, len(sessions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range sessions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var def *schedulemodels.ScheduleDefinition
			if d, ok := bySession[sessions[i].ID]; ok {
				def = &d
			}
			results[i], diags[i] = e.ReconcileSession(sessions[i], def)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		PerSession:        results,
		PerContractWeekly: aggregateWeekly(results),
		Diagnostics:       []Diagnostic{},
	}
	for _, d := range diags {
		report.Diagnostics = append(report.Diagnostics, d...)
	}
	for _, d := range report.Diagnostics {
		e.metrics.IncDiagnostic(string(d.Code))
	}
	e.metrics.ObserveRun(len(sessions), time.Since(start))
	if len(report.Diagnostics) > 0 {
		e.logger.InfoContext(ctx, "reconciliation finished with diagnostics",
			"sessions", len(sessions),
			"diagnostics", len(report.Diagnostics),
		)
	}
	return report, nil
}

// ReconcileSession evaluates one session. def is nil when the schedule source
// had nothing for the session.
func (e *Engine) ReconcileSession(session attendancemodels.ClockSession, def *schedulemodels.ScheduleDefinition) (SessionResult, []Diagnostic) {
	res := SessionResult{
		SessionID:  session.ID,
		ContractID: session.Schedule.ContractID,
		ShiftDate:  session.Schedule.ShiftDate,
		Entry:      PunctualityUnknown,
		Exit:       PunctualityUnknown,
	}
	diag := func(code DiagnosticCode, msg string) []Diagnostic {
		return []Diagnostic{{SessionID: session.ID, Code: code, Message: msg}}
	}

	if def == nil {
		return finish(res), diag(DiagnosticMissingSchedule, "no schedule definition for session")
	}
	if !def.ContractID.IsNil() {
		res.ContractID = def.ContractID
	}
	if res.ShiftDate.IsZero() {
		res.ShiftDate = def.ShiftDate
	}
	if err := def.Validate(); err != nil {
		return finish(res), diag(DiagnosticMissingSchedule, "schedule definition unusable: "+err.Error())
	}
	if def.Start == def.End {
		return finish(res), diag(DiagnosticAmbiguousNight, "scheduled start equals scheduled end")
	}

	var clockIn, clockOut *schedulemodels.ClockTime
	if session.ClockIn != nil {
		ct := schedulemodels.ClockTimeOf(*session.ClockIn, e.location)
		clockIn = &ct
	}
	if session.ClockOut != nil {
		ct := schedulemodels.ClockTimeOf(*session.ClockOut, e.location)
		clockOut = &ct
	}

	tl := newTimeline(def.Start, def.End, clockIn)
	res.NightShift = tl.kind
	res.TheoreticalMs = int64(tl.theoreticalMinutes(*def)) * msPerMinute

	var in, out int
	if clockIn != nil {
		in = tl.clockIn(*clockIn)
		diff := in - tl.scheduledStart()
		res.EntryDiffMin = &diff
		res.Entry = ClassifyEntry(diff)
	}
	if clockOut != nil {
		out = tl.at(*clockOut)
		if clockIn != nil && out < in {
			// A day shift worked past the 12h fold.
			out += minutesPerDay
		}
		diff := out - tl.scheduledEnd()
		res.ExitDiffMin = &diff
		res.Exit = ClassifyExit(diff)
	}

	if clockIn == nil || clockOut == nil {
		return finish(res), diag(DiagnosticIncompleteClock, "clock-in or clock-out missing")
	}
	if out <= in {
		return finish(res), diag(DiagnosticInvalidClockOrder, "clock-out does not fall after clock-in on the shift timeline")
	}

	breaks := make([]interval, 0, len(session.AdditionalBreaks)+1)
	for _, b := range session.RealizedBreaks() {
		s := tl.at(schedulemodels.ClockTimeOf(b.Start, e.location))
		if s < in && s+minutesPerDay <= out {
			// Taken after the fold, like the clock-out.
			s += minutesPerDay
		}
		end := out
		if b.End != nil {
			end = tl.at(schedulemodels.ClockTimeOf(*b.End, e.location))
			if end < s {
				end += minutesPerDay
			}
		}
		breaks = append(breaks, interval{start: s, end: end})
	}
	res.ActualMs = int64(workedMinutes(in, out, breaks)) * msPerMinute
	return finish(res), nil
}

func finish(res SessionResult) SessionResult {
	res.BalanceMs = res.ActualMs - res.TheoreticalMs
	res.Theoretical = FormatHHMM(res.TheoreticalMs)
	res.Actual = FormatHHMM(res.ActualMs)
	res.Balance = FormatBalance(res.BalanceMs)
	return res
}

// WeekStart returns the Monday 00:00 UTC of the ISO week containing date.
func WeekStart(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

type weekKey struct {
	contract id.ContractID
	week     time.Time
}

func aggregateWeekly(results []SessionResult) []WeeklyTotal {
	totals := make(map[weekKey]*WeeklyTotal)
	for _, r := range results {
		key := weekKey{contract: r.ContractID, week: WeekStart(r.ShiftDate)}
		t, ok := totals[key]
		if !ok {
			t = &WeeklyTotal{ContractID: key.contract, WeekStart: key.week}
			totals[key] = t
		}
		t.Sessions++
		t.TheoreticalMs += r.TheoreticalMs
		t.ActualMs += r.ActualMs
	}

	out := make([]WeeklyTotal, 0, len(totals))
	for _, t := range totals {
		t.BalanceMs = t.ActualMs - t.TheoreticalMs
		t.Theoretical = FormatHHMM(t.TheoreticalMs)
		t.Actual = FormatHHMM(t.ActualMs)
		t.Balance = FormatBalance(t.BalanceMs)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekStart.Equal(out[j].WeekStart) {
			return out[i].WeekStart.Before(out[j].WeekStart)
		}
		return out[i].ContractID.String() < out[j].ContractID.String()
	})
	return out
}
