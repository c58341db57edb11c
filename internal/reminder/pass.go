package reminder

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/timesheet/internal/core/clock"
	"github.com/frahmantamala/timesheet/internal/notify"
)

type UserLister interface {
	UserIDs(ctx context.Context) []int64
}

type ReportIndex interface {
	ReportedUserIDs(ctx context.Context, date string) map[int64]struct{}
}

// Pass is one reminder run: every known user without a report dated today
// gets the reminder text.
type Pass struct {
	users   UserLister
	reports ReportIndex
	batcher notify.Batcher
	clock   clock.Clock
	text    string
	logger  *slog.Logger
}

func NewPass(users UserLister, reports ReportIndex, batcher notify.Batcher, clk clock.Clock, text string, logger *slog.Logger) *Pass {
	return &Pass{
		users:   users,
		reports: reports,
		batcher: batcher,
		clock:   clk,
		text:    text,
		logger:  logger,
	}
}

// Recipients lists the users still missing today's report, in id order.
func (p *Pass) Recipients(ctx context.Context) []int64 {
	today := clock.Today(p.clock)
	reported := p.reports.ReportedUserIDs(ctx, today)

	var out []int64
	for _, id := range p.users.UserIDs(ctx) {
		if _, ok := reported[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func (p *Pass) Run(ctx context.Context) notify.BatchResult {
	recipients := p.Recipients(ctx)
	if len(recipients) == 0 {
		p.logger.Info("reminder pass: everyone has reported")
		return notify.BatchResult{Results: []notify.Result{}}
	}

	result := p.batcher.Deliver(ctx, recipients, p.text)
	p.logger.Info("reminder pass finished",
		"date", clock.Today(p.clock),
		"recipients", len(recipients),
		"sent", result.Sent,
		"failed", result.Failed)
	return result
}
