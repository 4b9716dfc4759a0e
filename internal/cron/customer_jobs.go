package cron

import (
	"context"
	"fmt"

	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

const (
	CustomerInactivityJobName = "customer_inactivity"
	VIPUpgradeJobName         = "vip_upgrade"
)

type inactivitySweeper interface {
	MarkInactiveCustomers(ctx context.Context) (int, error)
}

type vipUpgrader interface {
	UpgradeEligibleToVIP(ctx context.Context) (int, error)
}

// NewCustomerInactivityJob flips customers with no recent orders to INACTIVE.
func NewCustomerInactivityJob(logg *logger.Logger, customers inactivitySweeper) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer service required")
	}
	return &sweepJob{
		name: CustomerInactivityJobName,
		logg: logg,
		run:  customers.MarkInactiveCustomers,
	}, nil
}

// NewVIPUpgradeJob promotes every customer that crossed the VIP order threshold.
func NewVIPUpgradeJob(logg *logger.Logger, customers vipUpgrader) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer service required")
	}
	return &sweepJob{
		name: VIPUpgradeJobName,
		logg: logg,
		run:  customers.UpgradeEligibleToVIP,
	}, nil
}

type sweepJob struct {
	name string
	logg *logger.Logger
	run  func(context.Context) (int, error)
}

func (j *sweepJob) Name() string { return j.name }

// Run returns the partial count alongside the error when some rows failed.
func (j *sweepJob) Run(ctx context.Context) (int, error) {
	updated, err := j.run(ctx)
	if updated > 0 {
		j.logg.Info(j.logg.WithField(ctx, "updated", updated), "customers updated")
	}
	if err != nil {
		return updated, fmt.Errorf("%s: %w", j.name, err)
	}
	return updated, nil
}
