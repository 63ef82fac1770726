package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type OTPPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type ResetTokenPurger interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// CleanupJob removes expired OTPs and password reset tokens.
type CleanupJob struct {
	otps     OTPPurger
	users    ResetTokenPurger
	schedule string
	now      func() time.Time
	logger   *zap.Logger
}

func NewCleanupJob(otps OTPPurger, users ResetTokenPurger, schedule string, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		otps:     otps,
		users:    users,
		schedule: schedule,
		now:      time.Now,
		logger:   logger,
	}
}

func (j *CleanupJob) Name() string     { return "expired-credentials-cleanup" }
func (j *CleanupJob) Schedule() string { return j.schedule }

func (j *CleanupJob) Run(ctx context.Context) error {
	now := j.now()

	otps, otpErr := j.otps.DeleteExpired(ctx, now)
	tokens, tokenErr := j.users.ClearExpiredResetTokens(ctx, now)
	if err := errors.Join(otpErr, tokenErr); err != nil {
		return err
	}

	if otps > 0 || tokens > 0 {
		j.logger.Info("expired credentials removed", zap.Int64("otps", otps), zap.Int64("reset_tokens", tokens))
	}
	return nil
}
