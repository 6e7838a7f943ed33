package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// StatsService aggregates the operational counters the admin dashboard
// reads and logs a daily activity snapshot.
type StatsService struct {
	store Store
	log   zerolog.Logger
	sched gocron.Scheduler
}

func NewStatsService(store Store, log zerolog.Logger) *StatsService {
	return &StatsService{store: store, log: log}
}

// StatsSnapshot is the admin dashboard payload.
type StatsSnapshot struct {
	Counters    map[string]float64 `json:"counters"`
	ActiveToday int64              `json:"active_today"`
	Day         string             `json:"day"`
}

func (s *StatsService) Snapshot(ctx context.Context, now time.Time) (*StatsSnapshot, error) {
	counters, err := s.store.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	day := now.UTC().Format("2006-01-02")
	active, err := s.store.CountActive(ctx, day)
	if err != nil {
		return nil, err
	}

	return &StatsSnapshot{
		Counters:    counters,
		ActiveToday: active,
		Day:         day,
	}, nil
}

// StartDailyJob logs the previous day's activity once per day at UTC
// midnight.
func (s *StatsService) StartDailyJob() error {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
			active, err := s.store.CountActive(ctx, yesterday)
			if err != nil {
				s.log.Error().Err(err).Msg("daily stats snapshot failed")
				return
			}

			counters, err := s.store.GetStats(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("daily stats snapshot failed")
				return
			}

			s.log.Info().
				Str("day", yesterday).
				Int64("active_users", active).
				Float64("total_spins", counters[StatTotalSpins]).
				Float64("total_scratches", counters[StatTotalScratches]).
				Float64("sol_distributed", counters[StatSolDistributed]).
				Float64("dfyr_distributed", counters[StatDfyrDistributed]).
				Msg("daily activity snapshot")
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	s.sched = sched
	return nil
}

func (s *StatsService) Stop() {
	if s.sched != nil {
		_ = s.sched.Shutdown()
	}
}
