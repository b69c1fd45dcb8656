package background

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"escalas/internal/analytics"
	"escalas/internal/models"
	"escalas/internal/repositories"
	"escalas/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Churches whose trial or subscription ends within this many days get a
// trial_expiring notice.
const expiryWarningDays = 3

// JobScheduler manages the periodic background sweeps
type JobScheduler struct {
	scheduler       gocron.Scheduler
	statsSvc        *analytics.StatsService
	notificationSvc services.NotificationService
	churchRepo      repositories.ChurchRepository
	scheduleRepo    repositories.ScheduleRepository
	responseRepo    repositories.ResponseRepository
	jobJobs         map[string]gocron.Job
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(
	statsSvc *analytics.StatsService,
	notificationSvc services.NotificationService,
	churchRepo repositories.ChurchRepository,
	scheduleRepo repositories.ScheduleRepository,
	responseRepo repositories.ResponseRepository,
) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		statsSvc:        statsSvc,
		notificationSvc: notificationSvc,
		churchRepo:      churchRepo,
		scheduleRepo:    scheduleRepo,
		responseRepo:    responseRepo,
		jobJobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Trial and subscription expiry sweep - every 12 hours
	expiryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(12*time.Hour),
		gocron.NewTask(js.sweepExpiringAccess, context.Background()),
		gocron.WithName("access-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create expiry sweep job: %v", err)
	} else {
		js.jobJobs["access-expiry"] = expiryJob
	}

	// Pending response reminders - every 6 hours
	remindersJob, err := js.scheduler.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(js.sweepPendingResponses, context.Background()),
		gocron.WithName("pending-response-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reminders job: %v", err)
	} else {
		js.jobJobs["pending-responses"] = remindersJob
	}

	// Dashboard stats refresh - every 15 minutes
	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(js.refreshDashboardStats, context.Background()),
		gocron.WithName("dashboard-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stats refresh job: %v", err)
	} else {
		js.jobJobs["stats-refresh"] = statsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

// sweepExpiringAccess warns churches whose trial or paid period is about
// to run out. NotifyOnce keeps the sweep from stacking duplicate notices.
func (js *JobScheduler) sweepExpiringAccess(ctx context.Context) error {
	log.Printf("Starting access expiry sweep")

	churches, err := js.churchRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to list churches for expiry sweep: %v", err)
		return err
	}

	now := time.Now()
	since := now.AddDate(0, 0, -expiryWarningDays).Format("2006-01-02")
	warned := 0
	for _, church := range churches {
		status := services.EvaluateAccess(church, now)
		if !status.Active || status.DaysLeft == nil || *status.DaysLeft > expiryWarningDays {
			continue
		}

		var message string
		if status.InTrial {
			message = fmt.Sprintf("Seu período de teste termina em %d dia(s). Assine um plano para continuar usando as escalas.", *status.DaysLeft)
		} else {
			message = fmt.Sprintf("Sua assinatura termina em %d dia(s). Renove para não perder o acesso.", *status.DaysLeft)
		}

		if err := js.notificationSvc.NotifyOnce(ctx, church.ID, models.NotificationTrialExpiring, message, since); err != nil {
			log.Printf("Failed to notify church %s about expiry: %v", church.ID.String(), err)
			continue
		}
		warned++
	}

	log.Printf("Completed access expiry sweep, %d churches warned", warned)
	return nil
}

// sweepPendingResponses nudges churches that have unanswered assignments
// on schedules happening in the next 7 days.
func (js *JobScheduler) sweepPendingResponses(ctx context.Context) error {
	log.Printf("Starting pending response sweep")

	churches, err := js.churchRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to list churches for response sweep: %v", err)
		return err
	}

	today := time.Now().Format("2006-01-02")
	horizon := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	for _, church := range churches {
		upcoming, err := js.scheduleRepo.ListUpcoming(ctx, church.ID, today, horizon)
		if err != nil {
			log.Printf("Failed to list upcoming schedules for church %s: %v", church.ID.String(), err)
			continue
		}
		if len(upcoming) == 0 {
			continue
		}

		scheduleIDs := make([]uuid.UUID, 0, len(upcoming))
		for _, schedule := range upcoming {
			scheduleIDs = append(scheduleIDs, schedule.ID)
		}
		pending, err := js.responseRepo.CountPendingForSchedules(ctx, scheduleIDs)
		if err != nil {
			log.Printf("Failed to count pending responses for church %s: %v", church.ID.String(), err)
			continue
		}
		if pending == 0 {
			continue
		}

		message := fmt.Sprintf("%d voluntário(s) ainda não responderam às escalas dos próximos 7 dias.", pending)
		if err := js.notificationSvc.NotifyOnce(ctx, church.ID, models.NotificationPendingReplies, message, today); err != nil {
			log.Printf("Failed to notify church %s about pending responses: %v", church.ID.String(), err)
		}
	}

	log.Printf("Completed pending response sweep")
	return nil
}

// refreshDashboardStats recomputes the cached dashboard aggregate for
// every church so the cache stays warm.
func (js *JobScheduler) refreshDashboardStats(ctx context.Context) error {
	log.Printf("Starting dashboard stats refresh")

	churches, err := js.churchRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to list churches for stats refresh: %v", err)
		return err
	}

	// Process churches in parallel with concurrency control
	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, church := range churches {
		wg.Add(1)
		go func(churchID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := js.statsSvc.InvalidateStatsCache(ctx, churchID); err != nil {
				log.Printf("Failed to invalidate stats cache for church %s: %v", churchID.String(), err)
			}
			if _, err := js.statsSvc.GetDashboardStats(ctx, churchID); err != nil {
				log.Printf("Failed to refresh stats for church %s: %v", churchID.String(), err)
			}
		}(church.ID)
	}

	wg.Wait()
	log.Printf("Completed dashboard stats refresh for %d churches", len(churches))
	return nil
}

// GetJobStatus reports the registered jobs and their next run times for
// the metrics endpoint. The registry is only written during construction,
// so reads need no locking.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobJobs)

	jobs := make(map[string]interface{}, len(js.jobJobs))
	for name, job := range js.jobJobs {
		info := map[string]interface{}{}
		if nextRun, err := job.NextRun(); err == nil {
			info["next_run"] = nextRun.UTC().Format(time.RFC3339)
		}
		if lastRun, err := job.LastRun(); err == nil && !lastRun.IsZero() {
			info["last_run"] = lastRun.UTC().Format(time.RFC3339)
		}
		jobs[name] = info
	}
	status["jobs"] = jobs

	return status
}
