package lifecycle

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultSweepInterval = 5 * time.Minute

// SweeperOptions задаёт параметры периодического прохода по PENDING-заказам.
type SweeperOptions struct {
	Logger   *log.Entry
	Interval time.Duration
}

// SweeperOption настраивает Sweeper.
type SweeperOption func(*SweeperOptions)

// WithSweepLogger задаёт logger для воркера.
func WithSweepLogger(logger *log.Entry) SweeperOption {
	return func(opts *SweeperOptions) {
		opts.Logger = logger
	}
}

// WithSweepInterval задаёт интервал между проходами.
func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(opts *SweeperOptions) {
		opts.Interval = interval
	}
}

// Sweeper — внешний таймер-актор движка: по расписанию вызывает один
// идемпотентный метод ProcessPendingOrders и ничего больше. Общего состояния
// с обработкой запросов нет, кроме самого репозитория.
type Sweeper struct {
	service  *Service
	logger   *log.Entry
	interval time.Duration
}

// NewSweeper создаёт воркер периодического продвижения PENDING-заказов.
func NewSweeper(service *Service, options ...SweeperOption) *Sweeper {
	opts := SweeperOptions{
		Interval: defaultSweepInterval,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "pending-sweeper")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultSweepInterval
	}

	return &Sweeper{
		service:  service,
		logger:   logger,
		interval: opts.Interval,
	}
}

// Run запускает периодические проходы до отмены ctx. Первый проход
// выполняется сразу при старте.
func (w *Sweeper) Run(ctx context.Context) {
	if w.service == nil {
		w.logger.Warn("pending sweeper is disabled: service is nil")
		return
	}

	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Sweeper) sweep() {
	advanced, err := w.service.ProcessPendingOrders()
	if err != nil {
		w.logger.WithError(err).Warn("pending order sweep failed")
		return
	}
	if advanced > 0 {
		w.logger.WithField("advanced", advanced).Info("pending order sweep completed")
	}
}
