package usecase

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/domain/repository"
	"github.com/housing-survey-dashboard/internal/metrics"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
	"github.com/housing-survey-dashboard/internal/usecase/dto"
)

// DashboardConfig - параметры представления
type DashboardConfig struct {
	ListLimit       int
	ClickToleranceM float64
}

// DashboardUseCase - use case взаимодействий с дашбордом.
// Каждое взаимодействие: загрузить сессию -> редьюсер события -> сохранить -> пересчитать представление.
type DashboardUseCase struct {
	sessionRepo repository.SessionRepository
	datasetRepo repository.DatasetRepository
	ingester    repository.Ingester
	logger      *zap.Logger
	cfg         DashboardConfig
	now         func() time.Time

	// запросы к одной сессии выполняются по очереди
	locks [64]sync.Mutex

	defaultMu  sync.Mutex
	defaultSet *domain.RecordSet
}

// NewDashboardUseCase - создание нового DashboardUseCase. datasetRepo может быть nil: сессии начинаются пустыми.
func NewDashboardUseCase(
	sessionRepo repository.SessionRepository,
	datasetRepo repository.DatasetRepository,
	ingester repository.Ingester,
	logger *zap.Logger,
	cfg DashboardConfig,
) *DashboardUseCase {
	return &DashboardUseCase{
		sessionRepo: sessionRepo,
		datasetRepo: datasetRepo,
		ingester:    ingester,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// CreateSession - новая сессия над набором по умолчанию
func (uc *DashboardUseCase) CreateSession(ctx context.Context) (*dto.ViewResponse, error) {
	records, source := uc.defaultDataset(ctx)

	session := domain.NewSession(records, source, uc.now())
	if err := uc.sessionRepo.Save(ctx, session); err != nil {
		uc.logger.Error("Failed to save session", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Session created",
		zap.String("session_id", session.ID.String()),
		zap.String("source", source.Kind),
		zap.Int("records", records.Len()),
	)

	return &dto.ViewResponse{View: uc.buildView(session), Changed: true}, nil
}

// GetView - текущее представление сессии без изменения состояния
func (uc *DashboardUseCase) GetView(ctx context.Context, id uuid.UUID) (*dto.ViewResponse, error) {
	session, err := uc.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ViewResponse{View: uc.buildView(session)}, nil
}

// GetMap - данные для карты: отфильтрованные проекты и принудительный viewport
func (uc *DashboardUseCase) GetMap(ctx context.Context, id uuid.UUID) (*domain.MapPayload, error) {
	session, err := uc.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := BuildMapPayload(session)
	return &payload, nil
}

// DeleteSession - завершение сессии
func (uc *DashboardUseCase) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := uc.sessionRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("Session deleted", zap.String("session_id", id.String()))
	return nil
}

// Upload разбирает файл и заменяет им набор сессии. При ошибке разбора прежний набор остаётся активным.
func (uc *DashboardUseCase) Upload(ctx context.Context, id uuid.UUID, req dto.UploadRequest) (*dto.ViewResponse, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(req.FileName)), ".")

	return uc.interact(ctx, id, func() (domain.Event, error) {
		records, err := uc.ingester.Ingest(ctx, req.Data, req.FileName)
		if err != nil {
			metrics.IngestTotal.WithLabelValues(format, "error").Inc()
			uc.logger.Warn("Upload rejected",
				zap.String("session_id", id.String()),
				zap.String("file", req.FileName),
				zap.Error(err),
			)
			return nil, err
		}
		if records.IsEmpty() {
			metrics.IngestTotal.WithLabelValues(format, "empty").Inc()
			return nil, errors.ErrMalformedInput.WithDetails(map[string]interface{}{
				"reason": "file contains no records",
			})
		}

		metrics.IngestTotal.WithLabelValues(format, "ok").Inc()
		metrics.IngestRecords.Observe(float64(records.Len()))

		return domain.FileUploaded{
			Records: records,
			Source: domain.DatasetSource{
				Kind:     domain.SourceUpload,
				Name:     filepath.Base(req.FileName),
				LoadedAt: uc.now(),
			},
		}, nil
	})
}

// ChangeFilters - новые значения каскадных фильтров
func (uc *DashboardUseCase) ChangeFilters(ctx context.Context, id uuid.UUID, req dto.FiltersRequest) (*dto.ViewResponse, error) {
	return uc.dispatch(ctx, id, domain.FiltersChanged{Filters: req.ToConstraints()})
}

// MoveMap - карта сообщила новый видимый bbox
func (uc *DashboardUseCase) MoveMap(ctx context.Context, id uuid.UUID, req dto.ViewportRequest) (*dto.ViewResponse, error) {
	return uc.dispatch(ctx, id, domain.MapMoved{Viewport: req.BoundingBox()})
}

// ClickMap - выбор проекта кликом по карте, по всему набору без учёта фильтров
func (uc *DashboardUseCase) ClickMap(ctx context.Context, id uuid.UUID, req dto.ClickRequest) (*dto.ViewResponse, error) {
	return uc.dispatch(ctx, id, domain.MapClicked{Point: req.Point(), Tolerance: uc.cfg.ClickToleranceM})
}

// SelectRecord - выбор проекта из списка
func (uc *DashboardUseCase) SelectRecord(ctx context.Context, id uuid.UUID, req dto.RecordRequest) (*dto.ViewResponse, error) {
	return uc.dispatch(ctx, id, domain.RecordChosen{RecordID: *req.RecordID})
}

// ZoomToRecord - зум карты на проект
func (uc *DashboardUseCase) ZoomToRecord(ctx context.Context, id uuid.UUID, req dto.RecordRequest) (*dto.ViewResponse, error) {
	return uc.dispatch(ctx, id, domain.ZoomRequested{RecordID: *req.RecordID})
}

// ClearZoom - сброс зума на проект
func (uc *DashboardUseCase) ClearZoom(ctx context.Context, id uuid.UUID) (*dto.ViewResponse, error) {
	return uc.dispatch(ctx, id, domain.ZoomCleared{})
}

func (uc *DashboardUseCase) dispatch(ctx context.Context, id uuid.UUID, event domain.Event) (*dto.ViewResponse, error) {
	return uc.interact(ctx, id, func() (domain.Event, error) {
		return event, nil
	})
}

// interact выполняет одно взаимодействие под блокировкой сессии.
// Состояние сохраняется только после успешного редьюсера.
func (uc *DashboardUseCase) interact(
	ctx context.Context,
	id uuid.UUID,
	makeEvent func() (domain.Event, error),
) (*dto.ViewResponse, error) {
	lock := &uc.locks[int(id[15])%len(uc.locks)]
	lock.Lock()
	defer lock.Unlock()

	session, err := uc.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := makeEvent()
	if err != nil {
		return nil, err
	}

	next, changed, err := Reduce(session, event, uc.now())
	if err != nil {
		metrics.InteractionsTotal.WithLabelValues(event.EventName(), "error").Inc()
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			uc.logger.Error("Failed to apply event",
				zap.String("session_id", id.String()),
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if err := uc.sessionRepo.Save(ctx, next); err != nil {
		uc.logger.Error("Failed to save session", zap.String("session_id", id.String()), zap.Error(err))
		return nil, err
	}

	outcome := "unchanged"
	if changed {
		outcome = "changed"
	}
	metrics.InteractionsTotal.WithLabelValues(event.EventName(), outcome).Inc()

	uc.logger.Debug("Event applied",
		zap.String("session_id", id.String()),
		zap.String("event", event.EventName()),
		zap.Bool("changed", changed),
		zap.Int64("revision", next.Revision),
	)

	return &dto.ViewResponse{View: uc.buildView(next), Changed: changed}, nil
}

func (uc *DashboardUseCase) buildView(s *domain.Session) domain.DashboardView {
	start := time.Now()
	view := BuildView(s, uc.cfg.ListLimit)
	metrics.ViewBuildDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	return view
}

// defaultDataset загружает набор по умолчанию один раз; при ошибке сессия начинается пустой
func (uc *DashboardUseCase) defaultDataset(ctx context.Context) (domain.RecordSet, domain.DatasetSource) {
	empty := domain.DatasetSource{Kind: domain.SourceEmpty, LoadedAt: uc.now()}
	if uc.datasetRepo == nil {
		return domain.NewRecordSet(nil), empty
	}

	uc.defaultMu.Lock()
	defer uc.defaultMu.Unlock()

	if uc.defaultSet == nil {
		set, err := uc.datasetRepo.LoadDefault(ctx)
		if err != nil {
			uc.logger.Warn("Failed to load default dataset, starting empty", zap.Error(err))
			return domain.NewRecordSet(nil), empty
		}
		uc.defaultSet = &set
		uc.logger.Info("Default dataset loaded", zap.Int("records", set.Len()))
	}

	return *uc.defaultSet, domain.DatasetSource{Kind: domain.SourceDefault, LoadedAt: uc.now()}
}
