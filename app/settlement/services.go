package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/database"
	"github.com/joefazee/sportsbook/app/markets"
	"github.com/joefazee/sportsbook/app/wallet"
	"github.com/joefazee/sportsbook/internal/cache"
	"github.com/joefazee/sportsbook/internal/logger"
	"github.com/joefazee/sportsbook/internal/metrics"
	"github.com/joefazee/sportsbook/models"
	"gorm.io/gorm"
)

// Option configures optional collaborators of the settlement service
type Option func(*service)

// WithPublisher sets where committed settlements are announced
func WithPublisher(p Publisher) Option {
	return func(s *service) { s.publisher = p }
}

// WithCache enables run claims and report caching
func WithCache(c cache.Cache[string]) Option {
	return func(s *service) { s.cache = c }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *service) { s.metrics = r }
}

func WithLogger(l logger.Logger) Option {
	return func(s *service) { s.logger = l }
}

// WithClock overrides the settlement timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// service implements the Service interface
type service struct {
	config     *Config
	repo       Repository
	transactor database.Transactor
	wallets    Creditor
	extractor  markets.Extractor
	evaluator  markets.Evaluator

	publisher Publisher
	cache     cache.Cache[string]
	metrics   metrics.Recorder
	logger    logger.Logger
	now       func() time.Time
}

// NewService creates a new settlement service
func NewService(config *Config,
	repo Repository,
	transactor database.Transactor,
	wallets Creditor,
	extractor markets.Extractor,
	evaluator markets.Evaluator,
	opts ...Option) Service {
	if config == nil {
		config = GetDefaultConfig()
	}
	s := &service{
		config:     config,
		repo:       repo,
		transactor: transactor,
		wallets:    wallets,
		extractor:  extractor,
		evaluator:  evaluator,
		publisher:  NopPublisher{},
		metrics:    metrics.NopRecorder{},
		logger:     logger.NewNullLogger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SettleEvent settles every open single wager on a finished event, then every
// open parlay with a leg on it. Each wager is its own atomic unit; a failure on
// one wager is recorded in the report and never aborts the others.
func (s *service) SettleEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*Report, error) {
	report := newReport(&eventID, trigger, s.now())

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, ok := event.FullTime(); !ok || !event.IsFinished() {
		s.logger.Info("event not finished, nothing to settle", map[string]interface{}{
			"event_id": eventID.String(),
			"status":   string(event.Status),
		})
		report.FinishedAt = s.now()
		return report, nil
	}

	claimed, release := s.claim(ctx, eventID)
	if !claimed {
		report.InProgress = true
		return report, nil
	}
	defer release()

	wagers, err := s.candidates(ctx, event)
	if err != nil {
		return nil, err
	}

	for i := range wagers {
		report.add(s.settleSingle(ctx, event, &wagers[i], trigger))
	}
	s.settleParlaysOfEvent(ctx, eventID, trigger, report)

	s.finish(ctx, "event", report)
	return report, nil
}

// VoidEvent refunds every open single wager on a cancelled event and
// re-evaluates parlays with a leg on it.
func (s *service) VoidEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*Report, error) {
	report := newReport(&eventID, trigger, s.now())

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsCancelled() {
		return nil, models.ErrEventNotCancelled
	}

	claimed, release := s.claim(ctx, eventID)
	if !claimed {
		report.InProgress = true
		return report, nil
	}
	defer release()

	wagers, err := s.candidates(ctx, event)
	if err != nil {
		return nil, err
	}

	for i := range wagers {
		report.add(s.commit(ctx, &wagers[i], &event.ID, models.SettlementTypeRefund, nil, "event cancelled => void", trigger))
	}
	s.settleParlaysOfEvent(ctx, eventID, trigger, report)

	s.finish(ctx, "void", report)
	return report, nil
}

// SettleParlays sweeps all open parlays in id order and settles the ones whose
// legs are all final.
func (s *service) SettleParlays(ctx context.Context, trigger models.SettlementTrigger) (*Report, error) {
	report := newReport(nil, trigger, s.now())

	afterID := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := s.repo.FindOpenParlays(ctx, afterID, s.config.ParlayBatchSize)
		if err != nil {
			s.metrics.SettlementError("load")
			return report, fmt.Errorf("failed to load open parlays: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		s.settleParlayBatch(ctx, batch, trigger, report)

		afterID = batch[len(batch)-1].ID
		if len(batch) < s.config.ParlayBatchSize {
			break
		}
	}

	s.finish(ctx, "sweep", report)
	return report, nil
}

func (s *service) GetEventSettlements(ctx context.Context, eventID uuid.UUID) ([]Response, error) {
	settlements, err := s.repo.ListSettlementsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	responses := make([]Response, len(settlements))
	for i := range settlements {
		responses[i] = *ToResponse(&settlements[i])
	}
	return responses, nil
}

func (s *service) GetReport(ctx context.Context, eventID uuid.UUID) (*Report, error) {
	if s.cache == nil {
		return nil, models.ErrRecordNotFound
	}

	raw, err := s.cache.Get(ctx, reportKey(eventID))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

func (s *service) loadEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

// candidates is the union of wagers referencing the event and legacy wagers
// naming both teams, de-duplicated by id.
func (s *service) candidates(ctx context.Context, event *models.Event) ([]models.Wager, error) {
	direct, err := s.repo.FindWagersByEvent(ctx, event.ID)
	if err != nil {
		s.metrics.SettlementError("load")
		return nil, fmt.Errorf("failed to load event wagers: %w", err)
	}
	if !s.config.LegacyMatching {
		return direct, nil
	}

	legacy, err := s.repo.FindLegacyWagers(ctx, event.HomeTeam, event.AwayTeam)
	if err != nil {
		s.metrics.SettlementError("load")
		return nil, fmt.Errorf("failed to load legacy wagers: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(direct)+len(legacy))
	out := make([]models.Wager, 0, len(direct)+len(legacy))
	for _, list := range [][]models.Wager{direct, legacy} {
		for i := range list {
			if _, dup := seen[list[i].ID]; dup {
				continue
			}
			seen[list[i].ID] = struct{}{}
			out = append(out, list[i])
		}
	}
	return out, nil
}

func (s *service) settleSingle(ctx context.Context, event *models.Event, w *models.Wager, trigger models.SettlementTrigger) WagerResult {
	pick, err := s.extractor.Extract(w)
	if err != nil {
		return s.skip(ctx, w, &event.ID, "", err)
	}

	verdict, err := s.evaluator.Evaluate(pick, event)
	if err != nil {
		return s.skip(ctx, w, &event.ID, pick.String(), err)
	}

	trace := fmt.Sprintf("%s | %s => %s", pick, verdict.Reason, verdict.Outcome)
	return s.commit(ctx, w, &event.ID, verdict.Outcome.SettlementType(), &pick, trace, trigger)
}

func (s *service) settleParlaysOfEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger, report *Report) {
	parlays, err := s.repo.FindOpenParlaysByEvent(ctx, eventID)
	if err != nil {
		s.metrics.SettlementError("load")
		s.logger.Error(err, map[string]interface{}{"event_id": eventID.String(), "stage": "load_parlays"})
		report.Errors = append(report.Errors, "parlays: "+err.Error())
		return
	}
	s.settleParlayBatch(ctx, parlays, trigger, report)
}

func (s *service) settleParlayBatch(ctx context.Context, parlays []models.Wager, trigger models.SettlementTrigger, report *Report) {
	if len(parlays) == 0 {
		return
	}

	events, err := s.legEvents(ctx, parlays)
	if err != nil {
		s.metrics.SettlementError("load")
		s.logger.Error(err, map[string]interface{}{"stage": "load_leg_events"})
		report.Errors = append(report.Errors, "parlay legs: "+err.Error())
		return
	}

	for i := range parlays {
		if res, decided := s.settleParlay(ctx, &parlays[i], events, trigger); decided {
			report.add(res)
		}
	}
}

func (s *service) legEvents(ctx context.Context, parlays []models.Wager) (map[uuid.UUID]*models.Event, error) {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for i := range parlays {
		for _, sel := range parlays[i].Selections {
			if _, ok := seen[sel.EventID]; !ok {
				seen[sel.EventID] = struct{}{}
				ids = append(ids, sel.EventID)
			}
		}
	}

	events, err := s.repo.GetEvents(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Event, len(events))
	for i := range events {
		byID[events[i].ID] = &events[i]
	}
	return byID, nil
}

// settleParlay returns false while the parlay has to wait for more results
func (s *service) settleParlay(ctx context.Context, w *models.Wager, events map[uuid.UUID]*models.Event, trigger models.SettlementTrigger) (WagerResult, bool) {
	legs := make([]LegResult, len(w.Selections))
	for i := range w.Selections {
		legs[i] = evaluateLeg(&w.Selections[i], events[w.Selections[i].EventID], s.evaluator)
	}

	decision := AggregateParlay(legs)
	if decision.Blocked {
		return s.skip(ctx, w, nil, "", errors.New(decision.Trace)), true
	}
	if decision.Pending {
		s.logger.Debug("parlay pending", map[string]interface{}{"wager_id": w.ID.String(), "reason": decision.Trace})
		return WagerResult{}, false
	}

	trace := fmt.Sprintf("parlay: %s => %s", decision.Trace, decision.Outcome)
	return s.commit(ctx, w, nil, decision.Outcome.SettlementType(), nil, trace, trigger), true
}

// commit is the per-wager atomic unit: conditional status transition, wallet
// credit and settlement record share one transaction.
func (s *service) commit(ctx context.Context,
	w *models.Wager,
	eventID *uuid.UUID,
	kind models.SettlementType,
	pick *markets.Pick,
	trace string,
	trigger models.SettlementTrigger) WagerResult {
	res := WagerResult{WagerID: w.ID, Kind: w.Kind, Outcome: string(kind), Reason: trace}
	if pick != nil {
		res.Pick = pick.String()
	}
	if eventID == nil {
		eventID = w.EventID
	}

	// the caller's copy stays untouched if the transaction rolls back
	wager := *w
	err := s.transactor.InTx(ctx, func(tx *gorm.DB) error {
		payout, err := wager.ApplySettlement(kind, s.now())
		if err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		if err := repo.TransitionWager(ctx, &wager); err != nil {
			return err
		}

		record := models.NewSettlement(&wager, kind, trace, trigger)
		record.EventID = eventID
		if pick != nil {
			record.Market = string(pick.Market)
			record.Selection = selectionLabel(*pick)
		}

		if payout.IsPositive() {
			entry, err := s.wallets.Credit(ctx, tx, &wallet.CreditRequest{
				UserID:       wager.UserID,
				CurrencyCode: s.config.CurrencyCode,
				Amount:       payout,
				Type:         ledgerType(kind),
				WagerID:      wager.ID,
				EventID:      eventID,
				Trigger:      string(trigger),
			})
			if err != nil {
				return fmt.Errorf("failed to credit wallet: %w", err)
			}
			record.TransactionID = &entry.ID
		}

		if err := repo.CreateSettlement(ctx, record); err != nil {
			return fmt.Errorf("failed to record settlement: %w", err)
		}
		return nil
	})

	props := map[string]interface{}{
		"wager_id": w.ID.String(),
		"kind":     string(w.Kind),
		"outcome":  string(kind),
		"trigger":  string(trigger),
		"reason":   trace,
	}
	if pick != nil {
		props["market"] = string(pick.Market)
		props["selection"] = pick.Selection
	}

	switch {
	case err == nil:
	case errors.Is(err, models.ErrConcurrentSettlement), errors.Is(err, models.ErrWagerAlreadySettled):
		s.logger.Info("wager already settled", props)
		res.Status = StatusNoop
		return res
	default:
		s.metrics.SettlementError("commit")
		props["stage"] = "commit"
		s.logger.Error(err, props)
		s.audit(ctx, models.AuditActionSettlementFailed, w, res.Pick, err)
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}

	res.Status = StatusSettled
	res.Payout = wager.SettledPayout
	s.metrics.WagerSettled(string(kind))
	s.logger.Info("wager settled", props)

	msg := newWagerSettled(&wager, kind, trigger)
	msg.EventID = eventID
	if err := s.publisher.PublishSettled(ctx, msg); err != nil {
		s.metrics.SettlementError("publish")
		s.logger.Warn("failed to publish settlement", map[string]interface{}{
			"wager_id": w.ID.String(),
			"error":    err.Error(),
		})
	}
	return res
}

// skip leaves the wager open and records why for manual review
func (s *service) skip(ctx context.Context, w *models.Wager, eventID *uuid.UUID, pick string, cause error) WagerResult {
	reason := skipReason(cause)
	s.metrics.WagerSkipped(reason)

	props := map[string]interface{}{
		"wager_id":  w.ID.String(),
		"market":    w.Market,
		"selection": w.Selection,
		"reason":    cause.Error(),
	}
	if eventID != nil {
		props["event_id"] = eventID.String()
	}
	s.logger.Warn("wager skipped", props)
	s.audit(ctx, models.AuditActionSettlementSkipped, w, pick, cause)

	return WagerResult{
		WagerID: w.ID,
		Kind:    w.Kind,
		Status:  StatusSkipped,
		Pick:    pick,
		Reason:  cause.Error(),
	}
}

func (s *service) audit(ctx context.Context, action string, w *models.Wager, pick string, cause error) {
	entry := models.CreateSystemAuditLog(action, models.AuditResourceWager, &w.ID, nil, models.AuditValues{
		"wager_id":    w.ID.String(),
		"description": w.Description,
		"market":      w.Market,
		"selection":   w.Selection,
		"pick":        pick,
		"reason":      cause.Error(),
	})
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		s.metrics.SettlementError("audit")
		s.logger.Error(err, map[string]interface{}{"wager_id": w.ID.String(), "stage": "audit"})
	}
}

// claim coalesces overlapping runs for one event. Cache failures fall through
// to an unclaimed run; the conditional wager update still prevents double credit.
func (s *service) claim(ctx context.Context, eventID uuid.UUID) (bool, func()) {
	noop := func() {}
	if s.cache == nil {
		return true, noop
	}

	key := runKey(eventID)
	ok, err := s.cache.SetIfAbsent(ctx, key, uuid.NewString(), s.config.RunClaimTTL)
	if err != nil {
		s.logger.Warn("settlement claim unavailable", map[string]interface{}{
			"event_id": eventID.String(),
			"error":    err.Error(),
		})
		return true, noop
	}
	if !ok {
		s.logger.Info("settlement already running", map[string]interface{}{"event_id": eventID.String()})
		return false, noop
	}

	return true, func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to release settlement claim", map[string]interface{}{
				"event_id": eventID.String(),
				"error":    err.Error(),
			})
		}
	}
}

func (s *service) finish(ctx context.Context, kind string, report *Report) {
	report.FinishedAt = s.now()
	s.metrics.ObserveRun(kind, report.FinishedAt.Sub(report.StartedAt))

	props := map[string]interface{}{
		"kind":    kind,
		"trigger": string(report.Trigger),
		"settled": report.Settled,
		"skipped": report.Skipped,
		"noop":    report.Noop,
		"errors":  len(report.Errors),
		"paid":    report.TotalPaid().String(),
	}
	if report.EventID != nil {
		props["event_id"] = report.EventID.String()
	}
	s.logger.Info("settlement run finished", props)

	if s.cache == nil || report.EventID == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, reportKey(*report.EventID), string(raw), s.config.ReportTTL); err != nil {
		s.logger.Warn("failed to cache settlement report", map[string]interface{}{
			"event_id": report.EventID.String(),
			"error":    err.Error(),
		})
	}
}

func ledgerType(kind models.SettlementType) models.TransactionType {
	if kind == models.SettlementTypeRefund {
		return models.TransactionTypeWagerRefund
	}
	return models.TransactionTypePayout
}

func selectionLabel(p markets.Pick) string {
	if p.Market == markets.OverUnder {
		return p.Selection + " " + p.Line.StringFixed(1)
	}
	return p.Selection
}

func skipReason(err error) string {
	var marketErr *markets.MarketError
	switch {
	case errors.Is(err, markets.ErrUnresolvedSelection):
		return "unresolved"
	case errors.As(err, &marketErr):
		return "market_error"
	default:
		return "parlay_blocked"
	}
}

func runKey(eventID uuid.UUID) string {
	return "settlement:run:" + eventID.String()
}

func reportKey(eventID uuid.UUID) string {
	return "settlement:report:" + eventID.String()
}
