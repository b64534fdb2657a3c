package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/repository"
)

// RateSource returns exchange rates for a date as roubles per currency unit
type RateSource interface {
	GetRates(ctx context.Context, on time.Time) (map[string]float64, error)
}

// Service handles business logic
type Service struct {
	repo   repository.Store
	rates  RateSource
	engine *forecast.Engine
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service
func NewService(repo repository.Store, rates RateSource, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		rates:  rates,
		engine: forecast.NewEngine(cfg.Forecast),
		log:    log,
		config: cfg,
		now:    time.Now,
	}
}

// WithClock replaces the clock used to determine "today"
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Engine exposes the pipeline the service runs
func (s *Service) Engine() *forecast.Engine {
	return s.engine
}

// converter turns amounts in any currency into the base currency
type converter struct {
	base  string
	rates map[string]float64
}

func (c converter) convert(amount float64, currency string) (float64, error) {
	if currency == "" || currency == c.base {
		return amount, nil
	}
	from, ok := c.rates[currency]
	if !ok {
		return 0, fmt.Errorf("no exchange rate for %s", currency)
	}
	to, ok := c.rates[c.base]
	if !ok {
		return 0, fmt.Errorf("no exchange rate for base currency %s", c.base)
	}
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(from)).
		Div(decimal.NewFromFloat(to)).
		Round(2).
		InexactFloat64(), nil
}

// newConverter fetches rates only when some currency differs from the base
func (s *Service) newConverter(ctx context.Context, currencies []string) (converter, error) {
	c := converter{base: s.config.BaseCurrency}
	foreign := false
	for _, cur := range currencies {
		if cur != "" && cur != c.base {
			foreign = true
			break
		}
	}
	if !foreign {
		return c, nil
	}
	if s.rates == nil {
		return c, models.Unavailable("convert currencies", errors.New("no rate source configured"))
	}
	rates, err := s.rates.GetRates(ctx, s.now())
	if err != nil {
		return c, models.Unavailable("get exchange rates", err)
	}
	c.rates = rates
	return c, nil
}

// toBaseCurrency converts transactions in place
func (s *Service) toBaseCurrency(ctx context.Context, txs []models.Transaction) error {
	currencies := make([]string, 0, len(txs))
	for _, tx := range txs {
		currencies = append(currencies, tx.Currency)
	}
	c, err := s.newConverter(ctx, currencies)
	if err != nil {
		return err
	}
	for i := range txs {
		amount, err := c.convert(txs[i].Amount, txs[i].Currency)
		if err != nil {
			return models.Unavailable("convert transaction", err)
		}
		txs[i].Amount = amount
		txs[i].Currency = c.base
	}
	return nil
}

// CurrentBalance sums all historical transactions of the user, in the base currency
func (s *Service) CurrentBalance(ctx context.Context, userID int64) (float64, error) {
	balances, err := s.repo.AccountBalances(ctx, userID)
	if err != nil {
		return 0, models.Unavailable("load account balances", err)
	}
	currencies := make([]string, 0, len(balances))
	for _, b := range balances {
		currencies = append(currencies, b.Currency)
	}
	c, err := s.newConverter(ctx, currencies)
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, b := range balances {
		amount, err := c.convert(b.Balance, b.Currency)
		if err != nil {
			return 0, models.Unavailable("convert account balance", err)
		}
		total = total.Add(decimal.NewFromFloat(amount))
	}
	return total.Round(2).InexactFloat64(), nil
}

func observe(op string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		outcome = metrics.OutcomeInvalid
	case err != nil:
		outcome = metrics.OutcomeUnavailable
	}
	metrics.Requests.WithLabelValues(op, outcome).Inc()
	metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
