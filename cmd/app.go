package cmd

import (
	"fmt"

	"github.com/jmehdipour/iovox-sms/internal/config"
	"github.com/jmehdipour/iovox-sms/internal/db"
	"github.com/jmehdipour/iovox-sms/internal/iovox"
	"github.com/jmehdipour/iovox-sms/internal/journal"
	"github.com/jmehdipour/iovox-sms/internal/kafka"
	"github.com/jmehdipour/iovox-sms/internal/logger"
	"github.com/jmehdipour/iovox-sms/internal/repository"
	"github.com/jmehdipour/iovox-sms/internal/service/sender"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// app is everything a command needs to send; close releases it in reverse order.
type app struct {
	cfg       config.Config
	log       *zap.Logger
	sender    *sender.Service
	exchanges repository.ExchangesRepository // nil without a SQL journal

	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, log: lg}
	a.closers = append(a.closers, func() { _ = lg.Sync() })

	var recorders []journal.Recorder

	if cfg.Journal.Enabled() {
		sqlDB, err := openJournalDB(cfg.Journal)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("journal connect: %w", err)
		}
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })

		a.exchanges = repository.NewExchangesRepository(sqlDB)
		recorders = append(recorders, journal.FromRepository(a.exchanges))
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducerFromConfig(kafka.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			BatchTimeout: cfg.Kafka.BatchTimeout,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		a.closers = append(a.closers, func() { _ = producer.Close() })
		recorders = append(recorders, journal.FromPublisher(producer))
	}

	client := iovox.NewClient(lg,
		iovox.WithTimeout(cfg.API.Timeout),
		iovox.WithBaseURL(cfg.API.BaseURL),
		iovox.WithUserAgent(cfg.API.UserAgent),
		iovox.WithRecorder(journal.Multi(recorders...)),
	)

	a.sender = sender.New(client, sender.Defaults{
		Username:    cfg.API.Username,
		SecureKey:   cfg.API.SecureKey,
		Environment: cfg.API.Environment,
	}, lg)

	return a, nil
}

func openJournalDB(jc config.JournalConfig) (*sqlx.DB, error) {
	return db.NewSQLConnection(db.SQLOpts{
		Driver:          jc.Driver,
		DSN:             jc.DSN,
		MaxOpenConns:    jc.MaxOpenConns,
		MaxIdleConns:    jc.MaxIdleConns,
		ConnMaxLifetime: jc.ConnMaxLifetime,
		ConnMaxIdleTime: jc.ConnMaxIdleTime,
		PingTimeout:     jc.PingTimeout,
	})
}
