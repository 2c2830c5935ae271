package keepalive

import (
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Pinger issues a periodic GET against a configured URL. Free hosting tiers
// idle out; the ping keeps the instance warm. Unrelated to business logic.
type Pinger struct {
	URL    string
	Client *http.Client
	Logger *logrus.Logger

	cron *cron.Cron
}

func New(url string, logger *logrus.Logger) *Pinger {
	return &Pinger{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
		Logger: logger,
	}
}

// Start schedules the ping every 14 minutes. No-op when no URL is configured.
func (p *Pinger) Start() {
	if p.URL == "" {
		return
	}
	p.cron = cron.New()
	_, err := p.cron.AddFunc("*/14 * * * *", p.Ping)
	if err != nil {
		if p.Logger != nil {
			p.Logger.WithError(err).Error("keepalive schedule failed")
		}
		return
	}
	p.cron.Start()
}

func (p *Pinger) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}

func (p *Pinger) Ping() {
	resp, err := p.Client.Get(p.URL)
	if err != nil {
		if p.Logger != nil {
			p.Logger.WithError(err).Warn("keepalive ping failed")
		}
		return
	}
	_ = resp.Body.Close()
	if p.Logger != nil {
		if resp.StatusCode == http.StatusOK {
			p.Logger.Debug("keepalive ping sent")
		} else {
			p.Logger.WithField("status", resp.StatusCode).Warn("keepalive ping returned non-200")
		}
	}
}
