package commands

import (
	"context"
	"log/slog"
	"time"
	"powergrades/lib/browser"
	"powergrades/lib/configutil"
	"powergrades/lib/scrapers/powerschool"
	"powergrades/lib/serviceutil"
	"powergrades/lib/timezone"
)

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

// scrapeStudent runs the whole pipeline shared by every subcommand:
// login, download, parse, mark in-progress courses and apply weights.
func scrapeStudent(ctx context.Context, cfg Config) *powerschool.Student {
	b, err := browser.New(browser.Options{BaseUrl: cfg.BaseUrl})
	if err != nil {
		serviceutil.Fatal("failed to initialize browser", err)
	}
	session := powerschool.NewSession(b)
	defer session.Close()

	slog.Info("logging into portal", "url", cfg.BaseUrl, "account", cfg.Username)
	err = session.Login(ctx, cfg.BaseUrl, cfg.Username, cfg.Password)
	if err != nil {
		serviceutil.Fatal("failed to login to portal", err)
	}

	student, err := session.GetStudent(ctx)
	if err != nil {
		serviceutil.Fatal("failed to fetch student record", err)
	}

	powerschool.MarkInProgress(student, cutoffDate(cfg), timezone.Now())
	if len(cfg.Weights) > 0 {
		powerschool.ApplyWeights(ctx, student, cfg.Weights)
	}
	return student
}

func cutoffDate(cfg Config) time.Time {
	if cfg.CutoffDate != "" {
		t, err := time.ParseInLocation("1/2/2006", cfg.CutoffDate, timezone.Location)
		if err != nil {
			serviceutil.Fatal("failed to parse cutoff_date", err)
		}
		return t
	}

	// default: start of the current school year, or of the previous
	// one while on summer break
	now := timezone.Now()
	year := now.Year()
	if now.Month() < 8 {
		year--
	}
	return time.Date(year, 8, 1, 0, 0, 0, 0, timezone.Location)
}
