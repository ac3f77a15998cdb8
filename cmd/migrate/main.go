package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/app/api"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/migrations"
	platformobservability "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/observability"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	version := flag.Bool("version", false, "print the applied schema version and exit")
	flag.Parse()

	logger, closeLog := platformobservability.NewLogger(os.Stdout, "")
	defer closeLog()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	dbCfg := cfg.Database()
	m, err := migrations.Open(dbCfg)
	if err != nil {
		logger.Error("failed to open migrator", slog.String("driver", string(dbCfg.Driver)), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			logger.Error("failed to read schema version", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return
	case *down > 0:
		err = m.Down(*down)
	default:
		err = m.Up()
	}
	if err != nil {
		logger.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	v, _, _ := m.Version()
	logger.Info("migrations complete", slog.String("driver", string(dbCfg.Driver)), slog.Uint64("version", uint64(v)))
}
