package main

import (
	"log"

	corecmd "github.com/m3rciful/tutorbot/core/cmd"
	"github.com/m3rciful/tutorbot/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			appCfg, ok := cfg.(*app.Config)
			if !ok {
				log.Fatalf("unexpected config type %T", cfg)
			}
			return app.Bootstrap(appCfg)
		},
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
