// Command videoinvite serves personalised video invitations and mails the
// replies of the people who watch them.
package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/wondertwin-ai/videoinvite/internal/app"
	"github.com/wondertwin-ai/videoinvite/internal/config"
	"github.com/wondertwin-ai/videoinvite/internal/httpcore"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	cfg, err := httpcore.ParseFlags("videoinvite", os.Args[1:])
	if err != nil {
		log.Fatalf("parsing flags: %v", err)
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = config.DefaultConfigFile
	}

	site, err := config.Load(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	srv := httpcore.New(cfg)
	a, err := app.Build(srv, site)
	if err != nil {
		log.Fatalf("building app: %v", err)
	}

	srv.Logger.Info("videoinvite ready",
		"env", cfg.Env,
		"people", a.Directory.Len(),
		"transport", site.Transport.Kind,
	)

	if err := srv.Serve(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
