package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/gymtracker/internal"
	"github.com/2beens/gymtracker/internal/backup"
	"github.com/2beens/gymtracker/internal/config"
	"github.com/2beens/gymtracker/internal/logging"
	"github.com/2beens/gymtracker/internal/storage"
	"github.com/2beens/gymtracker/internal/workouts"
	"github.com/2beens/gymtracker/pkg"

	log "github.com/sirupsen/logrus"
)

// workout history export / import / google drive backup

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	exportPath := flag.String("export", "", "write an export document of the history to this file")
	importPath := flag.String("import", "", "merge the export document in this file into the history")
	driveCredsPath := flag.String("drive-creds", "", "google drive service account credentials json; uploads an export when set")
	logsPath := flag.String("logs-path", "", "logs file path (empty for stdout)")
	flag.Parse()

	if *exportPath == "" && *importPath == "" && *driveCredsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName: *logsPath,
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	if cfg.StorageBackend == config.StorageMemory {
		log.Warnln("memory storage backend: nothing to back up across processes")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	backend, err := internal.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("open backend: %s", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Errorf("close backend: %s", err)
		}
	}()

	repo := workouts.NewRepo(storage.NewJSONStore(backend.Store), cfg.HistoryKey, nil)
	log.Infof("history loaded: %d records", repo.Load(ctx))

	if *importPath != "" {
		if exists, err := pkg.PathExists(*importPath, false); err != nil || !exists {
			log.Fatalf("import file %s not usable: exists=%t, err=%v", *importPath, exists, err)
		}
		added, err := backup.ImportFromFile(ctx, repo, *importPath)
		if err != nil {
			log.Fatalf("import %s: %s", *importPath, err)
		}
		log.Infof("import done: %d records added", added)
	}

	now := time.Now()
	if *exportPath != "" {
		if exists, err := pkg.PathExists(filepath.Dir(*exportPath), true); err != nil || !exists {
			log.Fatalf("export dir for %s not usable: exists=%t, err=%v", *exportPath, exists, err)
		}
		if err := backup.ExportToFile(ctx, repo, *exportPath, now); err != nil {
			log.Fatalf("export: %s", err)
		}
		log.Infof("export written: %s", *exportPath)
	}

	if *driveCredsPath != "" {
		if err := driveBackup(ctx, repo, *driveCredsPath, now); err != nil {
			log.Fatalf("drive backup: %s", err)
		}
	}
}

func driveBackup(ctx context.Context, repo *workouts.Repo, credsPath string, now time.Time) error {
	credentialsFileBytes, err := os.ReadFile(credsPath)
	if err != nil {
		return err
	}

	opts, err := backup.DriveClientOptions(ctx, credentialsFileBytes)
	if err != nil {
		return err
	}
	s, err := backup.NewGoogleDriveBackupService(ctx, opts...)
	if err != nil {
		return err
	}

	payload, err := backup.ExportPayload(ctx, repo, now)
	if err != nil {
		return err
	}
	if _, err := s.Upload(ctx, workouts.ExportFileName(now), payload); err != nil {
		return err
	}

	files, err := s.List(ctx)
	if err != nil {
		return err
	}
	log.Println("current backup files:")
	for _, f := range files {
		log.Printf(" -- %s (%s)", f.Name, f.Id)
	}
	return nil
}
