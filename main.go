package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nysh-work/audit-management/internal/cloud"
	"github.com/nysh-work/audit-management/internal/config"
	"github.com/nysh-work/audit-management/internal/database"
	"github.com/nysh-work/audit-management/internal/estimate"
	"github.com/nysh-work/audit-management/internal/router"
	"github.com/nysh-work/audit-management/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	// .env overrides for local runs; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		log.Fatalf("create log dir: %v", err)
	}
	if err := ensureDir(cfg.Backup.Dir); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	tables := estimate.Default()
	engine, err := estimate.NewEngine(tables)
	if err != nil {
		log.Fatalf("estimation tables: %v", err)
	}

	s := store.New(db, tables)

	var cm *cloud.Manager
	if cfg.Cloud.Bucket != "" {
		cm, err = cloud.NewManager(context.Background(), cfg.Cloud.Bucket, cfg.Cloud.Prefix)
		if err != nil {
			log.Fatalf("connect cloud bucket: %v", err)
		}
		defer cm.Close()
		log.Printf("backup sync enabled, bucket %s", cfg.Cloud.Bucket)
	}

	r := router.Setup(cfg, db, s, engine, cm)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
