package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/platform/auth"
	"LMS-backend/internal/platform/db"
	"LMS-backend/internal/server"
)

func main() {
	// 設定読み込み（LMS_CONFIG でパス変更可）
	path := os.Getenv("LMS_CONFIG")
	if path == "" {
		path = db.DefaultConfigPath
	}
	cfg, err := db.LoadConfig(path)
	if err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}
	log.Printf("[INFO] mode:%s\n", cfg.Mode)

	secret := cfg.Auth.Secret
	if secret == "" {
		if cfg.Mode == "release" {
			log.Fatal("[ERROR] auth.secret (LMS_AUTH_SECRET) is required in release mode")
		}
		secret = "dev-secret"
		log.Println("[WARN] auth.secret not set, using a fixed development secret")
	}

	// 接続できなければ起動しない
	sess, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	defer sess.Close()
	log.Printf("[INFO] connected to DB: %s (call timeout %s)", cfg.DB.DBName, sess.Timeout())

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	authSvc := auth.NewService(auth.NewStore(sess), []byte(secret), cfg.Auth.TokenTTL)
	r := server.NewRouter(sess, authSvc, server.Options{Mode: cfg.Mode})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.Server.Cert != "" && cfg.Server.Key != "" {
			log.Printf("[INFO] listening on https://%s", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(cfg.Server.Cert, cfg.Server.Key)
		} else {
			log.Printf("[INFO] listening on http://%s (no TLS cert configured)", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
}
