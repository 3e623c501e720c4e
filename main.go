package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	"github.com/koivumail/mail-prefs-api/accounts"
	"github.com/koivumail/mail-prefs-api/backends"
	"github.com/koivumail/mail-prefs-api/configs"
	"github.com/koivumail/mail-prefs-api/datastore/gorm"
	"github.com/koivumail/mail-prefs-api/handlers"
	"github.com/koivumail/mail-prefs-api/localstore"
	"github.com/koivumail/mail-prefs-api/secrets"
	"github.com/koivumail/mail-prefs-api/storage"
	log "github.com/sirupsen/logrus"
)

const version = "0.1.0"

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
)

func main() {
	var printVersion bool

	// If we should just print the version number and exit
	flag.BoolVar(&printVersion, "version", false, "if true, print version and exit")
	flag.Parse()

	if printVersion {
		fmt.Printf("v%s build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}

	cfg, err := configs.Parse()
	if err != nil {
		panic(err)
	}

	runServer(cfg)

	os.Exit(0)
}

func runServer(cfg *configs.Config) {
	configs.ConfigureLogger(cfg.LogLevel)

	log.Info("Starting server")

	// Database
	db, err := gorm.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer gorm.Close(db)

	if err := gorm.Migrate(db); err != nil {
		log.Fatal(err)
	}

	// Password encryption
	key, err := secrets.ParseKey(cfg.EncryptionKey)
	if err != nil {
		log.Fatal(err)
	}
	crypter := secrets.NewAESCrypter(key)

	// Stores and collaborators
	prefStore := storage.NewGormStore(db)
	serializer := accounts.NewSerializer(crypter)
	backendManager := backends.NewManager()
	localStore := localstore.NewGormStore(db, cfg.DefaultStorageProvider)

	// Services
	accountService := accounts.NewService(prefStore, serializer, backendManager, localStore)

	// Register a handler for account added events
	accounts.AccountAdded.Register(&backends.AccountAddedHandler{
		Manager: backendManager,
	})

	if err := accountService.LoadAccounts(); err != nil {
		log.Fatal(err)
	}

	// HTTP handling
	accountHandler := handlers.NewAccounts(accountService, backendManager)

	r := mux.NewRouter()

	// Catch the api version
	rv := r.PathPrefix("/{apiVersion}").Subrouter()

	// Debug
	rv.Handle("/debug", handlers.Debug("https://github.com/koivumail/mail-prefs-api", sha1ver, buildTime)).Methods(http.MethodGet)

	// Health
	rv.HandleFunc("/health/ready", handlers.HandleHealthReady).Methods(http.MethodGet)
	rv.Handle("/health/liveness", handlers.Liveness(func() (interface{}, error) {
		aa, err := accountService.Accounts()
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"accounts": len(aa)}, nil
	})).Methods(http.MethodGet)

	// Default account
	rv.Handle("/accounts/default", accountHandler.GetDefault()).Methods(http.MethodGet)
	rv.Handle("/accounts/default", accountHandler.SetDefault()).Methods(http.MethodPut)

	// Server validation
	rv.Handle("/accounts/validate", accountHandler.ValidateSettings()).Methods(http.MethodPost)

	// Accounts
	rv.Handle("/accounts", accountHandler.List()).Methods(http.MethodGet)                     // list
	rv.Handle("/accounts", accountHandler.Create()).Methods(http.MethodPost)                  // create
	rv.Handle("/accounts/{accountUuid}", accountHandler.Details()).Methods(http.MethodGet)    // details
	rv.Handle("/accounts/{accountUuid}", accountHandler.Update()).Methods(http.MethodPut)     // update
	rv.Handle("/accounts/{accountUuid}", accountHandler.Delete()).Methods(http.MethodDelete)  // delete
	rv.Handle("/accounts/{accountUuid}/move", accountHandler.Move()).Methods(http.MethodPost) // reorder

	h := http.TimeoutHandler(r, cfg.ServerRequestTimeout, "request timed out")
	h = handlers.UseCors(h)
	h = handlers.UseLogging(h)
	h = handlers.UseCompress(h)

	// Setup idempotency key middleware if it's enabled
	if !cfg.DisableIdempotencyMiddleware {
		var is handlers.IdempotencyStore
		switch cfg.IdempotencyMiddlewareDatabaseType {
		// Shared SQL/Gorm store (same as for main app)
		case handlers.IdempotencyStoreTypeShared.String():
			is = handlers.NewIdempotencyStoreGorm(db)
		// Redis, separate from app db
		case handlers.IdempotencyStoreTypeRedis.String():
			if cfg.IdempotencyMiddlewareRedisURL == "" {
				log.Fatal("idempotency middleware db set to redis but Redis URL is empty")
			}
			pool := &redis.Pool{
				MaxIdle:   80,
				MaxActive: 12000,
				Dial: func() (redis.Conn, error) {
					c, err := redis.DialURL(cfg.IdempotencyMiddlewareRedisURL)
					if err != nil {
						panic(err.Error())
					}
					return c, err
				},
			}

			client := pool.Get()

			defer func() {
				log.Info("Closing Redis client..")
				if err := client.Close(); err != nil {
					log.Warn(err)
				}
			}()

			is = handlers.NewIdempotencyStoreRedis(client)
		case handlers.IdempotencyStoreTypeLocal.String():
			is = handlers.NewIdempotencyStoreLocal()
		}

		h = handlers.UseIdempotency(h, handlers.IdempotencyHandlerOptions{
			Expiry:      1 * time.Hour,
			IgnorePaths: []string{"/v1/accounts/validate"}, // Validation is read-only
		}, is)
	}

	// Server boilerplate
	srv := &http.Server{
		Handler:      h,
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		WriteTimeout: 0, // Disabled, set cfg.ServerRequestTimeout instead
		ReadTimeout:  0, // Disabled, set cfg.ServerRequestTimeout instead
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.
			WithFields(log.Fields{
				"host": cfg.Host,
				"port": cfg.Port,
			}).
			Info("Server listening")
		if err := srv.ListenAndServe(); err != nil {
			log.Warn(err)
		}
	}()

	// Trap interrupt and gracefully shutdown the server
	c := make(chan os.Signal, 1)
	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+/) will not be caught.
	signal.Notify(c, os.Interrupt)

	// Block until we receive our signal.
	sig := <-c

	log.Infof("Got signal: %s. Shutting down..", sig)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Error in server shutdown: %s", err)
	}
}
