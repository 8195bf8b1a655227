package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DFSguan/Collaborative-Task-Management-System/config"
	"github.com/DFSguan/Collaborative-Task-Management-System/handlers"
	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories/cassandra"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories/memory"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories/mongodb"
	"github.com/DFSguan/Collaborative-Task-Management-System/services"
	"github.com/DFSguan/Collaborative-Task-Management-System/utils"
)

type repos struct {
	users       repositories.UserRepository
	projects    repositories.ProjectRepository
	tasks       repositories.TaskRepository
	subtasks    repositories.SubtaskRepository
	comments    repositories.CommentRepository
	credentials repositories.CredentialRepository
	// used when no Cassandra hosts are configured
	notifications repositories.NotificationRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	logging.InitLogger(logging.Options{SystemName: "taskboard", Level: cfg.Log.Level, File: cfg.Log.File})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting task management service...")

	store, closeStore := openStore(cfg)
	defer closeStore()

	notificationRepo := store.notifications
	if len(cfg.Notifications.Hosts) > 0 {
		cassRepo, err := cassandra.NewNotificationRepo(cfg.Notifications.Hosts, cfg.Notifications.Keyspace)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: %v", err)
		}
		defer cassRepo.CloseSession()
		if err := cassRepo.CreateTable(); err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_TABLE_FAILED, Description: %v", err)
		}
		notificationRepo = cassRepo
	} else {
		logging.Logger.Warn("Event ID: NOTIFICATIONS_IN_MEMORY, Description: CASS_DB not set, notifications are kept in memory")
	}

	identity := newIdentity(cfg, store.credentials)

	notifications := services.NewNotificationService(notificationRepo)
	router := handlers.NewRouter(handlers.Handlers{
		Users:         handlers.NewUserHandler(services.NewUserService(store.users, identity, cfg.Avatar.BaseURL)),
		Projects:      handlers.NewProjectHandler(services.NewProjectService(store.projects, store.users, store.tasks, store.comments, notifications)),
		Tasks:         handlers.NewTaskHandler(services.NewTaskService(store.tasks, store.projects, store.users, notifications)),
		Subtasks:      handlers.NewSubtaskHandler(services.NewSubtaskService(store.subtasks, store.tasks, store.users, notifications)),
		Comments:      handlers.NewCommentHandler(services.NewCommentService(store.comments, store.tasks, store.users, notifications)),
		Notifications: handlers.NewNotificationHandler(notifications),
	}, cfg.Server.CORSOrigin, tokenSecret(cfg))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: Forced shutdown: %v", err)
	}
}

func openStore(cfg *config.Config) (repos, func()) {
	if cfg.Store == config.StoreMemory {
		logging.Logger.Warn("Event ID: STORE_IN_MEMORY, Description: Using in-memory store, data is lost on restart")
		s := memory.NewStore()
		return repos{
			users:         s.Users(),
			projects:      s.Projects(),
			tasks:         s.Tasks(),
			subtasks:      s.Subtasks(),
			comments:      s.Comments(),
			credentials:   s.Credentials(),
			notifications: s.Notifications(),
		}, func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB database %s", cfg.Mongo.Database)

	s := mongodb.NewStore(client.Database(cfg.Mongo.Database))
	if err := s.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	return repos{
		users:         s.Users(),
		projects:      s.Projects(),
		tasks:         s.Tasks(),
		subtasks:      s.Subtasks(),
		comments:      s.Comments(),
		credentials:   s.Credentials(),
		notifications: memory.NewStore().Notifications(),
	}, func() { disconnect(client) }
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
	}
}

// tokenSecret is only set when tokens are issued locally; Firebase tokens are not checked here.
func tokenSecret(cfg *config.Config) []byte {
	if cfg.Identity.Provider != config.IdentityLocal {
		return nil
	}
	return []byte(cfg.Identity.JWTSecret)
}

func newIdentity(cfg *config.Config, credentials repositories.CredentialRepository) services.IdentityProvider {
	if cfg.Identity.Provider == config.IdentityLocal {
		logging.Logger.Info("Event ID: IDENTITY_LOCAL, Description: Using local credential store")
		return services.NewLocalIdentity(credentials, []byte(cfg.Identity.JWTSecret), cfg.Identity.TokenTTL)
	}
	logging.Logger.Infof("Event ID: IDENTITY_FIREBASE, Description: Using identity provider at %s", cfg.Identity.BaseURL)
	return services.NewFirebaseIdentity(cfg.Identity.BaseURL, cfg.Identity.APIKey, utils.NewHTTPClient(cfg.Identity.Timeout))
}
