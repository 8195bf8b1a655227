// Package cassandra stores the per-user notification feed.
package cassandra

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

type NotificationRepo struct {
	session *gocql.Session
}

// NewNotificationRepo creates the keyspace when missing and opens a session on it.
func NewNotificationRepo(hosts []string, keyspace string) (*NotificationRepo, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to cassandra: %w", err)
	}

	err = session.Query(fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`, keyspace)).Exec()
	session.Close()
	if err != nil {
		return nil, fmt.Errorf("create keyspace %s: %w", keyspace, err)
	}

	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to keyspace %s: %w", keyspace, err)
	}

	logging.Logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra keyspace %s", keyspace)
	return &NotificationRepo{session: session}, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_SESSION_CLOSED, Description: Cassandra session closed")
}

func (nr *NotificationRepo) CreateTable() error {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			user_id TEXT,
			created_at TIMESTAMP,
			id UUID,
			message TEXT,
			is_read BOOLEAN,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

func (nr *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = gocql.TimeUUID().String()
	}
	id, err := gocql.ParseUUID(n.ID)
	if err != nil {
		return fmt.Errorf("invalid notification id %q: %w", n.ID, err)
	}

	err = nr.session.Query(
		`INSERT INTO notifications (user_id, created_at, id, message, is_read)
		 VALUES (?, ?, ?, ?, ?)`,
		n.UserID, n.CreatedAt, id, n.Message, n.IsRead,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert notification for %s: %w", n.UserID, err)
	}
	return nil
}

func (nr *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	iter := nr.session.Query(
		`SELECT id, user_id, message, created_at, is_read
		 FROM notifications WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	notifications := make([]models.Notification, 0)
	var (
		id gocql.UUID
		n  models.Notification
	)
	for iter.Scan(&id, &n.UserID, &n.Message, &n.CreatedAt, &n.IsRead) {
		n.ID = id.String()
		notifications = append(notifications, n)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", userID, err)
	}
	return notifications, nil
}

// MarkRead needs the full primary key since Cassandra updates cannot filter on id alone.
func (nr *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error {
	id, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification id %q: %w", notificationID, repositories.ErrNotFound)
	}

	// IF EXISTS turns the upsert into a conditional update so unknown rows are reported.
	applied, err := nr.session.Query(
		`UPDATE notifications SET is_read = true WHERE user_id = ? AND created_at = ? AND id = ? IF EXISTS`,
		userID, createdAt, id,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", notificationID, err)
	}
	if !applied {
		return repositories.ErrNotFound
	}
	return nil
}
