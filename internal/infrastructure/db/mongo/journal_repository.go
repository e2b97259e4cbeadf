package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
)

const journalCollection = "registration_events"

var _ ports.RegistrationJournal = (*JournalRepository)(nil)

// JournalRepository appends registration state transitions to an audit
// collection.
type JournalRepository struct {
	coll *mongo.Collection
}

func NewJournalRepository(db *mongo.Database) *JournalRepository {
	return &JournalRepository{coll: db.Collection(journalCollection)}
}

type journalDoc struct {
	UserID     string    `bson:"user_id,omitempty"`
	Username   string    `bson:"username"`
	Email      string    `bson:"email"`
	State      string    `bson:"state"`
	Step       string    `bson:"step,omitempty"`
	Error      string    `bson:"error,omitempty"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// EnsureIndexes creates the lookup index used by FindByEmail.
func (r *JournalRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}, {Key: "at", Value: 1}},
		Options: options.Index().SetName("email_at"),
	})
	if err != nil {
		return fmt.Errorf("create journal index: %w", err)
	}
	return nil
}

func (r *JournalRepository) Record(ctx context.Context, event domain.RegistrationEvent) error {
	doc := journalDoc{
		UserID:     event.UserID,
		Username:   event.Username,
		Email:      event.Email,
		State:      string(event.State),
		Step:       string(event.Step),
		Error:      event.Error,
		At:         event.At.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert journal event: %w", err)
	}
	return nil
}

func (r *JournalRepository) FindByEmail(ctx context.Context, email string) ([]domain.RegistrationEvent, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"email": email},
		options.Find().SetSort(bson.D{{Key: "at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find journal events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []journalDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode journal events: %w", err)
	}

	events := make([]domain.RegistrationEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, domain.RegistrationEvent{
			UserID:   d.UserID,
			Username: d.Username,
			Email:    d.Email,
			State:    domain.RegistrationState(d.State),
			Step:     domain.RegistrationStep(d.Step),
			Error:    d.Error,
			At:       d.At,
		})
	}
	return events, nil
}
