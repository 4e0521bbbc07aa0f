package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/logger"
	"mindbloom/internal/training"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	sessionsCollection = "training_sessions"
	usersCollection    = "users"
)

// Store reads and writes the training_sessions and users collections.
type Store struct {
	client   *mongo.Client
	sessions *mongo.Collection
	users    *mongo.Collection
	log      *logger.Logger
}

func Connect(ctx context.Context, uri, database string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	db := client.Database(database)
	log = log.With("service", "MongoStore")
	log.Info("connected to MongoDB", "database", database)
	return &Store{
		client:   client,
		sessions: db.Collection(sessionsCollection),
		users:    db.Collection(usersCollection),
		log:      log,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the index the progress queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating session index: %w", err)
	}
	return nil
}

func (s *Store) InsertSession(ctx context.Context, session analytics.TrainingSession) (string, error) {
	doc := fromSession(session)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.ExerciseResults == nil {
		doc.ExerciseResults = []resultDoc{}
	}
	res, err := s.sessions.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("inserting session: unexpected id type %T", res.InsertedID)
	}
	return id.Hex(), nil
}

func (s *Store) FindSessions(ctx context.Context, q analytics.SessionQuery) ([]analytics.TrainingSession, error) {
	filter := bson.M{"userId": q.UserID}
	if q.UsableOnly {
		filter["$or"] = bson.A{
			bson.M{"isComplete": true},
			bson.M{"exerciseResults.0": bson.M{"$exists": true}},
		}
	}
	created := bson.M{}
	if q.CreatedFrom != nil {
		created["$gte"] = *q.CreatedFrom
	}
	if q.CreatedTo != nil {
		created["$lt"] = *q.CreatedTo
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}

	order := 1
	if q.Descending {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.sessions.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer cur.Close(ctx)

	sessions := make([]analytics.TrainingSession, 0)
	for cur.Next(ctx) {
		var doc sessionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		sessions = append(sessions, doc.toSession())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) GetSession(ctx context.Context, sessionID, userID string) (*analytics.TrainingSession, error) {
	oid, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, analytics.ErrSessionNotFound
	}
	var doc sessionDoc
	err = s.sessions.FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, analytics.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	session := doc.toSession()
	return &session, nil
}

func (s *Store) AppendExerciseResult(ctx context.Context, sessionID string, r analytics.ExerciseResult) (*analytics.TrainingSession, error) {
	oid, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, analytics.ErrSessionNotFound
	}
	var doc sessionDoc
	err = s.sessions.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"exerciseResults": fromResult(r)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, analytics.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appending exercise result: %w", err)
	}
	session := doc.toSession()
	return &session, nil
}

func (s *Store) CompleteSession(ctx context.Context, sessionID string, c training.Completion) error {
	oid, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return analytics.ErrSessionNotFound
	}
	results := make([]resultDoc, 0, len(c.Results))
	for _, r := range c.Results {
		results = append(results, fromResult(r))
	}
	res, err := s.sessions.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"exerciseResults": results,
		"averageScore":    c.AverageScore,
		"isComplete":      true,
		"completedAt":     c.CompletedAt,
	}})
	if err != nil {
		return fmt.Errorf("completing session: %w", err)
	}
	if res.MatchedCount == 0 {
		return analytics.ErrSessionNotFound
	}
	return nil
}

func (s *Store) UpsertUser(ctx context.Context, u analytics.UserRecord) error {
	set := bson.M{"streak": u.Streak, "totalSessions": u.TotalSessions}
	if u.CachedProgress != nil {
		set["cached_progress"] = u.CachedProgress
	}
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": userKey(u.ID)}, bson.M{"$set": set},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, userID string) (*analytics.UserRecord, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"_id": userKey(userID)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u := doc.toUser(userID)
	return &u, nil
}

// UpdateCachedProgress sets only the cached_progress field.
func (s *Store) UpdateCachedProgress(ctx context.Context, userID string, progress analytics.CachedProgress) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userKey(userID)},
		bson.M{"$set": bson.M{"cached_progress": progress}},
	)
	if err != nil {
		return fmt.Errorf("updating cached progress: %w", err)
	}
	if res.MatchedCount == 0 {
		return analytics.ErrUserNotFound
	}
	return nil
}

func (s *Store) IncrementUserStats(ctx context.Context, userID string) (*analytics.UserRecord, error) {
	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userKey(userID)},
		bson.M{"$inc": bson.M{"streak": 1, "totalSessions": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, analytics.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("incrementing user stats: %w", err)
	}
	u := doc.toUser(userID)
	return &u, nil
}

var (
	_ analytics.SessionStore = (*Store)(nil)
	_ analytics.UserStore    = (*Store)(nil)
	_ training.Store         = (*Store)(nil)
)
