package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/logging"
)

// MongoStore keeps sessions in MongoDB. Answers are embedded in the session
// document keyed by question id; snapshots and narratives have their own
// collections.
type MongoStore struct {
	client     *mongo.Client
	sessions   *mongo.Collection
	snapshots  *mongo.Collection
	narratives *mongo.Collection
	log        *zap.Logger
}

var _ Store = (*MongoStore)(nil)

type mongoSession struct {
	ID        string                       `bson:"_id"`
	Language  string                       `bson:"language"`
	CreatedAt time.Time                    `bson:"created_at"`
	UpdatedAt time.Time                    `bson:"updated_at"`
	Answers   map[string]assessment.Answer `bson:"answers"`
}

type mongoSnapshot struct {
	ID        int64                     `bson:"_id"`
	SessionID string                    `bson:"session_id"`
	TakenAt   time.Time                 `bson:"taken_at"`
	Result    assessment.AnalysisResult `bson:"result"`
}

// OpenMongo connects to uri and returns a store backed by database.
func OpenMongo(ctx context.Context, uri, database string, log *zap.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return NewMongoStore(client, database, log), nil
}

// NewMongoStore wraps an existing client.
func NewMongoStore(client *mongo.Client, database string, log *zap.Logger) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:     client,
		sessions:   db.Collection("sessions"),
		snapshots:  db.Collection("snapshots"),
		narratives: db.Collection("narratives"),
		log:        logging.OrNop(log),
	}
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}

func (d *mongoSession) session() *Session {
	return &Session{
		ID:          d.ID,
		Language:    d.Language,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		AnswerCount: len(d.Answers),
	}
}

func (m *MongoStore) CreateSession(ctx context.Context, language string) (*Session, error) {
	ts := time.Now().UTC().Truncate(time.Millisecond)
	doc := mongoSession{
		ID:        uuid.NewString(),
		Language:  language,
		CreatedAt: ts,
		UpdatedAt: ts,
		Answers:   map[string]assessment.Answer{},
	}
	if _, err := m.sessions.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	m.log.Debug("session created", zap.String("session", doc.ID), zap.String("language", language))
	return doc.session(), nil
}

func (m *MongoStore) findSession(ctx context.Context, id string) (*mongoSession, error) {
	var doc mongoSession
	err := m.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *MongoStore) GetSession(ctx context.Context, id string) (*Session, error) {
	doc, err := m.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.session(), nil
}

func (m *MongoStore) ListSessions(ctx context.Context) ([]Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := m.sessions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoSession
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].session())
	}
	return out, nil
}

func (m *MongoStore) DeleteSession(ctx context.Context, id string) error {
	res, err := m.sessions.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if _, err := m.snapshots.DeleteMany(ctx, bson.M{"session_id": id}); err != nil {
		return err
	}
	_, err = m.narratives.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (m *MongoStore) update(ctx context.Context, sessionID string, update bson.M) error {
	res, err := m.sessions.UpdateOne(ctx, bson.M{"_id": sessionID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}

func (m *MongoStore) PutAnswer(ctx context.Context, sessionID string, questionID int, a assessment.Answer) error {
	return m.update(ctx, sessionID, bson.M{"$set": bson.M{
		"answers." + strconv.Itoa(questionID): a,
		"updated_at":                          time.Now().UTC(),
	}})
}

func (m *MongoStore) DeleteAnswer(ctx context.Context, sessionID string, questionID int) error {
	return m.update(ctx, sessionID, bson.M{
		"$unset": bson.M{"answers." + strconv.Itoa(questionID): ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
}

func (m *MongoStore) ReplaceAnswers(ctx context.Context, sessionID string, answers *assessment.Answers) error {
	doc := make(map[string]assessment.Answer, answers.Len())
	for _, id := range answers.IDs() {
		a, _ := answers.Get(id)
		doc[strconv.Itoa(id)] = a
	}
	return m.update(ctx, sessionID, bson.M{"$set": bson.M{
		"answers":    doc,
		"updated_at": time.Now().UTC(),
	}})
}

func (m *MongoStore) LoadAnswers(ctx context.Context, sessionID string) (*assessment.Answers, error) {
	doc, err := m.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc.Answers))
	for k := range doc.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	answers := assessment.NewAnswers()
	for _, k := range keys {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("answer key %q: %w", k, err)
		}
		a := doc.Answers[k]
		if err := answers.Set(id, a.Choice, int(a.Intensity)); err != nil {
			return nil, err
		}
	}
	return answers, nil
}

func (m *MongoStore) SaveSnapshot(ctx context.Context, sessionID string, result assessment.AnalysisResult) (*Snapshot, error) {
	if _, err := m.findSession(ctx, sessionID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	taken := now.Truncate(time.Millisecond)
	doc := mongoSnapshot{ID: now.UnixNano(), SessionID: sessionID, TakenAt: taken, Result: result}
	if _, err := m.snapshots.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &Snapshot{ID: doc.ID, SessionID: sessionID, TakenAt: taken, Result: result}, nil
}

func (m *MongoStore) RecentSnapshots(ctx context.Context, sessionID string, n int) ([]Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(n))
	cursor, err := m.snapshots.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoSnapshot
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Snapshot, 0, len(docs))
	for _, d := range docs {
		out = append(out, Snapshot{ID: d.ID, SessionID: d.SessionID, TakenAt: d.TakenAt, Result: d.Result})
	}
	return out, nil
}

func (m *MongoStore) SaveNarrative(ctx context.Context, n *Narrative) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	if _, err := m.findSession(ctx, n.SessionID); err != nil {
		return err
	}
	_, err := m.narratives.ReplaceOne(ctx, bson.M{"_id": n.SessionID}, n, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoStore) GetNarrative(ctx context.Context, sessionID string) (*Narrative, error) {
	var n Narrative
	err := m.narratives.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("narrative for %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
