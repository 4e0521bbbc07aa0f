package mongostore

import (
	"time"

	"mindbloom/internal/analytics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type resultDoc struct {
	ExerciseID  string     `bson:"exerciseId"`
	Score       any        `bson:"score"`
	TimeSpent   int        `bson:"timeSpent"`
	CompletedAt *time.Time `bson:"completedAt,omitempty"`
}

type sessionDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"userId"`
	Mood            string             `bson:"mood"`
	FocusAreas      []string           `bson:"focusAreas"`
	Exercises       []map[string]any   `bson:"exercises"`
	ExerciseResults []resultDoc        `bson:"exerciseResults"`
	AverageScore    any                `bson:"averageScore"`
	IsComplete      bool               `bson:"isComplete"`
	CreatedAt       time.Time          `bson:"createdAt"`
	CompletedAt     *time.Time         `bson:"completedAt"`
}

type userDoc struct {
	ID             any                       `bson:"_id"`
	Streak         int                       `bson:"streak"`
	TotalSessions  int                       `bson:"totalSessions"`
	CachedProgress *analytics.CachedProgress `bson:"cached_progress,omitempty"`
}

func fromResult(r analytics.ExerciseResult) resultDoc {
	return resultDoc{
		ExerciseID:  r.ExerciseID,
		Score:       r.Score,
		TimeSpent:   r.TimeSpent,
		CompletedAt: r.CompletedAt,
	}
}

func fromSession(s analytics.TrainingSession) sessionDoc {
	doc := sessionDoc{
		UserID:       s.UserID,
		Mood:         s.Mood,
		FocusAreas:   s.FocusAreas,
		Exercises:    s.Exercises,
		AverageScore: s.AverageScore,
		IsComplete:   s.IsComplete,
		CreatedAt:    s.CreatedAt,
		CompletedAt:  s.CompletedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(s.ID); err == nil {
		doc.ID = oid
	}
	for _, r := range s.ExerciseResults {
		doc.ExerciseResults = append(doc.ExerciseResults, fromResult(r))
	}
	return doc
}

func (d sessionDoc) toSession() analytics.TrainingSession {
	s := analytics.TrainingSession{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		Mood:            d.Mood,
		FocusAreas:      d.FocusAreas,
		Exercises:       d.Exercises,
		ExerciseResults: make([]analytics.ExerciseResult, 0, len(d.ExerciseResults)),
		AverageScore:    plainScore(d.AverageScore),
		IsComplete:      d.IsComplete,
		CreatedAt:       d.CreatedAt.UTC(),
	}
	if d.CompletedAt != nil {
		t := d.CompletedAt.UTC()
		s.CompletedAt = &t
	}
	for _, r := range d.ExerciseResults {
		s.ExerciseResults = append(s.ExerciseResults, analytics.ExerciseResult{
			ExerciseID:  r.ExerciseID,
			Score:       plainScore(r.Score),
			TimeSpent:   r.TimeSpent,
			CompletedAt: r.CompletedAt,
		})
	}
	return s
}

func (d userDoc) toUser(fallbackID string) analytics.UserRecord {
	u := analytics.UserRecord{
		ID:             fallbackID,
		Streak:         d.Streak,
		TotalSessions:  d.TotalSessions,
		CachedProgress: d.CachedProgress,
	}
	switch id := d.ID.(type) {
	case primitive.ObjectID:
		u.ID = id.Hex()
	case string:
		u.ID = id
	}
	return u
}

// plainScore converts BSON-only numeric types into values the score
// normalizer understands.
func plainScore(v any) any {
	switch s := v.(type) {
	case primitive.Decimal128:
		return s.String()
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}

// userKey matches users stored under an ObjectID as well as those keyed by
// a plain string id.
func userKey(userID string) any {
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		return oid
	}
	return userID
}
