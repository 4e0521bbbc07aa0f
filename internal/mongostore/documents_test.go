package mongostore

import (
	"testing"
	"time"

	"mindbloom/internal/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPlainScore(t *testing.T) {
	dec, err := primitive.ParseDecimal128("87.5")
	require.NoError(t, err)

	assert.Equal(t, "87.5", plainScore(dec))
	assert.InDelta(t, 87.5, analytics.CanonicalScore(plainScore(dec)), 1e-9)
	assert.Nil(t, plainScore(primitive.Null{}))
	assert.Nil(t, plainScore(nil))
	assert.Equal(t, int32(7), plainScore(int32(7)))
}

func TestUserKey(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid, userKey(oid.Hex()))
	assert.Equal(t, "legacy-user", userKey("legacy-user"))
}

func TestSessionRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	oid := primitive.NewObjectID()
	in := analytics.TrainingSession{
		ID:           oid.Hex(),
		UserID:       "u1",
		Mood:         "calm",
		FocusAreas:   []string{"memory"},
		AverageScore: 0.75,
		IsComplete:   true,
		CreatedAt:    created,
		ExerciseResults: []analytics.ExerciseResult{
			{ExerciseID: "word_pairs", Score: 75, TimeSpent: 30},
		},
	}

	doc := fromSession(in)
	assert.Equal(t, oid, doc.ID)
	require.Len(t, doc.ExerciseResults, 1)

	out := doc.toSession()
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.FocusAreas, out.FocusAreas)
	assert.Equal(t, 0.75, out.AverageScore)
	assert.Equal(t, "word_pairs", out.ExerciseResults[0].ExerciseID)
	assert.True(t, out.CreatedAt.Equal(created))
}

func TestFromSession_ForeignID(t *testing.T) {
	doc := fromSession(analytics.TrainingSession{ID: "not-an-object-id"})
	assert.True(t, doc.ID.IsZero(), "non-hex ids should be left for the server to assign")
}

func TestUserDoc_ToUser(t *testing.T) {
	oid := primitive.NewObjectID()
	u := userDoc{ID: oid, Streak: 3}.toUser("fallback")
	assert.Equal(t, oid.Hex(), u.ID)
	assert.Equal(t, 3, u.Streak)

	u = userDoc{ID: "plain"}.toUser("fallback")
	assert.Equal(t, "plain", u.ID)
}
