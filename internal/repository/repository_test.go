package repository

import (
	"encoding/json"
	"testing"

	"github.com/deppfellow/coursegen/internal/database"
	"github.com/deppfellow/coursegen/internal/lib/utils"
	"github.com/deppfellow/coursegen/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestCourseCountQuery(t *testing.T) {
	stmt, args := courseCountQuery(model.CourseFilter{})
	assert.Equal(t, "SELECT COUNT(*) FROM courses", stmt)
	assert.Empty(t, args)

	stmt, args = courseCountQuery(model.CourseFilter{
		Type:      model.CourseTypeVideoAndText,
		Completed: utils.Ptr(true),
	})
	assert.Equal(t, "SELECT COUNT(*) FROM courses WHERE type = @type AND completed = @completed", stmt)
	assert.Equal(t, pgx.NamedArgs{"type": model.CourseTypeVideoAndText, "completed": true}, args)
}

func TestUserCountQuery(t *testing.T) {
	stmt, args := userCountQuery(model.UserFilter{Role: model.RoleAdmin})
	assert.Equal(t, "SELECT COUNT(*) FROM users WHERE role = @role", stmt)
	assert.Equal(t, pgx.NamedArgs{"role": model.RoleAdmin}, args)
}

func TestMongoCountFilters(t *testing.T) {
	assert.Equal(t, bson.M{}, courseCountFilter(model.CourseFilter{}))
	assert.Equal(t, bson.M{"completed": false}, courseCountFilter(model.CourseFilter{Completed: utils.Ptr(false)}))
	assert.Equal(t, bson.M{"type": model.PlanPaid}, userCountFilter(model.UserFilter{Type: model.PlanPaid}))
}

func TestDocumentValueRoundTrip(t *testing.T) {
	raw := json.RawMessage(`{"title":"Go","chapters":[{"name":"intro","done":false}],"weight":1.5}`)

	value, err := toDocumentValue(raw)
	require.NoError(t, err)

	back, err := fromDocumentValue(value)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(back))
}

func TestDocumentValueFromDecodedBSON(t *testing.T) {
	stored := bson.M{"title": "Go", "chapters": bson.A{bson.M{"name": "intro"}}, "count": int32(3)}

	back, err := fromDocumentValue(stored)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Go","chapters":[{"name":"intro"}],"count":3}`, string(back))
}

func TestDocumentValueRejectsInvalidJSON(t *testing.T) {
	_, err := toDocumentValue(json.RawMessage(`{"title":`))
	assert.Error(t, err)
}

func TestDocumentValueEmpty(t *testing.T) {
	value, err := toDocumentValue(nil)
	require.NoError(t, err)
	assert.Nil(t, value)

	back, err := fromDocumentValue(nil)
	require.NoError(t, err)
	assert.Nil(t, back)
}

func TestCourseRowToModel(t *testing.T) {
	row := courseRow{
		ID:        "0b1d7c6e-8f2a-4c1e-9b7d-3f5a2e1c9d40",
		UserID:    "user-1",
		Content:   []byte(`{"a":1}`),
		Type:      model.CourseTypeTextAndImage,
		MainTopic: "Go",
		Progress:  40,
	}

	course := row.toModel()
	assert.Equal(t, row.ID, course.ID)
	assert.Equal(t, "user-1", course.User)
	assert.JSONEq(t, `{"a":1}`, string(course.Content))
	assert.Nil(t, course.Photo)
	assert.Equal(t, 40, course.Progress)
}

func TestDocumentValueKeepsLargeIntegers(t *testing.T) {
	value, err := toDocumentValue(json.RawMessage(`{"id":9007199254740993}`))
	require.NoError(t, err)

	back, err := fromDocumentValue(value)
	require.NoError(t, err)
	assert.Equal(t, `{"id":9007199254740993}`, string(back))

	value, err = toDocumentValue(json.RawMessage(`[1.5,2e3,-7]`))
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, float64(2000), int64(-7)}, value)
}

func TestDocumentValueRejectsTrailingData(t *testing.T) {
	_, err := toDocumentValue(json.RawMessage(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

// decodeStored decodes data the way the mongo client does with opts.
func decodeStored(t *testing.T, data []byte, v any, opts *options.BSONOptions) {
	t.Helper()

	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(data))
	require.NoError(t, err)
	if opts != nil && opts.DefaultDocumentM {
		dec.DefaultDocumentM()
	}
	require.NoError(t, dec.Decode(v))
}

func TestCourseDocumentRoundTripsContent(t *testing.T) {
	raw := json.RawMessage(`{"title":"Go","chapters":[{"name":"intro","done":false}],"big":9007199254740993}`)
	content, err := toDocumentValue(raw)
	require.NoError(t, err)

	data, err := bson.Marshal(courseDocument{
		ID:        primitive.NewObjectID(),
		User:      "user-1",
		Content:   content,
		Type:      model.CourseTypeVideoAndText,
		MainTopic: "Go",
	})
	require.NoError(t, err)

	var stored courseDocument
	decodeStored(t, data, &stored, database.BSONOptions)

	course, err := stored.toModel()
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(course.Content))
	assert.Contains(t, string(course.Content), `"big":9007199254740993`)
	assert.Equal(t, "user-1", course.User)

	var plain courseDocument
	decodeStored(t, data, &plain, nil)
	withoutOptions, err := plain.toModel()
	require.NoError(t, err)
	assert.NotContains(t, string(withoutOptions.Content), `"title":"Go"`)
}

func TestResumeDocumentRoundTripsResumeData(t *testing.T) {
	raw := json.RawMessage(`{"skills":["go","sql"],"experience":[{"company":"Acme","years":3}]}`)
	resumeData, err := toDocumentValue(raw)
	require.NoError(t, err)

	data, err := bson.Marshal(resumeDocument{
		ID:         primitive.NewObjectID(),
		Name:       "Ada",
		Email:      "ada@example.com",
		UID:        "u1",
		ResumeData: resumeData,
	})
	require.NoError(t, err)

	var stored resumeDocument
	decodeStored(t, data, &stored, database.BSONOptions)

	resume, err := stored.toModel()
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(resume.ResumeData))
	assert.Equal(t, "u1", resume.UID)
	assert.Equal(t, stored.ID.Hex(), resume.ID)
}
