package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CoursePostgresRepository stores courses in the courses table.
type CoursePostgresRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CoursePostgresRepository {
	return &CoursePostgresRepository{pool: pool}
}

const courseColumns = `id::text AS id, user_id, content, type, main_topic, photo, progress, completed, created_at, ended_at`

type courseRow struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Content   []byte     `db:"content"`
	Type      string     `db:"type"`
	MainTopic string     `db:"main_topic"`
	Photo     *string    `db:"photo"`
	Progress  int        `db:"progress"`
	Completed bool       `db:"completed"`
	CreatedAt time.Time  `db:"created_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

func (r courseRow) toModel() model.Course {
	return model.Course{
		ID:        r.ID,
		User:      r.UserID,
		Content:   json.RawMessage(r.Content),
		Type:      r.Type,
		MainTopic: r.MainTopic,
		Photo:     r.Photo,
		Progress:  r.Progress,
		Completed: r.Completed,
		Date:      r.CreatedAt,
		End:       r.EndedAt,
	}
}

func errCourseNotFound() error {
	return fmt.Errorf("table:courses: %w", pgx.ErrNoRows)
}

func (r *CoursePostgresRepository) CreateCourse(ctx context.Context, course *model.Course) (string, error) {
	stmt := `
		INSERT INTO courses (user_id, content, type, main_topic, photo, progress, completed, created_at)
		VALUES (@user_id, @content, @type, @main_topic, @photo, @progress, @completed, @created_at)
		RETURNING id::text
	`

	var id string
	err := r.pool.QueryRow(ctx, stmt, pgx.NamedArgs{
		"user_id":    course.User,
		"content":    []byte(course.Content),
		"type":       course.Type,
		"main_topic": course.MainTopic,
		"photo":      course.Photo,
		"progress":   course.Progress,
		"completed":  course.Completed,
		"created_at": course.Date,
	}).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert course for user %s: %w", course.User, err)
	}

	return id, nil
}

// exec runs an update against a single course and reports a missing row
// as not found. Ids that are not UUIDs cannot exist.
func (r *CoursePostgresRepository) exec(ctx context.Context, id, stmt string, args pgx.NamedArgs) error {
	if !validation.IsValidUUID(id) {
		return errCourseNotFound()
	}

	args["id"] = id
	tag, err := r.pool.Exec(ctx, stmt, args)
	if err != nil {
		return fmt.Errorf("failed to update course %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return errCourseNotFound()
	}

	return nil
}

func (r *CoursePostgresRepository) UpdateContent(ctx context.Context, id string, content json.RawMessage) error {
	return r.exec(ctx, id, `UPDATE courses SET content = @content WHERE id = @id`, pgx.NamedArgs{
		"content": []byte(content),
	})
}

func (r *CoursePostgresRepository) FinishCourse(ctx context.Context, id string, endedAt time.Time) error {
	stmt := `UPDATE courses SET completed = TRUE, progress = @progress, ended_at = @ended_at WHERE id = @id`
	return r.exec(ctx, id, stmt, pgx.NamedArgs{
		"progress": model.MaxProgress,
		"ended_at": endedAt,
	})
}

func (r *CoursePostgresRepository) UpdateProgress(ctx context.Context, id string, progress int, completed bool) error {
	stmt := `UPDATE courses SET progress = @progress, completed = @completed WHERE id = @id`
	return r.exec(ctx, id, stmt, pgx.NamedArgs{
		"progress":  progress,
		"completed": completed,
	})
}

func (r *CoursePostgresRepository) GetCoursesByUser(ctx context.Context, userID string) ([]model.Course, error) {
	stmt := `SELECT ` + courseColumns + ` FROM courses WHERE user_id = @user_id ORDER BY created_at`
	return r.query(ctx, stmt, pgx.NamedArgs{"user_id": userID})
}

func (r *CoursePostgresRepository) GetAllCourses(ctx context.Context) ([]model.Course, error) {
	return r.query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at`, pgx.NamedArgs{})
}

func (r *CoursePostgresRepository) query(ctx context.Context, stmt string, args pgx.NamedArgs) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[courseRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:courses: %w", err)
	}

	courses := make([]model.Course, 0, len(collected))
	for _, row := range collected {
		courses = append(courses, row.toModel())
	}

	return courses, nil
}

func (r *CoursePostgresRepository) CountCourses(ctx context.Context, filter model.CourseFilter) (int64, error) {
	stmt, args := courseCountQuery(filter)

	var count int64
	if err := r.pool.QueryRow(ctx, stmt, args).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}

	return count, nil
}

func courseCountQuery(filter model.CourseFilter) (string, pgx.NamedArgs) {
	var conditions []string
	args := pgx.NamedArgs{}

	if filter.Type != "" {
		conditions = append(conditions, "type = @type")
		args["type"] = filter.Type
	}
	if filter.Completed != nil {
		conditions = append(conditions, "completed = @completed")
		args["completed"] = *filter.Completed
	}

	return countQuery("courses", conditions), args
}

func countQuery(table string, conditions []string) string {
	stmt := "SELECT COUNT(*) FROM " + table
	if len(conditions) > 0 {
		stmt += " WHERE " + strings.Join(conditions, " AND ")
	}
	return stmt
}
