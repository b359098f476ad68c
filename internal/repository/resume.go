package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/coursegen/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResumePostgresRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) *ResumePostgresRepository {
	return &ResumePostgresRepository{pool: pool}
}

type resumeRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	UID        string    `db:"uid"`
	ResumeData []byte    `db:"resume_data"`
	CreatedAt  time.Time `db:"created_at"`
}

// CreateResume returns the raw driver error on conflict; the uid unique
// constraint is named resumes_uid_key.
func (r *ResumePostgresRepository) CreateResume(ctx context.Context, resume *model.Resume) error {
	stmt := `
		INSERT INTO resumes (name, email, uid, resume_data)
		VALUES (@name, @email, @uid, @resume_data)
		RETURNING id::text, created_at
	`

	err := r.pool.QueryRow(ctx, stmt, pgx.NamedArgs{
		"name":        resume.Name,
		"email":       resume.Email,
		"uid":         resume.UID,
		"resume_data": []byte(resume.ResumeData),
	}).Scan(&resume.ID, &resume.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert resume for uid %s: %w", resume.UID, err)
	}

	return nil
}

func (r *ResumePostgresRepository) GetResumeByUID(ctx context.Context, uid string) (*model.Resume, error) {
	stmt := `
		SELECT id::text AS id, name, email, uid, resume_data, created_at
		FROM resumes
		WHERE uid = @uid
	`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{"uid": uid})
	if err != nil {
		return nil, fmt.Errorf("failed to query resume for uid %s: %w", uid, err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[resumeRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:resumes: %w", err)
		}
		return nil, fmt.Errorf("failed to collect row from table:resumes: %w", err)
	}

	return &model.Resume{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		UID:        row.UID,
		ResumeData: row.ResumeData,
		CreatedAt:  row.CreatedAt,
	}, nil
}
