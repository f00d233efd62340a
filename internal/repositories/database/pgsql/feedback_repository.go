package pgsql

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
)

const feedbackColumns = `feedback_id, member_id, subject, message, category, status, response,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxFeedbackRepository struct {
	BaseRepository
}

func newPgxFeedbackRepository(pool PgxPool) portsrepo.FeedbackRepository {
	return &PgxFeedbackRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FeedbackRepository = (*PgxFeedbackRepository)(nil)

func scanFeedback(row rowScanner) (*domain.Feedback, error) {
	var f domain.Feedback
	err := row.Scan(&f.FeedbackID, &f.MemberID, &f.Subject, &f.Message, &f.Category, &f.Status, &f.Response,
		&f.CreatedAt, &f.CreatedBy, &f.LastUpdatedAt, &f.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PgxFeedbackRepository) SaveFeedback(ctx context.Context, f domain.Feedback) error {
	query := `
        INSERT INTO feedback (feedback_id, member_id, subject, message, category, status, response,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.conn(ctx).Exec(ctx, query, f.FeedbackID, f.MemberID, f.Subject, f.Message, f.Category, f.Status, f.Response,
		f.CreatedAt, f.CreatedBy, f.LastUpdatedAt, f.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "save", "feedback")
	}
	return nil
}

func (r *PgxFeedbackRepository) FindFeedbackByID(ctx context.Context, feedbackID string) (*domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE feedback_id = $1;`
	f, err := scanFeedback(r.conn(ctx).QueryRow(ctx, query, feedbackID))
	if err != nil {
		return nil, mapPgError(err, "find", "feedback")
	}
	return f, nil
}

func (r *PgxFeedbackRepository) ListFeedback(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	var w whereBuilder
	if filter.MemberID != "" {
		w.add("member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	query := `SELECT ` + feedbackColumns + ` FROM feedback` + w.clause() +
		` ORDER BY created_at DESC, feedback_id ASC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "feedback")
	}
	defer rows.Close()

	items := []domain.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "feedback")
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "feedback")
	}
	return items, nil
}

func (r *PgxFeedbackRepository) UpdateFeedback(ctx context.Context, f domain.Feedback) error {
	query := `
        UPDATE feedback
        SET status = $1, response = $2, last_updated_at = $3, last_updated_by = $4
        WHERE feedback_id = $5;
    `
	tag, err := r.conn(ctx).Exec(ctx, query, f.Status, f.Response, f.LastUpdatedAt, f.LastUpdatedBy, f.FeedbackID)
	if err != nil {
		return mapPgError(err, "update", "feedback")
	}
	return expectOneRow(tag, "feedback")
}

func (r *PgxFeedbackRepository) DeleteFeedback(ctx context.Context, feedbackID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM feedback WHERE feedback_id = $1;`, feedbackID)
	if err != nil {
		return mapPgError(err, "delete", "feedback")
	}
	return expectOneRow(tag, "feedback")
}
