package pgsql

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
)

const announcementColumns = `announcement_id, title, body, audience, pinned, published_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAnnouncementRepository struct {
	BaseRepository
}

func newPgxAnnouncementRepository(pool PgxPool) portsrepo.AnnouncementRepository {
	return &PgxAnnouncementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AnnouncementRepository = (*PgxAnnouncementRepository)(nil)

func scanAnnouncement(row rowScanner) (*domain.Announcement, error) {
	var a domain.Announcement
	err := row.Scan(&a.AnnouncementID, &a.Title, &a.Body, &a.Audience, &a.Pinned, &a.PublishedAt,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxAnnouncementRepository) SaveAnnouncement(ctx context.Context, a domain.Announcement) error {
	query := `
        INSERT INTO announcements (announcement_id, title, body, audience, pinned, published_at,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.conn(ctx).Exec(ctx, query, a.AnnouncementID, a.Title, a.Body, a.Audience, a.Pinned, a.PublishedAt,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "save", "announcement")
	}
	return nil
}

func (r *PgxAnnouncementRepository) FindAnnouncementByID(ctx context.Context, announcementID string) (*domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE announcement_id = $1;`
	a, err := scanAnnouncement(r.conn(ctx).QueryRow(ctx, query, announcementID))
	if err != nil {
		return nil, mapPgError(err, "find", "announcement")
	}
	return a, nil
}

func (r *PgxAnnouncementRepository) ListAnnouncements(ctx context.Context, filter domain.AnnouncementFilter) ([]domain.Announcement, error) {
	var w whereBuilder
	if !filter.IncludeAdminOnly {
		w.add("audience <> ?", domain.AudienceAdmins)
	}
	query := `SELECT ` + announcementColumns + ` FROM announcements` + w.clause() +
		` ORDER BY pinned DESC, published_at DESC, announcement_id ASC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "announcements")
	}
	defer rows.Close()

	announcements := []domain.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "announcement")
		}
		announcements = append(announcements, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "announcements")
	}
	return announcements, nil
}

func (r *PgxAnnouncementRepository) UpdateAnnouncement(ctx context.Context, a domain.Announcement) error {
	query := `
        UPDATE announcements
        SET title = $1, body = $2, audience = $3, pinned = $4, last_updated_at = $5, last_updated_by = $6
        WHERE announcement_id = $7;
    `
	tag, err := r.conn(ctx).Exec(ctx, query, a.Title, a.Body, a.Audience, a.Pinned, a.LastUpdatedAt, a.LastUpdatedBy, a.AnnouncementID)
	if err != nil {
		return mapPgError(err, "update", "announcement")
	}
	return expectOneRow(tag, "announcement")
}

func (r *PgxAnnouncementRepository) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM announcements WHERE announcement_id = $1;`, announcementID)
	if err != nil {
		return mapPgError(err, "delete", "announcement")
	}
	return expectOneRow(tag, "announcement")
}
