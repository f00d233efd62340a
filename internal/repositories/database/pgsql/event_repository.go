package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
)

const eventColumns = `event_id, title, description, location, starts_at, ends_at, capacity, attendee_count,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxEventRepository struct {
	BaseRepository
}

func newPgxEventRepository(pool PgxPool) portsrepo.EventRepositoryFacade {
	return &PgxEventRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EventRepositoryFacade = (*PgxEventRepository)(nil)

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.EventID,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.StartsAt,
		&e.EndsAt,
		&e.Capacity,
		&e.AttendeeCount,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PgxEventRepository) SaveEvent(ctx context.Context, event domain.Event) error {
	query := `
        INSERT INTO events (event_id, title, description, location, starts_at, ends_at, capacity, attendee_count,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.conn(ctx).Exec(ctx, query,
		event.EventID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.Capacity,
		event.AttendeeCount,
		event.CreatedAt,
		event.CreatedBy,
		event.LastUpdatedAt,
		event.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save", "event")
	}
	return nil
}

func (r *PgxEventRepository) FindEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1;`
	e, err := scanEvent(r.conn(ctx).QueryRow(ctx, query, eventID))
	if err != nil {
		return nil, mapPgError(err, "find", "event")
	}
	return e, nil
}

func (r *PgxEventRepository) FindEventByIDForUpdate(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1 FOR UPDATE;`
	e, err := scanEvent(r.conn(ctx).QueryRow(ctx, query, eventID))
	if err != nil {
		return nil, mapPgError(err, "lock", "event")
	}
	return e, nil
}

func (r *PgxEventRepository) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	var w whereBuilder
	order := ` ORDER BY starts_at DESC, event_id ASC`
	if filter.UpcomingOnly {
		w.addRaw("COALESCE(ends_at, starts_at) >= NOW()")
		order = ` ORDER BY starts_at ASC, event_id ASC`
	}
	query := `SELECT ` + eventColumns + ` FROM events` + w.clause() + order + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "events")
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "event")
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "events")
	}
	return events, nil
}

func (r *PgxEventRepository) ListAttendees(ctx context.Context, eventID string) ([]domain.EventAttendee, error) {
	query := `
        SELECT m.member_id, m.full_name, m.email, r.created_at
        FROM event_rsvps r
        JOIN members m ON m.member_id = r.member_id
        WHERE r.event_id = $1
        ORDER BY r.created_at ASC;
    `
	rows, err := r.conn(ctx).Query(ctx, query, eventID)
	if err != nil {
		return nil, mapPgError(err, "query", "attendees")
	}
	defer rows.Close()

	attendees := []domain.EventAttendee{}
	for rows.Next() {
		var a domain.EventAttendee
		if err := rows.Scan(&a.MemberID, &a.FullName, &a.Email, &a.RSVPAt); err != nil {
			return nil, mapPgError(err, "scan", "attendee")
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "attendees")
	}
	return attendees, nil
}

func (r *PgxEventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	query := `
        UPDATE events
        SET title = $1, description = $2, location = $3, starts_at = $4, ends_at = $5, capacity = $6,
            last_updated_at = $7, last_updated_by = $8
        WHERE event_id = $9;
    `
	tag, err := r.conn(ctx).Exec(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.Capacity,
		event.LastUpdatedAt,
		event.LastUpdatedBy,
		event.EventID,
	)
	if err != nil {
		return mapPgError(err, "update", "event")
	}
	return expectOneRow(tag, "event")
}

// DeleteEvent relies on the ON DELETE CASCADE of event_rsvps.event_id.
func (r *PgxEventRepository) DeleteEvent(ctx context.Context, eventID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM events WHERE event_id = $1;`, eventID)
	if err != nil {
		return mapPgError(err, "delete", "event")
	}
	return expectOneRow(tag, "event")
}

func (r *PgxEventRepository) FindRSVP(ctx context.Context, eventID, memberID string) (*domain.EventRSVP, error) {
	query := `SELECT event_id, member_id, created_at FROM event_rsvps WHERE event_id = $1 AND member_id = $2;`
	var rsvp domain.EventRSVP
	err := r.conn(ctx).QueryRow(ctx, query, eventID, memberID).Scan(&rsvp.EventID, &rsvp.MemberID, &rsvp.CreatedAt)
	if err != nil {
		return nil, mapPgError(err, "find", "rsvp")
	}
	return &rsvp, nil
}

func (r *PgxEventRepository) SaveRSVP(ctx context.Context, rsvp domain.EventRSVP) error {
	query := `INSERT INTO event_rsvps (event_id, member_id, created_at) VALUES ($1, $2, $3);`
	if _, err := r.conn(ctx).Exec(ctx, query, rsvp.EventID, rsvp.MemberID, rsvp.CreatedAt); err != nil {
		return mapPgError(err, "save", "rsvp")
	}
	return nil
}

func (r *PgxEventRepository) DeleteRSVP(ctx context.Context, eventID, memberID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM event_rsvps WHERE event_id = $1 AND member_id = $2;`, eventID, memberID)
	if err != nil {
		return mapPgError(err, "delete", "rsvp")
	}
	return expectOneRow(tag, "rsvp")
}

func (r *PgxEventRepository) AdjustAttendeeCount(ctx context.Context, eventID string, delta int, memberID string, now time.Time) error {
	query := `
        UPDATE events
        SET attendee_count = GREATEST(attendee_count + $2, 0), last_updated_at = $3, last_updated_by = $4
        WHERE event_id = $1;
    `
	tag, err := r.conn(ctx).Exec(ctx, query, eventID, delta, now, memberID)
	if err != nil {
		return mapPgError(err, "adjust attendee count of", "event")
	}
	return expectOneRow(tag, "event")
}
