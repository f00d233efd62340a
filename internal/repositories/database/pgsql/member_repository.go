package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
)

const memberColumns = `member_id, full_name, email, phone, password_hash, role, status, position, joined_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxMemberRepository struct {
	BaseRepository
}

func newPgxMemberRepository(pool PgxPool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMemberRepository implements portsrepo.MemberRepositoryFacade
var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func scanMember(row rowScanner) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(
		&m.MemberID,
		&m.FullName,
		&m.Email,
		&m.Phone,
		&m.PasswordHash,
		&m.Role,
		&m.Status,
		&m.Position,
		&m.JoinedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	query := `
        INSERT INTO members (member_id, full_name, email, phone, password_hash, role, status, position, joined_at,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.conn(ctx).Exec(ctx, query,
		member.MemberID,
		member.FullName,
		member.Email,
		member.Phone,
		member.PasswordHash,
		member.Role,
		member.Status,
		member.Position,
		member.JoinedAt,
		member.CreatedAt,
		member.CreatedBy,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save", "member")
	}
	return nil
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`
	m, err := scanMember(r.conn(ctx).QueryRow(ctx, query, memberID))
	if err != nil {
		return nil, mapPgError(err, "find", "member")
	}
	return m, nil
}

func (r *PgxMemberRepository) FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1;`
	m, err := scanMember(r.conn(ctx).QueryRow(ctx, query, domain.NormalizeEmail(email)))
	if err != nil {
		return nil, mapPgError(err, "find", "member")
	}
	return m, nil
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.Search != "" {
		w.add("(full_name ILIKE ? OR email ILIKE ?)", "%"+filter.Search+"%")
	}
	query := `SELECT ` + memberColumns + ` FROM members` + w.clause() +
		` ORDER BY full_name ASC, member_id ASC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "members")
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, mapPgError(err, "scan", "member")
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "members")
	}
	return members, nil
}

func (r *PgxMemberRepository) CountMemberDependents(ctx context.Context, memberID string) (domain.MemberDependents, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM payments WHERE member_id = $1),
            (SELECT COUNT(*) FROM invoices WHERE member_id = $1),
            (SELECT COUNT(*) FROM expenses WHERE requested_by = $1),
            (SELECT COUNT(*) FROM transactions WHERE member_id = $1);
    `
	var deps domain.MemberDependents
	err := r.conn(ctx).QueryRow(ctx, query, memberID).Scan(
		&deps.Payments,
		&deps.Invoices,
		&deps.Expenses,
		&deps.Transactions,
	)
	if err != nil {
		return domain.MemberDependents{}, mapPgError(err, "count", "member dependents")
	}
	return deps, nil
}

func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	query := `
        UPDATE members
        SET full_name = $1, phone = $2, password_hash = $3, role = $4, status = $5, position = $6,
            joined_at = $7, last_updated_at = $8, last_updated_by = $9
        WHERE member_id = $10;
    `
	tag, err := r.conn(ctx).Exec(ctx, query,
		member.FullName,
		member.Phone,
		member.PasswordHash,
		member.Role,
		member.Status,
		member.Position,
		member.JoinedAt,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
		member.MemberID,
	)
	if err != nil {
		return mapPgError(err, "update", "member")
	}
	return expectOneRow(tag, "member")
}

// DeleteMember releases the member's RSVPs, keeping event counters in step, then removes the row.
// Callers run it inside a unit of work.
func (r *PgxMemberRepository) DeleteMember(ctx context.Context, memberID string) error {
	releaseRSVPs := `
        WITH removed AS (
            DELETE FROM event_rsvps WHERE member_id = $1 RETURNING event_id
        )
        UPDATE events SET attendee_count = GREATEST(attendee_count - 1, 0)
        WHERE event_id IN (SELECT event_id FROM removed);
    `
	if _, err := r.conn(ctx).Exec(ctx, releaseRSVPs, memberID); err != nil {
		return mapPgError(err, "release rsvps of", "member")
	}

	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM members WHERE member_id = $1;`, memberID)
	if err != nil {
		return mapPgError(err, "delete", "member")
	}
	return expectOneRow(tag, "member")
}

type PgxLoginLogRepository struct {
	BaseRepository
}

func newPgxLoginLogRepository(pool PgxPool) portsrepo.LoginLogRepository {
	return &PgxLoginLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoginLogRepository = (*PgxLoginLogRepository)(nil)

func (r *PgxLoginLogRepository) SaveLoginLog(ctx context.Context, entry domain.LoginLog) error {
	query := `
        INSERT INTO login_logs (login_log_id, member_id, email, ip_address, user_agent, success, failure_reason, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.conn(ctx).Exec(ctx, query,
		entry.LoginLogID,
		entry.MemberID,
		entry.Email,
		entry.IPAddress,
		entry.UserAgent,
		entry.Success,
		entry.FailureReason,
		entry.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, "save", "login log")
	}
	return nil
}

func (r *PgxLoginLogRepository) ListLoginLogs(ctx context.Context, filter domain.LoginLogFilter) ([]domain.LoginLog, error) {
	var w whereBuilder
	if filter.MemberID != "" {
		w.add("member_id = ?", filter.MemberID)
	}
	query := `SELECT login_log_id, member_id, email, ip_address, user_agent, success, failure_reason, created_at
        FROM login_logs` + w.clause() + ` ORDER BY created_at DESC, login_log_id DESC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapPgError(err, "query", "login logs")
	}
	defer rows.Close()

	logs := []domain.LoginLog{}
	for rows.Next() {
		var l domain.LoginLog
		if err := rows.Scan(&l.LoginLogID, &l.MemberID, &l.Email, &l.IPAddress, &l.UserAgent, &l.Success, &l.FailureReason, &l.CreatedAt); err != nil {
			return nil, mapPgError(err, "scan", "login log")
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate", "login logs")
	}
	return logs, nil
}

func (r *PgxLoginLogRepository) DeleteLoginLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM login_logs WHERE created_at < $1;`, cutoff)
	if err != nil {
		return 0, mapPgError(err, "prune", "login logs")
	}
	return tag.RowsAffected(), nil
}
