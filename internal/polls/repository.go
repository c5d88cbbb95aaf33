package polls

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	DB DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) CreatePoll(ctx context.Context, p *Poll) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	err := r.DB.QueryRow(ctx, `INSERT INTO polls (uuid, user_id, name, description, locale, european_date_format)
	VALUES ($1,$2,$3,$4,$5,$6)
	RETURNING id, created_at, updated_at`,
		p.UUID, p.UserID, p.Name, p.Description, p.Locale, p.EuropeanDateFormat,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

func (r *Repository) GetByUUID(ctx context.Context, id uuid.UUID) (*Poll, error) {
	return r.getOne(ctx, `WHERE uuid = $1`, id)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Poll, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*Poll, error) {
	var p Poll
	err := r.DB.QueryRow(ctx, `SELECT id, uuid, user_id, name, COALESCE(description,''), locale, european_date_format, created_at, updated_at
	FROM polls `+where, arg).Scan(
		&p.ID, &p.UUID, &p.UserID, &p.Name, &p.Description, &p.Locale, &p.EuropeanDateFormat, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if err := r.loadOptions(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) loadOptions(ctx context.Context, p *Poll) error {
	rows, err := r.DB.Query(ctx, `SELECT id, poll_id, "index", name, COALESCE(description,''), is_date, created_at, updated_at
	FROM options WHERE poll_id = $1 ORDER BY "index"`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to get options: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*Option)
	p.Options = p.Options[:0]
	for rows.Next() {
		o := &Option{Poll: p}
		if err := rows.Scan(&o.ID, &o.PollID, &o.Index, &o.Name, &o.Description, &o.IsDate, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		p.Options = append(p.Options, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating options: %w", err)
	}

	vrows, err := r.DB.Query(ctx, `SELECT v.id, v.option_id, v.voter_id, COALESCE(u.name,''), v.created_at
	FROM votes v
	JOIN options o ON o.id = v.option_id
	LEFT JOIN voters u ON u.id = v.voter_id
	WHERE o.poll_id = $1
	ORDER BY v.id`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to get votes: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var v Vote
		if err := vrows.Scan(&v.ID, &v.OptionID, &v.VoterID, &v.VoterName, &v.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan vote: %w", err)
		}
		if o, ok := byID[v.OptionID]; ok {
			o.Votes = append(o.Votes, v)
		}
	}
	return vrows.Err()
}

func (r *Repository) InsertOption(ctx context.Context, o *Option) error {
	var description *string
	if o.Description != "" {
		description = &o.Description
	}
	err := r.DB.QueryRow(ctx, `INSERT INTO options (poll_id, "index", name, description, is_date)
	VALUES ($1,$2,$3,$4,$5)
	RETURNING id, created_at, updated_at`,
		o.PollID, o.Index, o.Name, description, o.IsDate,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert option: %w", err)
	}
	return nil
}

func (r *Repository) InsertVote(ctx context.Context, v *Vote) error {
	err := r.DB.QueryRow(ctx, `INSERT INTO votes (option_id, voter_id) VALUES ($1,$2) RETURNING id, created_at`,
		v.OptionID, v.VoterID,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// Delete removes a poll together with its options and their votes.
// Votes and options are removed in bulk before the poll row itself.
func (r *Repository) Delete(ctx context.Context, pollID int64) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM votes USING options
	WHERE votes.option_id = options.id AND options.poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}
	if _, err := r.DB.Exec(ctx, `DELETE FROM options WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPollNotFound
	}
	return nil
}
