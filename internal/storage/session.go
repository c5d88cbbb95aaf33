package storage

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/nikitkaralius/pollbot/internal/voters"
)

// Session is a unit of work. It holds one transaction at a time; after
// Commit or Rollback the next call transparently opens a new one.
// Callers must Rollback on every exit path; it is a no-op after Commit.
type Session struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (s *Session) current(ctx context.Context) (pgx.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx
	return tx, nil
}

func (s *Session) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Session) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (s *Session) Voter(ctx context.Context, u *tgbotapi.User) (*voters.Voter, error) {
	tx, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return voters.NewRepository(tx).GetOrCreate(ctx, u)
}

func (s *Session) SaveVoter(ctx context.Context, v *voters.Voter) error {
	tx, err := s.current(ctx)
	if err != nil {
		return err
	}
	return voters.NewRepository(tx).Save(ctx, v)
}

func (s *Session) PollByUUID(ctx context.Context, id uuid.UUID) (*polls.Poll, error) {
	tx, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return polls.NewRepository(tx).GetByUUID(ctx, id)
}

func (s *Session) PollByID(ctx context.Context, id int64) (*polls.Poll, error) {
	tx, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return polls.NewRepository(tx).GetByID(ctx, id)
}

func (s *Session) AddOption(ctx context.Context, o *polls.Option) error {
	tx, err := s.current(ctx)
	if err != nil {
		return err
	}
	return polls.NewRepository(tx).InsertOption(ctx, o)
}

// DeletePoll is the destroy path of a poll: voters working on it are
// detached, then votes, options and the poll row are removed.
func (s *Session) DeletePoll(ctx context.Context, pollID int64) error {
	tx, err := s.current(ctx)
	if err != nil {
		return err
	}
	if err := voters.NewRepository(tx).ReleasePoll(ctx, pollID); err != nil {
		return err
	}
	return polls.NewRepository(tx).Delete(ctx, pollID)
}
