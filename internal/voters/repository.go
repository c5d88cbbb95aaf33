package voters

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/nikitkaralius/pollbot/internal/polls"
)

type Repository struct {
	DB polls.DBTX
}

func NewRepository(db polls.DBTX) *Repository {
	return &Repository{DB: db}
}

const voterColumns = `id, telegram_id, COALESCE(username,''), COALESCE(name,''), locale,
	COALESCE(expected_input,''), current_poll_id, created_at, updated_at`

// GetOrCreate registers the Telegram user on first contact and refreshes the
// stored username and display name afterwards. The locale is only set on insert.
func (s *Repository) GetOrCreate(ctx context.Context, u *tgbotapi.User) (*Voter, error) {
	row := s.DB.QueryRow(ctx, `INSERT INTO voters (telegram_id, username, name, locale)
	VALUES ($1,$2,$3,$4)
	ON CONFLICT (telegram_id) DO UPDATE SET username=EXCLUDED.username, name=EXCLUDED.name, updated_at=NOW()
	RETURNING `+voterColumns,
		u.ID, u.UserName, displayName(u), locale(u),
	)
	v, err := scanVoter(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert voter: %w", err)
	}
	return v, nil
}

func (s *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*Voter, error) {
	v, err := scanVoter(s.DB.QueryRow(ctx, `SELECT `+voterColumns+` FROM voters WHERE telegram_id=$1`, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVoterNotFound
		}
		return nil, fmt.Errorf("failed to get voter: %w", err)
	}
	return v, nil
}

// Save persists the conversation state of the voter.
func (s *Repository) Save(ctx context.Context, v *Voter) error {
	var expected *string
	if v.ExpectedInput != ExpectedNone {
		e := string(v.ExpectedInput)
		expected = &e
	}
	tag, err := s.DB.Exec(ctx, `UPDATE voters SET expected_input=$2, current_poll_id=$3, locale=$4, updated_at=NOW() WHERE id=$1`,
		v.ID, expected, v.CurrentPollID, v.Locale,
	)
	if err != nil {
		return fmt.Errorf("failed to save voter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVoterNotFound
	}
	return nil
}

// ReleasePoll detaches every voter whose current poll is pollID.
func (s *Repository) ReleasePoll(ctx context.Context, pollID int64) error {
	_, err := s.DB.Exec(ctx, `UPDATE voters SET expected_input=NULL, current_poll_id=NULL, updated_at=NOW() WHERE current_poll_id=$1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to release poll: %w", err)
	}
	return nil
}

func scanVoter(row pgx.Row) (*Voter, error) {
	var v Voter
	var expected string
	if err := row.Scan(&v.ID, &v.TelegramID, &v.Username, &v.Name, &v.Locale, &expected, &v.CurrentPollID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.ExpectedInput = ExpectedInput(expected)
	return &v, nil
}

func displayName(u *tgbotapi.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name = name + " " + u.LastName
	}
	return name
}

func locale(u *tgbotapi.User) string {
	if u.LanguageCode == "" {
		return "en"
	}
	return u.LanguageCode
}
