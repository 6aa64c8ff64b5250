package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/domain"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/repository/dealer"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

const uniqueViolation = "23505"

const dealerSelectColumns = `id, name, title, avatar_url, is_active, bio, gender,
		       specialties, outfit_stages, game_stats, created_at, updated_at`

type DealersRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewDealersRepository(db *dbpg.DB, retries retry.Strategy) *DealersRepository {
	return &DealersRepository{
		db:      db,
		retries: retries,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDealer(row rowScanner) (*domain.Dealer, error) {
	var (
		d    domain.Dealer
		cols dealerColumns
	)

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Title,
		&d.AvatarURL,
		&d.IsActive,
		&d.Bio,
		&d.Gender,
		&cols.Specialties,
		&cols.Stages,
		&cols.Stats,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeColumns(&d, &cols); err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *DealersRepository) GetDealers(ctx context.Context) ([]domain.Dealer, error) {
	query := `SELECT ` + dealerSelectColumns + ` FROM dealers ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dealers: %w", err)
	}
	defer rows.Close()

	var dealers []domain.Dealer
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dealer: %w", err)
		}
		dealers = append(dealers, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dealers: %w", err)
	}

	return dealers, nil
}

func (r *DealersRepository) GetByID(ctx context.Context, id string) (*domain.Dealer, error) {
	query := `SELECT ` + dealerSelectColumns + ` FROM dealers WHERE id = $1`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query dealer: %w", err)
	}

	d, err := scanDealer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dealer.ErrDealerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan dealer: %w", err)
	}

	return d, nil
}

func (r *DealersRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM dealers WHERE id = $1)`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to check dealer: %w", err)
	}

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to scan dealer existence: %w", err)
	}

	return exists, nil
}

func (r *DealersRepository) Save(ctx context.Context, d *domain.Dealer) error {
	query := `
		INSERT INTO dealers (
			id, name, title, avatar_url, is_active, bio, gender,
			specialties, outfit_stages, game_stats, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	cols, err := encodeColumns(d)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}

	_, err = r.db.ExecWithRetry(ctx, r.retries, query,
		d.ID,
		d.Name,
		d.Title,
		d.AvatarURL,
		d.IsActive,
		d.Bio,
		d.Gender,
		cols.Specialties,
		cols.Stages,
		cols.Stats,
		d.CreatedAt,
		d.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return dealer.ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("failed to save dealer: %w", err)
	}

	return nil
}

func (r *DealersRepository) Update(ctx context.Context, d *domain.Dealer) error {
	query := `
		UPDATE dealers SET
			name = $2, title = $3, avatar_url = $4, is_active = $5, bio = $6,
			gender = $7, specialties = $8, outfit_stages = $9, game_stats = $10,
			updated_at = $11
		WHERE id = $1
	`

	cols, err := encodeColumns(d)
	if err != nil {
		return err
	}

	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecWithRetry(ctx, r.retries, query,
		d.ID,
		d.Name,
		d.Title,
		d.AvatarURL,
		d.IsActive,
		d.Bio,
		d.Gender,
		cols.Specialties,
		cols.Stages,
		cols.Stats,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update dealer: %w", err)
	}

	return expectAffected(result)
}

func (r *DealersRepository) SetStatus(ctx context.Context, id string, active bool) error {
	query := `UPDATE dealers SET is_active = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	return expectAffected(result)
}

func (r *DealersRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	query := `UPDATE dealers SET avatar_url = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, url, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	return expectAffected(result)
}

// UpdateStageImage overwrites one stage's image in place; other stages and
// fields are not read back, so concurrent writers to other slots do not clash.
func (r *DealersRepository) UpdateStageImage(ctx context.Context, id string, stageIndex int, url string) error {
	if stageIndex < 0 || stageIndex >= domain.OutfitStageCount {
		return dealer.ErrStageNotFound
	}

	query := `
		UPDATE dealers
		SET outfit_stages = jsonb_set(outfit_stages, $1::text[], to_jsonb($2::text), true),
		    updated_at = $3
		WHERE id = $4
	`

	path := fmt.Sprintf("{%d,image_url}", stageIndex)
	result, err := r.db.ExecWithRetry(ctx, r.retries, query, path, url, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update stage image: %w", err)
	}

	return expectAffected(result)
}

func (r *DealersRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM dealers WHERE id = $1`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete dealer: %w", err)
	}

	return expectAffected(result)
}

func (r *DealersRepository) IsAdminUser(ctx context.Context, uid string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM admin_users WHERE uid = $1)`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, uid)
	if err != nil {
		return false, fmt.Errorf("failed to query admin user: %w", err)
	}

	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to scan admin user: %w", err)
	}

	return ok, nil
}

// AddAdminUser grants admin rights to uid; granting twice is a no-op.
func (r *DealersRepository) AddAdminUser(ctx context.Context, uid string) error {
	query := `INSERT INTO admin_users (uid) VALUES ($1) ON CONFLICT (uid) DO NOTHING`

	if _, err := r.db.ExecWithRetry(ctx, r.retries, query, uid); err != nil {
		return fmt.Errorf("failed to add admin user: %w", err)
	}

	return nil
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return dealer.ErrDealerNotFound
	}

	return nil
}
