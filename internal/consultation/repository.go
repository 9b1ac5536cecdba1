package consultation

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("consultation not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Save(ctx context.Context, c *Consultation) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	query := `SELECT id, session_id, gender, age, symptoms, history, diagnosis, treatment, report, created_at
		FROM consultations WHERE id = $1`

	var c Consultation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.SessionID,
		&c.Gender,
		&c.Age,
		&c.Symptoms,
		&c.History,
		&c.Diagnosis,
		&c.Treatment,
		&c.Report,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c *Consultation) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO consultations (id, session_id, gender, age, symptoms, history, diagnosis, treatment, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			diagnosis = $7,
			treatment = $8,
			report = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.SessionID, c.Gender, c.Age, c.Symptoms, c.History, c.Diagnosis, c.Treatment, c.Report, c.CreatedAt)
	return err
}

// memoryRepo keeps consultations for the life of the process when no
// database is configured.
type memoryRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]Consultation
}

func NewMemoryRepository() Repository {
	return &memoryRepo{items: make(map[uuid.UUID]Consultation)}
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepo) Save(_ context.Context, c *Consultation) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.mu.Lock()
	r.items[c.ID] = *c
	r.mu.Unlock()
	return nil
}
