package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over PostgreSQL.
//
// Design notes:
//   - The pgx pool is owned by the caller; this store must NOT close it.
//   - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
//   - Save decides insert vs update by locking the row by id inside one transaction.
//     Email uniqueness is enforced by the uq_users_email constraint, never by a pre-read.
//   - Every call runs under a bounded timeout (WithQueryTimeout).
type PostgresStore struct {
	pool         *pgxpool.Pool
	schema       string
	queryTimeout time.Duration
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

const (
	defaultSchema       = "idaas"
	defaultQueryTimeout = 5 * time.Second
)

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the identity store (default "idaas").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentIsValid(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// WithQueryTimeout bounds every store call. Zero or negative keeps the default.
func WithQueryTimeout(d time.Duration) PostgresOption {
	return func(s *PostgresStore) error {
		if d > 0 {
			s.queryTimeout = d
		}
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:         pool,
		schema:       defaultSchema,
		queryTimeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

var _ Store = (*PostgresStore)(nil)

const userColumns = `id, email, name, phone, password_hash, roles`

// Save upserts u by id.
func (s *PostgresStore) Save(ctx context.Context, u Identity) error {
	const op = "identity.PostgresStore.Save"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if strings.TrimSpace(u.ID) == "" {
		return invalid(op, "id", "must not be blank")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	users := pgIdent(s.schema, "users")

	var one int
	err = tx.QueryRow(ctx,
		`SELECT 1 FROM `+users+` WHERE id = $1 FOR UPDATE`,
		u.ID,
	).Scan(&one)
	exists := true
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: lookup: %w", op, err)
		}
		exists = false
	}

	hash := pgNullIfEmpty(u.CredentialHash)
	roles := EncodeRoles(u.Roles)
	now := time.Now().UTC()

	if exists {
		_, err = tx.Exec(ctx,
			`UPDATE `+users+`
			    SET email = $2,
			        name = $3,
			        phone = $4,
			        password_hash = $5,
			        roles = $6,
			        updated_at = $7
			  WHERE id = $1`,
			u.ID, u.Email, u.Name, u.Phone, hash, roles, now,
		)
	} else {
		_, err = tx.Exec(ctx,
			`INSERT INTO `+users+` (`+userColumns+`, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			u.ID, u.Email, u.Name, u.Phone, hash, roles, now,
		)
	}
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return ConflictError{Op: op, Field: field}
		}
		return fmt.Errorf("%s: write: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return ConflictError{Op: op, Field: field}
		}
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// FindByID returns the identity with id.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (Identity, error) {
	return s.findOne(ctx, "identity.PostgresStore.FindByID", "id", id)
}

// FindByEmail returns the identity registered with email.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Identity, error) {
	return s.findOne(ctx, "identity.PostgresStore.FindByEmail", "email", email)
}

// DeleteByID removes the identity with id (idempotent).
func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	return s.deleteWhere(ctx, "identity.PostgresStore.DeleteByID", "id", id)
}

// DeleteByEmail removes the identity registered with email (idempotent).
func (s *PostgresStore) DeleteByEmail(ctx context.Context, email string) error {
	return s.deleteWhere(ctx, "identity.PostgresStore.DeleteByEmail", "email", email)
}

// FindAll returns every identity. Order is by id, which is not semantically significant.
func (s *PostgresStore) FindAll(ctx context.Context) ([]Identity, error) {
	const op = "identity.PostgresStore.FindAll"

	if s == nil || s.pool == nil {
		return nil, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM `+pgIdent(s.schema, "users")+` ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]Identity, 0)
	for rows.Next() {
		u, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *PostgresStore) findOne(ctx context.Context, op, column, value string) (Identity, error) {
	if s == nil || s.pool == nil {
		return Identity{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM `+pgIdent(s.schema, "users")+` WHERE `+column+` = $1`,
		value,
	)
	u, err := scanIdentity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, notFound(op)
		}
		return Identity{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *PostgresStore) deleteWhere(ctx context.Context, op, column, value string) error {
	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx,
		`DELETE FROM `+pgIdent(s.schema, "users")+` WHERE `+column+` = $1`,
		value,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// scanIdentity reads one users row and rebuilds the Identity through New,
// so a row that violates the invariants is reported instead of returned.
func scanIdentity(row pgx.Row) (Identity, error) {
	var (
		id, email, name, phone string
		hash                   *string
		roles                  string
	)
	if err := row.Scan(&id, &email, &name, &phone, &hash, &roles); err != nil {
		return Identity{}, err
	}

	f := Fields{
		ID:    id,
		Email: email,
		Name:  name,
		Phone: phone,
		Roles: DecodeRoles(roles),
	}
	if hash != nil {
		f.CredentialHash = *hash
	}
	return New(f)
}

// ---- helpers ----

func pgNullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// pgIdentIsValid checks if a string is a safe Postgres identifier.
func pgIdentIsValid(s string) bool {
	return pgIdentRe.MatchString(s)
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable schema constraint names. Fall back to substring matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))

	switch c {
	case "uq_users_email":
		return "email", true
	case "users_pkey":
		return "id", true
	default:
		switch {
		case strings.Contains(c, "email"):
			return "email", true
		case strings.Contains(c, "pkey"):
			return "id", true
		default:
			return "unique", true
		}
	}
}
