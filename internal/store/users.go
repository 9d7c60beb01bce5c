package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// User is an account record. Token is the opaque bearer credential issued at
// signup; PasswordHash is the bcrypt digest. Neither is ever serialized to
// clients (no JSON tags by design; handlers build explicit response shapes).
type User struct {
	ID           string
	Email        string
	Username     string
	Fullname     string
	Token        string
	PasswordHash string
	AvatarKey    string

	FirstBookTitle   string
	FirstBookAuthor  string
	SecondBookTitle  string
	SecondBookAuthor string

	FirstStyle  string
	SecondStyle string
	ThirdStyle  string

	Birth       *time.Time
	Genre       string
	Country     string
	City        string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Users persists account records and resolves bearer tokens to identities.
type Users struct {
	pool *pgxpool.Pool
}

// NewUsers creates a new Users repository.
func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{pool: pool}
}

const userColumns = `id, email, username, fullname, token, password_hash, avatar_key,
	first_book_title, first_book_author, second_book_title, second_book_author,
	first_style, second_style, third_style,
	birth, genre, country, city, description, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.Fullname, &u.Token, &u.PasswordHash, &u.AvatarKey,
		&u.FirstBookTitle, &u.FirstBookAuthor, &u.SecondBookTitle, &u.SecondBookAuthor,
		&u.FirstStyle, &u.SecondStyle, &u.ThirdStyle,
		&u.Birth, &u.Genre, &u.Country, &u.City, &u.Description, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// Create inserts a new user record.
func (r *Users) Create(ctx context.Context, u User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, now(), now())`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.Username, u.Fullname, u.Token, u.PasswordHash, u.AvatarKey,
		u.FirstBookTitle, u.FirstBookAuthor, u.SecondBookTitle, u.SecondBookAuthor,
		u.FirstStyle, u.SecondStyle, u.ThirdStyle,
		u.Birth, u.Genre, u.Country, u.City, u.Description,
	)
	return err
}

// GetByToken resolves a bearer token to its account. Returns ErrNotFound for
// unknown tokens.
func (r *Users) GetByToken(ctx context.Context, token string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE token = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		return User{}, notFoundOr(err)
	}
	return u, nil
}

// GetByID retrieves an account by its identifier.
func (r *Users) GetByID(ctx context.Context, id string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return User{}, notFoundOr(err)
	}
	return u, nil
}

// GetByEmail retrieves an account by email address.
func (r *Users) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return User{}, notFoundOr(err)
	}
	return u, nil
}

// GetByUsername retrieves an account by display username.
func (r *Users) GetByUsername(ctx context.Context, username string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		return User{}, notFoundOr(err)
	}
	return u, nil
}

// Update persists the mutable profile fields of an existing account.
func (r *Users) Update(ctx context.Context, u User) error {
	query := `UPDATE users SET
		email = $2, fullname = $3, avatar_key = $4,
		first_book_title = $5, first_book_author = $6,
		second_book_title = $7, second_book_author = $8,
		first_style = $9, second_style = $10, third_style = $11,
		birth = $12, genre = $13, country = $14, city = $15, description = $16,
		updated_at = now()
	WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.Fullname, u.AvatarKey,
		u.FirstBookTitle, u.FirstBookAuthor,
		u.SecondBookTitle, u.SecondBookAuthor,
		u.FirstStyle, u.SecondStyle, u.ThirdStyle,
		u.Birth, u.Genre, u.Country, u.City, u.Description,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
