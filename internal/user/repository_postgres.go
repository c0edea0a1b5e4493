package user

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `user_id, name, COALESCE(email, ''), password, phone, profile_image, is_admin, COALESCE(google_id, ''), COALESCE(facebook_id, ''), created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	var phone, image sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &phone, &image, &u.IsAdmin, &u.GoogleID, &u.FacebookID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.Phone = phone.String
	u.ProfileImage = image.String
	return u, nil
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	return scanUser(row)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) GetByFacebookID(facebookID string) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE facebook_id = $1`, facebookID)
	return scanUser(row)
}

func (r *PostgresRepository) Create(u User) (User, error) {
	// email is stored as NULL when absent so the unique index tolerates
	// multiple email-less social accounts
	err := r.db.QueryRow(`INSERT INTO users (name, email, password, phone, profile_image, is_admin, google_id, facebook_id, created_at, updated_at)
        VALUES ($1,NULLIF($2,''),$3,$4,$5,$6,NULLIF($7,''),NULLIF($8,''),$9,$10)
        RETURNING user_id`,
		u.Name, u.Email, u.Password, u.Phone, u.ProfileImage, u.IsAdmin, u.GoogleID, u.FacebookID, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if isUniqueViolation(err) {
		return User{}, ErrEmailExists
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) Update(id int, update User) (User, error) {
	// COALESCE-style partial update: empty strings leave the stored value alone.
	row := r.db.QueryRow(`UPDATE users SET
            name = COALESCE(NULLIF($1,''), name),
            email = COALESCE(NULLIF($2,''), email),
            phone = COALESCE(NULLIF($3,''), phone),
            profile_image = COALESCE(NULLIF($4,''), profile_image),
            password = COALESCE(NULLIF($5,''), password),
            google_id = COALESCE(NULLIF($6,''), google_id),
            facebook_id = COALESCE(NULLIF($7,''), facebook_id),
            updated_at = $8
        WHERE user_id = $9
        RETURNING `+userColumns,
		update.Name, update.Email, update.Phone, update.ProfileImage, update.Password, update.GoogleID, update.FacebookID, update.UpdatedAt, id)
	return scanUser(row)
}
