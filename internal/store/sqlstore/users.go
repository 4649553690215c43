package sqlstore

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/okunev/chirp/internal/models"
	"github.com/okunev/chirp/internal/store"
)

const userColumns = `id, username, password_hash, COALESCE(nickname, ''), COALESCE(avatar_url, ''), is_online, hide_online_status, COALESCE(theme, 'light')`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Nickname,
		&user.AvatarURL, &user.IsOnline, &user.HideOnlineStatus, &user.Theme)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLStore) CreateUser(user *models.User) error {
	query := s.rebind("INSERT INTO users (username, password_hash, nickname) VALUES (?, ?, ?) RETURNING id")
	err := s.db.QueryRow(query, user.Username, user.PasswordHash, user.Nickname).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (s *SQLStore) GetUserByUsername(username string) (*models.User, error) {
	query := s.rebind("SELECT " + userColumns + " FROM users WHERE username = ?")
	return scanUser(s.db.QueryRow(query, username))
}

func (s *SQLStore) GetUserByID(id int) (*models.User, error) {
	query := s.rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	return scanUser(s.db.QueryRow(query, id))
}

func (s *SQLStore) SetOnline(userID int, online bool) error {
	query := s.rebind("UPDATE users SET is_online = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")
	result, err := s.db.Exec(query, online, userID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateProfile applies only the fields present in patch. The SET clauses are
// assembled from fixed column literals, never from request input.
func (s *SQLStore) UpdateProfile(userID int, patch models.ProfilePatch) error {
	var sets []string
	var args []interface{}

	if patch.Nickname != nil {
		sets = append(sets, "nickname = ?")
		args = append(args, *patch.Nickname)
	}
	if patch.AvatarURL != nil {
		sets = append(sets, "avatar_url = ?")
		args = append(args, *patch.AvatarURL)
	}
	if patch.HideOnlineStatus != nil {
		sets = append(sets, "hide_online_status = ?")
		args = append(args, *patch.HideOnlineStatus)
	}
	if patch.Theme != nil {
		sets = append(sets, "theme = ?")
		args = append(args, *patch.Theme)
	}

	if len(sets) == 0 {
		// Empty patch is a no-op success.
		return nil
	}

	args = append(args, userID)
	query := s.rebind("UPDATE users SET " + strings.Join(sets, ", ") + ", updated_at = CURRENT_TIMESTAMP WHERE id = ?")
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}
