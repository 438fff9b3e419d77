package site

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/irudium/site/views"
)

const profileColumns = `user_id, email, display_name, bio, avatar_url, role, created_at`

func scanProfile(row interface{ Scan(...any) error }) (views.Profile, error) {
	var p views.Profile
	var createdAt string
	err := row.Scan(&p.UserID, &p.Email, &p.DisplayName, &p.Bio, &p.AvatarURL,
		&p.Role, &createdAt)
	if err != nil {
		return views.Profile{}, err
	}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

// CreateUser inserts a new account with role "user" and returns its profile.
// The email is stored lowercased; hash is a bcrypt digest.
func (s *Store) CreateUser(email, passwordHash, displayName string) (views.Profile, error) {
	p := views.Profile{
		UserID:      uuid.NewString(),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		DisplayName: displayName,
		Role:        views.RoleUser,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.Exec(`INSERT INTO profiles (user_id, email, password_hash, display_name, bio, avatar_url, role, created_at)
		VALUES (?, ?, ?, ?, '', '', ?, ?)`,
		p.UserID, p.Email, passwordHash, p.DisplayName, p.Role, formatTime(p.CreatedAt))
	if err != nil {
		return views.Profile{}, err
	}
	return p, nil
}

// GetProfile returns the profile for a user id.
func (s *Store) GetProfile(userID string) (views.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)
	return scanProfile(row)
}

// GetCredentials returns the user id and password hash for an email, for
// login verification. The hash never travels further than the caller.
func (s *Store) GetCredentials(email string) (userID, passwordHash string, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	err = s.db.QueryRow(`SELECT user_id, password_hash FROM profiles WHERE email = ?`, email).
		Scan(&userID, &passwordHash)
	return userID, passwordHash, err
}

// ListProfiles returns every account, newest first (dashboard user tab).
func (s *Store) ListProfiles() ([]views.Profile, error) {
	rows, err := s.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []views.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdateProfile saves the user-editable profile fields.
func (s *Store) UpdateProfile(userID, displayName, bio, avatarURL string) error {
	res, err := s.db.Exec(`UPDATE profiles SET display_name = ?, bio = ?, avatar_url = ? WHERE user_id = ?`,
		displayName, bio, avatarURL, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// UpdateRole reassigns an account's role. Only reachable through the
// admin-gated dashboard handler.
func (s *Store) UpdateRole(userID, role string) error {
	switch role {
	case views.RoleUser, views.RoleEditor, views.RoleAdmin:
	default:
		return ErrInvalidRole
	}
	res, err := s.db.Exec(`UPDATE profiles SET role = ? WHERE user_id = ?`, role, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
