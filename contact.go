package site

import (
	"time"

	"github.com/google/uuid"

	"github.com/irudium/site/views"
)

// InsertContactMessage stores a contact form submission. Actual email
// dispatch belongs to an external service; rows feed the dashboard inbox.
func (s *Store) InsertContactMessage(m views.ContactMessage) (views.ContactMessage, error) {
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO contact_messages (id, name, email, phone, subject, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, formatTime(m.CreatedAt))
	if err != nil {
		return views.ContactMessage{}, err
	}
	return m, nil
}

// ListContactMessages returns submissions newest first.
func (s *Store) ListContactMessages() ([]views.ContactMessage, error) {
	rows, err := s.db.Query(`SELECT id, name, email, phone, subject, message, created_at
		FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []views.ContactMessage
	for rows.Next() {
		var m views.ContactMessage
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(createdAt)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Subscribe records a newsletter signup. Re-subscribing is a no-op.
func (s *Store) Subscribe(email string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO subscribers (email, created_at) VALUES (?, ?)`,
		email, formatTime(time.Now().UTC()))
	return err
}

// CountSubscribers returns the newsletter list size.
func (s *Store) CountSubscribers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM subscribers`).Scan(&n)
	return n, err
}

// ListSubscribers returns newsletter signups newest first.
func (s *Store) ListSubscribers() ([]views.Subscriber, error) {
	rows, err := s.db.Query(`SELECT email, created_at FROM subscribers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []views.Subscriber
	for rows.Next() {
		var sub views.Subscriber
		var createdAt string
		if err := rows.Scan(&sub.Email, &createdAt); err != nil {
			return nil, err
		}
		sub.CreatedAt = parseTime(createdAt)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
