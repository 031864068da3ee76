package models

import "time"

type Event struct {
	ID          int64     `db:"id"`
	ClubID      int64     `db:"club_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	StartsAt    time.Time `db:"starts_at"`
	CreatedBy   int64     `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
}

type Announcement struct {
	ID        int64     `db:"id"`
	ClubID    int64     `db:"club_id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	CreatedBy int64     `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}
