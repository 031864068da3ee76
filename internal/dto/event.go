package dto

type EventRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Location    string `json:"location" validate:"max=200"`
	StartsAt    string `json:"starts_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type EventResponse struct {
	ID          int64  `json:"id"`
	ClubID      int64  `json:"club_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"`
	CreatedBy   int64  `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

type AnnouncementRequest struct {
	Title string `json:"title" validate:"required,min=3,max=200"`
	Body  string `json:"body" validate:"required,max=8000"`
}

type AnnouncementResponse struct {
	ID        int64  `json:"id"`
	ClubID    int64  `json:"club_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedBy int64  `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}
