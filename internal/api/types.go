package api

import "time"

// TokenPair is the login response: short-lived access token plus the
// refresh token used to mint replacements.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the authenticated principal profile.
type User struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	DateJoined time.Time `json:"date_joined,omitempty"`
}

// FullName renders "First Last", falling back to the username.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// RegisterRequest creates an account via the public endpoint.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Role      string `json:"role,omitempty"`
}

// Project is a top-level container for milestones and tasks. Dates are
// calendar dates in ISO form (2006-01-02).
type Project struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	ProgressPercent float64 `json:"progress_percent,omitempty"`
}

// ProjectInput is the create/update payload.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ProjectProgress is the response of the progress endpoint.
type ProjectProgress struct {
	ProgressPercent float64 `json:"progress_percent"`
}

// ProjectHours is the response of the total-hours endpoint.
type ProjectHours struct {
	TotalHours float64 `json:"total_hours"`
}

// Milestone groups tasks within a project.
type Milestone struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
	Project int    `json:"project"`
}

// MilestoneInput is the create/update payload.
type MilestoneInput struct {
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
	Project int    `json:"project"`
}

// Task statuses and priorities as the backend enumerates them.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is a unit of work under a milestone.
type Task struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Milestone   int     `json:"milestone"`
	Assignee    *int    `json:"assignee,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     string  `json:"due_date,omitempty"`
	LoggedHours float64 `json:"logged_hours,omitempty"`
}

// TaskInput is the create/update payload.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Milestone   int    `json:"milestone"`
	Assignee    *int   `json:"assignee,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// Comment is attached to a task.
type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Task      *int      `json:"task"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CommentInput is the create/update payload.
type CommentInput struct {
	Content string `json:"content"`
	Task    *int   `json:"task"`
}

// Attachment is an uploaded file linked to a task. File is the
// download URL the backend serves.
type Attachment struct {
	ID         int       `json:"id"`
	File       string    `json:"file"`
	Task       *int      `json:"task"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}

// Health is the liveness probe response.
type Health struct {
	Status string `json:"status"`
}
