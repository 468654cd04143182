package model

import "time"

type Student struct {
	ID               int64
	FirstName        string
	LastName         *string
	Email            string
	Phone            *string
	Address          *string
	Password         string
	EmailConsent     bool
	Profession       *string
	Designation      *string
	Gender           *string
	GoogleID         *string
	ProfileCompleted bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Admin struct {
	ID        int64
	FirstName string
	LastName  *string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID   int64
	Name string
}

type Workshop struct {
	ID                int64
	CategoryID        int64
	CategoryName      string
	Name              string
	Description       *string
	DurationDays      int
	MinutesPerSession int
	SessionsPerDay    int
	Capacity          int
	Fee               float64
	Instructor        *string
	Status            string
	WorkshopImage     *string
	StartDate         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Batch struct {
	ID            int64
	WorkshopID    int64
	CategoryID    int64
	WorkshopName  string
	BatchName     *string
	Instructor    *string
	Status        string
	StartDate     *time.Time
	StartTime     *string
	EndTime       *string
	Location      *string
	ZoomLink      *string
	ZoomMeetingID *string
	ZoomPassword  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Enrollment struct {
	ID             int64
	StudentID      int64
	WorkshopID     int64
	BatchID        int64
	Status         string
	EnrollmentDate time.Time
}

// EnrollmentView is the student-facing join of an enrollment with its
// workshop and batch names.
type EnrollmentView struct {
	WorkshopName   string
	BatchName      *string
	Status         string
	EnrollmentDate time.Time
}

// StudentOverview is the admin listing row joining a student with any
// enrollment, batch and workshop it points at.
type StudentOverview struct {
	Student
	EnrollmentID     *int64
	EnrollmentStatus *string
	EnrollmentDate   *time.Time
	BatchID          *int64
	BatchName        *string
	BatchStatus      *string
	WorkshopID       *int64
	WorkshopName     *string
}

type Quote struct {
	ID        int64
	Quote     string
	Author    *string
	Category  string
	Color     *string
	Featured  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Resource struct {
	ID          int64
	Name        string
	CategoryID  int64
	SessionID   *int64
	URL         string
	Description *string
	CreatedAt   time.Time
}

// ResourceView is the student-facing row with the category name joined in.
type ResourceView struct {
	ID          int64
	Name        string
	URL         string
	Description *string
	Category    string
}

type ResourceCategory struct {
	ID   int64
	Name string
}

type ClarityCall struct {
	ID            int64
	StudentID     int64
	MentorName    string
	CallStatus    string
	ScheduledDate time.Time
	Notes         *string
}

type ClarityQuestion struct {
	ID       int64
	Question string
	Options  string
}

type ClarityAnswer struct {
	Question string
	Answer   string
}

type BlacklistedToken struct {
	ID        int64
	Token     string
	CreatedAt time.Time
}
