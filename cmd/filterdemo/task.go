package main

import "time"

// Task represents a work item for the demo server.
type Task struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	Status    string     `json:"status" gorm:"not null;index"`
	Priority  int        `json:"priority" gorm:"not null"`
	Price     float64    `json:"price"`
	IsActive  bool       `json:"is_active"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// SampleTasks returns sample task data for seeding the database.
func SampleTasks() []Task {
	lastWeek := time.Now().Add(-7 * 24 * time.Hour)
	return []Task{
		{
			ID:       1,
			Name:     "Fix login bug",
			Status:   "active",
			Priority: 3,
			Price:    120,
			IsActive: true,
		},
		{
			ID:       2,
			Name:     "Write onboarding docs",
			Status:   "done",
			Priority: 1,
			Price:    45.50,
			IsActive: false,
		},
		{
			ID:       3,
			Name:     "Phone support rotation",
			Status:   "active",
			Priority: 2,
			Price:    99.99,
			IsActive: true,
		},
		{
			ID:        4,
			Name:      "Retire legacy exporter",
			Status:    "blocked",
			Priority:  5,
			Price:     650,
			IsActive:  false,
			DeletedAt: &lastWeek,
		},
		{
			ID:       5,
			Name:     "Review login telemetry",
			Status:   "active",
			Priority: 4,
			Price:    15,
			IsActive: true,
		},
	}
}
