package types

import "time"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID         string    `json:"id" dynamodbav:"id"`
	OwnerEmail string    `json:"-" dynamodbav:"owner_email"`
	Title      string    `json:"title" dynamodbav:"title"`
	Completed  bool      `json:"completed" dynamodbav:"completed"`
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateTaskRequest struct {
	Title     string `json:"title" example:"Buy milk"`
	Completed bool   `json:"completed" example:"false"`
}

// UpdateTaskRequest backs both PUT and PATCH. PATCH leaves nil fields as
// they are; PUT requires Title and treats a nil Completed as false.
type UpdateTaskRequest struct {
	Title     *string `json:"title" example:"Buy oat milk"`
	Completed *bool   `json:"completed" example:"true"`
}
