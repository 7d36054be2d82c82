package types

import "time"

// User is the local account created on first federated sign-in.
// Email is the unique key; records are never modified after creation.
type User struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Email     string    `json:"email" dynamodbav:"email"`
	Username  string    `json:"username" dynamodbav:"username"`
	FirstName string    `json:"first_name" dynamodbav:"first_name"`
	LastName  string    `json:"last_name" dynamodbav:"last_name"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// UserInfo is the public projection of User returned to clients.
type UserInfo struct {
	Email     string `json:"email" example:"a@x.com"`
	FirstName string `json:"first_name" example:"Ada"`
	LastName  string `json:"last_name" example:"Lovelace"`
}

func (u *User) Info() UserInfo {
	return UserInfo{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
