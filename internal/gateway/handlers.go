package gateway

import (
	"context"

	"github.com/bjaus/stubapi/internal/api"
)

const (
	// ExampleEmail is the address of the second user returned by GET /user/{id}.
	ExampleEmail = "test@example.com"
	// HiddenMessage is the body of GET /hidden.
	HiddenMessage = "Hidden from swagger!"

	defaultUserID = 42
)

func getAllUsers(_ context.Context, _ *api.Void) (*[]User, error) {
	users := []User{{UserID: defaultUserID, Username: "bob"}}
	return &users, nil
}

// getUser answers any id; there is no not-found case.
func getUser(_ context.Context, req *UserByIDRequest) (*[2]User, error) {
	email := ExampleEmail
	return &[2]User{
		{UserID: req.ID, Username: "bob"},
		{UserID: req.ID, Username: "foobar", Email: &email},
	}, nil
}

func getUserByName(_ context.Context, req *UserExampleRequest) (*User, error) {
	return &User{
		UserID:   req.UserID,
		Username: req.Name,
		Email:    req.Email,
	}, nil
}

func createUser(_ context.Context, user *User) (*User, error) {
	return user, nil
}

func hidden(_ context.Context, _ *api.Void) (*string, error) {
	msg := HiddenMessage
	return &msg, nil
}

func createPostByQuery(_ context.Context, post *Post) (*Post, error) {
	return post, nil
}
