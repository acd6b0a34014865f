package gateway

// User is the record served by the /user routes. A nil Email is encoded
// as null.
type User struct {
	UserID   uint64  `json:"userId"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

// Post is bound from the query string of /post_by_query and echoed back.
type Post struct {
	PostID  uint64  `json:"postId" query:"postId"`
	Title   string  `json:"title" query:"title"`
	Summary *string `json:"summary" query:"summary"`
}

// UserByIDRequest is the input of GET /user/{id}.
type UserByIDRequest struct {
	ID uint64 `path:"id"`
}

// UserExampleRequest is the input of GET /user_example.
type UserExampleRequest struct {
	UserID uint64  `query:"userId"`
	Name   string  `query:"name"`
	Email  *string `query:"email"`
}
