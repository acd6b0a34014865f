package gateway

import (
	"net/http"

	"github.com/bjaus/stubapi/internal/api"
)

// Tags used to group operations in the schema document.
const (
	TagUsers = "Users"
	TagPosts = "Posts"
)

// Component schema names.
const (
	UserSchema = "User"
	PostSchema = "Post"
)

func userSchema() api.JSONSchema {
	return api.Object(
		api.Field("userId", api.Integer(api.FormatUint64)),
		api.Field("username", api.String()),
		api.OptionalField("email", api.String().WithExample(ExampleEmail)),
	)
}

func postSchema() api.JSONSchema {
	return api.Object(
		api.Field("postId", api.Integer(api.FormatUint64).Describe("The unique identifier for the post.")),
		api.Field("title", api.String().Describe("The title of the post.")),
		api.OptionalField("summary", api.String().Describe("A short summary of the post.")),
	)
}

// schemaOptions declares the component schemas the route table refers to.
func schemaOptions() []api.RouterOption {
	return []api.RouterOption{
		api.WithSchema(UserSchema, userSchema()),
		api.WithSchema(PostSchema, postSchema()),
		api.WithTagDescriptions(map[string]string{
			TagUsers: "Fixed and echoed user records.",
			TagPosts: "Posts built from query parameters.",
		}),
	}
}

// Routes registers the route table on reg. Every route carries its own
// schema descriptor; /hidden is served but left out of the document.
func Routes(reg api.Registrar) {
	api.Get(reg, "/user", getAllUsers,
		api.WithOperationID("get_all_users"),
		api.WithSummary("Get all users"),
		api.WithDescription("Returns all users in the system."),
		api.WithTags(TagUsers),
		api.WithResponse(api.Array(api.Ref(UserSchema))),
	)

	api.Get(reg, "/user/{id}", getUser,
		api.WithOperationID("get_user"),
		api.WithSummary("Get user"),
		api.WithDescription("Returns a single user by ID."),
		api.WithTags(TagUsers),
		api.WithParams(api.PathParam("id", api.Integer(api.FormatUint64))),
		api.WithResponse(api.FixedArray(api.Ref(UserSchema), 2)),
	)

	api.Get(reg, "/user_example", getUserByName,
		api.WithOperationID("get_user_by_name"),
		api.WithSummary("Get user by name"),
		api.WithDescription("Returns a single user by username."),
		api.WithTags(TagUsers),
		api.WithParams(
			api.QueryParam("userId", api.Integer(api.FormatUint64)),
			api.QueryParam("name", api.String()),
			api.OptionalQueryParam("email", api.String().WithExample(ExampleEmail)),
		),
		api.WithResponse(api.Ref(UserSchema)),
	)

	api.Post(reg, "/user", createUser,
		api.WithOperationID("create_user"),
		api.WithSummary("Create user"),
		api.WithTags(TagUsers),
		api.WithRequestBody(api.Ref(UserSchema)),
		api.WithResponse(api.Ref(UserSchema)),
		api.WithErrors(http.StatusRequestEntityTooLarge),
	)

	api.Get(reg, "/hidden", hidden,
		api.WithHidden(),
	)

	api.Get(reg, "/post_by_query", createPostByQuery,
		api.WithOperationID("create_post_by_query"),
		api.WithSummary("Create post using query params"),
		api.WithDescription("Returns the created post."),
		api.WithTags(TagPosts),
		api.WithParams(
			api.QueryParam("postId", api.Integer(api.FormatUint64)).Describe("The unique identifier for the post."),
			api.QueryParam("title", api.String()).Describe("The title of the post."),
			api.OptionalQueryParam("summary", api.String()).Describe("A short summary of the post."),
		),
		api.WithResponse(api.Ref(PostSchema)),
	)
}
