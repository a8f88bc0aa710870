/*
Package apisdk is a Go client for the Prometheus GraphQL API.

# SDKClient vs Session

  - SDKClient: public operations (health, invites, login, register)
  - Session: operations on behalf of a signed-in member

	client := apisdk.NewSDKClient("https://api.example.com")

	ok, err := client.VerifyInvite(ctx, code)
	session, err := client.Register(ctx, apisdk.RegisterRequest{...})

	feed, err := session.Feed(ctx, nil, apisdk.RoleFilterEveryone)
	post, err := session.CreatePost(ctx, apisdk.PostInput{Body: "hello"})

Sessions are safe for concurrent use. Access tokens are long lived and are
not refreshed; a Session whose token expired fails with UNAUTHENTICATED and
the caller logs in again.

# Errors

Errors reported by the API are returned as Errors, a list of *Error values
that errors.As can match individually. CodeOf extracts the first error code:

	if apisdk.CodeOf(err) == errx.CodeBadUserInput {
		for field, msg := range apisdk.FieldErrors(err) { ... }
	}

Throttled requests surface as TOO_MANY_REQUESTS. Responses that carry no
GraphQL error but a non-200 status are returned as *HTTPError.
*/
package apisdk
