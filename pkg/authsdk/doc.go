/*
Package authsdk holds the wire types of the forum session service and a small
Go client for it.

The server uses the request, response and error types in this package to
shape its JSON, so a client built on them always agrees with the server.

# Client and Session

SDKClient talks to the public endpoints. It keeps the refresh_token cookie in
an http.CookieJar, exactly as a browser would:

	client := authsdk.NewSDKClient("http://localhost:3000")

	session, err := client.Login(ctx, authsdk.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})
	if err != nil {
		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeInvalidCredentials {
			// wrong password
		}
		return err
	}

	me, err := session.Me(ctx)

A Session holds the access token. Once it is about to expire the Session
calls GET /api/auth/refresh_token, which rotates the cookie and returns a new
pair. Logout clears the cookie on the server side and forgets the tokens.

# Errors

Every non-2xx response is decoded into an *APIError carrying the HTTP status,
the machine readable code and the message from the body.

# Thread Safety

SDKClient and Session are safe for concurrent use.
*/
package authsdk
