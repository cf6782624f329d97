/*
Package authsdk is the client SDK and shared wire types for the credgate
authentication gateway.

Downstream services use it to check bearer tokens without knowing the JWT
secret:

	client := authsdk.NewClient("http://auth:3002")

	res, err := client.ValidateToken(ctx, token)
	switch {
	case errors.Is(err, authsdk.ErrTokenRevoked):
		// user logged out
	case errors.Is(err, authsdk.ErrTokenExpired):
		// ask for a new login
	case err != nil:
		// invalid token or gateway failure
	}

The same request/response types and predefined errors are used by the
gateway itself, so both sides always agree on the wire format.
*/
package authsdk
