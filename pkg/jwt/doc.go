// Package jwt issues and verifies HS256 bearer tokens with
// github.com/golang-jwt/jwt/v5 and provides HTTP middleware that stores the
// verified claims in the request context.
//
//	svc, err := jwt.NewFromString(cfg.SigningKey, jwt.WithIssuer("taskflow"))
//	token, err := svc.Issue(userID, time.Hour)
//
//	r.Use(jwt.Middleware(svc))
//	...
//	userID, ok := jwt.Subject(r.Context())
package jwt
