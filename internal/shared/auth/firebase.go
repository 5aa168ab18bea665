package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Identity is a verified external identity.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// Verifier validates bearer tokens issued by the external identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// FirebaseVerifier validates Firebase ID tokens via the Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes the Admin SDK from a service-account JSON
// blob. Application Default Credentials are used when the blob is empty.
func NewFirebaseVerifier(ctx context.Context, credentialsJSON string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify decodes and validates a Firebase ID token.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("verify id token: %w", err)
	}
	id := Identity{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}

var _ Verifier = (*FirebaseVerifier)(nil)
