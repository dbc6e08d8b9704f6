package identity

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseProvider delega la identidad en Firebase Authentication.
type FirebaseProvider struct {
	client *fbauth.Client
}

// NewFirebaseProvider inicializa la app de Firebase. Sin archivo de
// credenciales se usan las Application Default Credentials.
func NewFirebaseProvider(ctx context.Context, credentialsFile, projectID string) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (Identity, error) {
	decoded, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := decoded.Claims["email"].(string)
	if email == "" {
		return Identity{}, fmt.Errorf("%w: token sin email", ErrInvalidToken)
	}
	return Identity{Subject: decoded.UID, Email: email}, nil
}

func (p *FirebaseProvider) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	params := (&fbauth.UserToCreate{}).Email(email).Password(password)
	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return "", ErrEmailExists
		}
		return "", err
	}
	return record.UID, nil
}

func (p *FirebaseProvider) UpdateIdentity(ctx context.Context, subject string, email, password *string) error {
	if email == nil && password == nil {
		return nil
	}
	params := &fbauth.UserToUpdate{}
	if email != nil {
		params = params.Email(*email)
	}
	if password != nil {
		params = params.Password(*password)
	}
	if _, err := p.client.UpdateUser(ctx, subject, params); err != nil {
		switch {
		case fbauth.IsUserNotFound(err):
			return ErrNotFound
		case fbauth.IsEmailAlreadyExists(err):
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (p *FirebaseProvider) DeleteIdentity(ctx context.Context, subject string) error {
	if err := p.client.DeleteUser(ctx, subject); err != nil {
		if fbauth.IsUserNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (p *FirebaseProvider) LookupByEmail(ctx context.Context, email string) (string, error) {
	record, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return record.UID, nil
}

var _ Provider = (*FirebaseProvider)(nil)
