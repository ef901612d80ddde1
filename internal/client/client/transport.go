package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/client/credential"
	"github.com/dmitrijs2005/lingokeeper/internal/common"
)

var errCredentialExpired = errors.New("credential expired")

type anonymousKey struct{}

// withoutCredential marks ctx so that no credential is attached to the
// request. Used for login and register.
func withoutCredential(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// bearerTransport attaches the stored credential to every outgoing request.
// A JWT whose exp has passed is not sent; the request fails with
// errCredentialExpired instead.
type bearerTransport struct {
	base  http.RoundTripper
	creds CredentialStore
	now   func() time.Time
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAnonymous(req.Context()) {
		return t.base.RoundTrip(req)
	}

	token, err := t.creds.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	if token == "" {
		return t.base.RoundTrip(req)
	}
	if credential.Expired(token, t.now()) {
		return nil, errCredentialExpired
	}

	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeader, common.BearerScheme+token)
	return t.base.RoundTrip(r)
}
