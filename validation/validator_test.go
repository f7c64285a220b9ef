package validation_test

import (
	"net/http"
	"strings"
	"testing"

	"bff-gateway/validation"

	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v, err := validation.New(validation.DefaultRules("/api/admin"))
	require.NoError(t, err)
	return v
}

func TestValidate(t *testing.T) {
	t.Parallel()

	hash := strings.Repeat("a", 64)
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   string
	}{
		{name: "login ok", method: http.MethodPost, path: "/api/auth/login", body: `{"email":"a@b.c","password":"p"}`},
		{name: "login missing password", method: http.MethodPost, path: "/api/auth/login", body: `{"email":"a@b.c"}`, code: validation.CodeInvalidCredentials},
		{name: "register wrong type", method: http.MethodPost, path: "/api/auth/register", body: `{"email":1,"password":"p"}`, code: validation.CodeInvalidCredentials},
		{name: "login too long", method: http.MethodPost, path: "/api/auth/login", body: `{"email":"` + strings.Repeat("x", 257) + `","password":"p"}`, code: validation.CodeInvalidCredentials},
		{name: "phone ok", method: http.MethodPost, path: "/api/auth/phone/start", body: `{"phone":"+15550100"}`},
		{name: "phone short", method: http.MethodPost, path: "/api/auth/phone/start", body: `{"phone":"123"}`, code: validation.CodeInvalidPhone},
		{name: "verify ok", method: http.MethodPost, path: "/api/auth/phone/verify", body: `{"phone":"+15550100","code":"123456"}`},
		{name: "verify code length", method: http.MethodPost, path: "/api/auth/phone/verify", body: `{"phone":"+15550100","code":"12345"}`, code: validation.CodeInvalidPayload},
		{name: "vibe zero", method: http.MethodPost, path: "/api/venues/v1/vibe", body: `{"vibeScore":0}`},
		{name: "vibe out of range", method: http.MethodPost, path: "/api/venues/v1/vibe", body: `{"vibeScore":11}`, code: validation.CodeInvalidVibe},
		{name: "vibe missing", method: http.MethodPost, path: "/api/venues/v1/vibe", body: ``, code: validation.CodeInvalidVibe},
		{name: "admin venue blank", method: http.MethodPost, path: "/api/admin/venues", body: `{"title":"   "}`, code: validation.CodeTitleRequired},
		{name: "admin venue ok", method: http.MethodPost, path: "/api/admin/venues", body: `{"title":"Bar"}`},
		{name: "contacts ok", method: http.MethodPost, path: "/api/contacts/match", body: `{"hashes":["` + hash + `"]}`},
		{name: "contacts empty", method: http.MethodPost, path: "/api/contacts/match", body: `{"hashes":[]}`, code: validation.CodeInvalidPayload},
		{name: "contacts short hash", method: http.MethodPost, path: "/api/contacts/match", body: `{"hashes":["abc"]}`, code: validation.CodeInvalidPayload},
		{name: "intake ok", method: http.MethodPost, path: "/api/valet/intake", body: `{"userId":"u1","vehicle":{"make":"Tesla","model":"3"},"services":["ev_charging"]}`},
		{name: "intake no vehicle", method: http.MethodPost, path: "/api/valet/intake", body: `{"userId":"u1"}`, code: validation.CodeInvalidIntake},
		{name: "intake no model", method: http.MethodPost, path: "/api/valet/intake", body: `{"userId":"u1","vehicle":{"make":"Tesla"}}`, code: validation.CodeInvalidIntake},
		{name: "intake bad service", method: http.MethodPost, path: "/api/valet/intake", body: `{"userId":"u1","vehicle":{"make":"Tesla","model":"3"},"services":["teleport"]}`, code: validation.CodeInvalidService},
		{name: "intake photos", method: http.MethodPost, path: "/api/valet/intake", body: `{"userId":"u1","vehicle":{"make":"Tesla","model":"3"},"photos":[1,2,3,4,5,6,7,8,9,10,11]}`, code: validation.CodeTooManyPhotos},
		{name: "status ok", method: http.MethodPatch, path: "/api/valet/vehicles/T-1/status", body: `{"status":"parked"}`},
		{name: "status bogus", method: http.MethodPatch, path: "/api/valet/vehicles/T-1/status", body: `{"status":"bogus"}`, code: validation.CodeInvalidStatus},
		{name: "status malformed", method: http.MethodPatch, path: "/api/valet/vehicles/T-1/status", body: `{"status":`, code: validation.CodeInvalidStatus},
	}

	v := newValidator(t)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require := require.New(t)

			rule, ok := v.Lookup(c.method, c.path)
			require.True(ok)

			err := v.Validate(rule, []byte(c.body))
			if c.code == "" {
				require.NoError(err)
				return
			}
			validationErr := validation.Error{}
			require.ErrorAs(err, &validationErr)
			require.Equal(c.code, validationErr.Code)
		})
	}
}

func TestLookupIgnoresUndeclaredRoutes(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	v := newValidator(t)
	_, ok := v.Lookup(http.MethodGet, "/api/auth/login")
	require.False(ok)
	_, ok = v.Lookup(http.MethodPost, "/api/venues/v1/like")
	require.False(ok)
}
