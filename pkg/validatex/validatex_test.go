package validatex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prometheusfi/prometheus/pkg/errx"
	"github.com/prometheusfi/prometheus/pkg/idx"
)

type loginArgs struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (a *loginArgs) Cast() {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
}

type listArgs struct {
	Categories []string `json:"categories" validate:"omitempty,dive,required,test_colour"`
	RoleFilter string   `json:"roleFilter" validate:"test_filter"`
	Featured   bool     `json:"featured"`
}

func (a *listArgs) Cast() {
	if a.RoleFilter == "" {
		a.RoleFilter = "everyone"
	}
}

type lookupArgs struct {
	ID string `json:"id" validate:"required,ulid"`
}

func init() {
	RegisterEnum("test_colour", "RED", "GREEN")
	RegisterEnum("test_filter", "everyone", "following")
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	e := errx.From(err)
	require.Equal(t, errx.KindInvalidInput, e.Kind)
	require.Equal(t, errx.CodeBadUserInput, e.Code)
	return e.Fields
}

func TestArgsCollectsAllErrors(t *testing.T) {
	t.Parallel()

	t.Run("both empty fields are reported", func(t *testing.T) {
		_, err := Args[loginArgs](map[string]any{"email": "", "password": ""})
		fields := fieldsOf(t, err)
		require.Contains(t, fields, "email")
		require.Contains(t, fields, "password")
	})

	t.Run("malformed email only", func(t *testing.T) {
		_, err := Args[loginArgs](map[string]any{"email": "test", "password": "test-pass"})
		fields := fieldsOf(t, err)
		require.Equal(t, map[string]string{"email": "email must be a valid email"}, fields)
	})

	t.Run("slice elements use indexed paths", func(t *testing.T) {
		_, err := Args[listArgs](map[string]any{"categories": []any{"RED", "BLUE"}, "roleFilter": "nobody"})
		fields := fieldsOf(t, err)
		require.Contains(t, fields, "categories[1]")
		require.Contains(t, fields, "roleFilter")
		require.Equal(t, "roleFilter must be one of the following values: everyone, following", fields["roleFilter"])
	})

	t.Run("type mismatch is a field error", func(t *testing.T) {
		_, err := Args[listArgs](map[string]any{"featured": "yes"})
		fields := fieldsOf(t, err)
		require.Contains(t, fields, "featured")
	})
}

func TestArgsCastsDefaults(t *testing.T) {
	t.Parallel()

	got, err := Args[listArgs](map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "everyone", got.RoleFilter)
	require.False(t, got.Featured)

	got, err = Args[listArgs](nil)
	require.NoError(t, err)
	require.Equal(t, "everyone", got.RoleFilter)

	login, err := Args[loginArgs](map[string]any{"email": "  Someone@Example.COM ", "password": "pw"})
	require.NoError(t, err)
	require.Equal(t, "someone@example.com", login.Email)
}

func TestValueIsIdempotent(t *testing.T) {
	t.Parallel()

	first, err := Args[loginArgs](map[string]any{"email": " A@B.io", "password": "secret"})
	require.NoError(t, err)

	second, err := Value(first)
	require.NoError(t, err)
	require.Equal(t, first, second)

	third, err := Value(second)
	require.NoError(t, err)
	require.Equal(t, second, third)

	list, err := Value(listArgs{})
	require.NoError(t, err)
	again, err := Value(list)
	require.NoError(t, err)
	require.Equal(t, list, again)
}

func TestULIDPredicate(t *testing.T) {
	t.Parallel()

	_, err := Args[lookupArgs](map[string]any{"id": idx.New().String()})
	require.NoError(t, err)

	_, err = Args[lookupArgs](map[string]any{"id": "507f1f77bcf86cd799439011"})
	require.Equal(t, map[string]string{"id": "id must be a valid identifier"}, fieldsOf(t, err))

	_, err = Args[lookupArgs](map[string]any{})
	require.Equal(t, map[string]string{"id": "id is a required field"}, fieldsOf(t, err))
}

func TestRecordTieBreak(t *testing.T) {
	t.Parallel()

	t.Run("first message wins", func(t *testing.T) {
		fields := map[string]string{}
		record(fields, "email", "email", "first")
		record(fields, "email", "max", "second")
		require.Equal(t, "first", fields["email"])
	})

	t.Run("required overwrites earlier message", func(t *testing.T) {
		fields := map[string]string{}
		record(fields, "email", "type", "email must be a `string` type")
		record(fields, "email", "required", "email is a required field")
		require.Equal(t, "email is a required field", fields["email"])
	})

	t.Run("later non-required does not overwrite required", func(t *testing.T) {
		fields := map[string]string{}
		record(fields, "email", "required", "email is a required field")
		record(fields, "email", "email", "email must be a valid email")
		require.Equal(t, "email is a required field", fields["email"])
	})
}
