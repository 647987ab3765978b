package throttlequeue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedactArgsStripsTokenKeys(t *testing.T) {
	args := []any{
		map[string]any{
			"user":  "parker",
			"token": "s3cr3t",
		},
	}

	got := redactArgs(args)

	assert.Equal(t, []any{map[string]any{"user": "parker"}}, got)
}

func TestRedactArgsIsCaseInsensitive(t *testing.T) {
	args := []any{
		map[string]string{"Token": "s3cr3t", "id": "42"},
	}

	got := redactArgs(args)

	assert.Equal(t, []any{map[string]any{"id": "42"}}, got)
}

func TestRedactArgsWalksNestedValues(t *testing.T) {
	args := []any{
		map[string]any{
			"request": map[string]any{
				"token": "s3cr3t",
				"path":  "/v1/items",
			},
		},
		[]any{
			map[string]any{"token": "another"},
		},
	}

	got := redactArgs(args)

	assert.Equal(t, []any{
		map[string]any{
			"request": map[string]any{"path": "/v1/items"},
		},
		[]any{map[string]any{}},
	}, got)
}

func TestRedactArgsStripsStructTokenFields(t *testing.T) {
	type creds struct {
		User  string
		Token string
	}

	got := redactArgs([]any{creds{User: "parker", Token: "s3cr3t"}})

	assert.Equal(t, []any{map[string]any{"User": "parker"}}, got)
}

func TestRedactArgsStripsDeeplyNestedTokens(t *testing.T) {
	type creds struct {
		User  string
		Token string
	}
	type request struct {
		Path  string
		Creds creds
		Meta  map[string]any
	}

	got := redactArgs([]any{request{
		Path:  "/v1",
		Creds: creds{User: "u", Token: "s3cr3t"},
		Meta:  map[string]any{"trace": "abc", "token": "also-secret"},
	}})

	assert.Equal(t, []any{map[string]any{
		"Path":  "/v1",
		"Creds": map[string]any{"User": "u"},
		"Meta":  map[string]any{"trace": "abc"},
	}}, got)
}

func TestRedactArgsLeavesOtherStructsAlone(t *testing.T) {
	// Opaque structs with no exported fields, like time.Time, pass
	// through untouched.
	ts := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

	got := redactArgs([]any{ts, "plain", 7})

	assert.Equal(t, []any{ts, "plain", 7}, got)
}

func TestRedactArgsNeverMutatesCallerValues(t *testing.T) {
	arg := map[string]any{"token": "s3cr3t", "id": "42"}

	_ = redactArgs([]any{arg})

	assert.Equal(t, map[string]any{"token": "s3cr3t", "id": "42"}, arg)
}

func TestRedactArgsEmptyAndNil(t *testing.T) {
	assert.Nil(t, redactArgs(nil))
	assert.Equal(t, []any{nil}, redactArgs([]any{nil}))
}
